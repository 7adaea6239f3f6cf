package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/skein-viz/skein/pkg/graph"
)

func testCLI(t *testing.T) *CLI {
	t.Helper()
	// Keep every path the commands touch inside the test sandbox.
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func TestRootCommand(t *testing.T) {
	c := testCLI(t)
	root := c.RootCommand()

	want := []string{"layout", "render", "visualize", "trace", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func writeTestGraph(t *testing.T) string {
	t.Helper()
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []graph.Edge{
			{ID: "e1", From: "a", To: "b"},
			{ID: "e2", From: "a", To: "c"},
		},
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteGraphFile(g, path); err != nil {
		t.Fatalf("write graph: %v", err)
	}
	return path
}

func TestLayoutCommand(t *testing.T) {
	c := testCLI(t)
	input := writeTestGraph(t)
	output := filepath.Join(t.TempDir(), "out.layout.json")

	root := c.RootCommand()
	root.SetArgs([]string{"layout", input, "-o", output, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout command: %v", err)
	}

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(l.Nodes) != 3 {
		t.Errorf("layout has %d nodes, want 3", len(l.Nodes))
	}
	if !l.Routed("e1") || !l.Routed("e2") {
		t.Error("both edges should be routed")
	}
}

func TestRenderCommand(t *testing.T) {
	c := testCLI(t)
	input := writeTestGraph(t)
	output := filepath.Join(t.TempDir(), "diagram.svg")

	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-o", output, "--no-cache"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render command: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) == 0 {
		t.Error("rendered SVG is empty")
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	c := testCLI(t)
	input := writeTestGraph(t)

	root := c.RootCommand()
	root.SetArgs([]string{"render", input, "-f", "png"})
	if err := root.Execute(); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestTraceCommand(t *testing.T) {
	c := testCLI(t)
	input := writeTestGraph(t)

	root := c.RootCommand()
	root.SetArgs([]string{"trace", input, "a"})
	if err := root.Execute(); err != nil {
		t.Fatalf("trace command: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"trace", input, "missing"})
	if err := root.Execute(); err == nil {
		t.Error("unknown service should fail")
	}
}
