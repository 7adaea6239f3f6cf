package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
	"github.com/skein-viz/skein/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command: an interactive tier browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse the tier structure of a laid-out graph",
		Long: `Browse the tier structure of a laid-out graph.

The inspect command computes the layout and opens an interactive list of
tiers: how many services each holds, where it sits on the primary axis,
and how many edge lanes run through the gap below it. Selecting a tier
expands its services.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runInspect computes the layout and starts the TUI.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	l, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	model := NewTierListModel(l, opts.Config())
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

// =============================================================================
// TierListModel - Interactive tier browser
// =============================================================================

// tierRow is one tier plus the lane count of the gap below it.
type tierRow struct {
	Tier  layout.Tier
	Lanes int
}

// TierListModel is the bubbletea model for tier inspection.
type TierListModel struct {
	Direction string
	Rows      []tierRow
	Cursor    int
	Expanded  map[int]bool
	Height    int
	Offset    int
}

// NewTierListModel builds the tier rows from a computed layout.
func NewTierListModel(l graph.Layout, cfg layout.Config) TierListModel {
	tiers := layout.DetectTiers(l.Nodes, cfg)

	tierOf := make(map[string]int)
	for i, t := range tiers {
		for _, n := range t.Nodes {
			tierOf[n] = i
		}
	}

	rows := make([]tierRow, len(tiers))
	for i, t := range tiers {
		rows[i] = tierRow{Tier: t}
	}
	for _, e := range l.Edges {
		if !l.Routed(e.ID) {
			continue
		}
		gap := min(tierOf[e.From], tierOf[e.To])
		if gap >= 0 && gap < len(rows) {
			rows[gap].Lanes++
		}
	}

	return TierListModel{
		Direction: l.Direction,
		Rows:      rows,
		Expanded:  make(map[int]bool),
		Height:    15,
	}
}

func (m TierListModel) Init() tea.Cmd {
	return nil
}

func (m TierListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Expanded[m.Cursor] = !m.Expanded[m.Cursor]
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TierListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tiers (" + m.Direction + ")"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("tier %d  @%.0f  %d services", i, row.Tier.Coord, len(row.Tier.Nodes))
		if i < len(m.Rows)-1 {
			line += listDimStyle.Render(fmt.Sprintf("  · %d lanes below", row.Lanes))
		}
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")

		if m.Expanded[i] {
			for _, n := range row.Tier.Nodes {
				b.WriteString("      " + listDimStyle.Render(n))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
