package layout

import (
	"strings"
	"testing"
)

func TestOrthogonalPath(t *testing.T) {
	tests := []struct {
		name      string
		src, dst  Point
		lane      float64
		direction Direction
		wantD     string
		wantLabel Point
	}{
		{
			name:      "StraightVertical",
			src:       Point{X: 100, Y: 0},
			dst:       Point{X: 100, Y: 280},
			lane:      190,
			direction: TopToBottom,
			wantD:     "M 100,0 L 100,280",
			wantLabel: Point{X: 100, Y: 140},
		},
		{
			name:      "RoutedTopToBottom",
			src:       Point{X: 0, Y: 100},
			dst:       Point{X: 200, Y: 280},
			lane:      190,
			direction: TopToBottom,
			// Full 8-unit corners: down to lane−r, quarter turn, along the
			// lane, quarter turn, down into the target.
			wantD:     "M 0,100 L 0,182 Q 0,190 8,190 L 192,190 Q 200,190 200,198 L 200,280",
			wantLabel: Point{X: 100, Y: 190},
		},
		{
			name:      "RoutedLeftward",
			src:       Point{X: 200, Y: 100},
			dst:       Point{X: 0, Y: 280},
			lane:      190,
			direction: TopToBottom,
			wantD:     "M 200,100 L 200,182 Q 200,190 192,190 L 8,190 Q 0,190 0,198 L 0,280",
			wantLabel: Point{X: 100, Y: 190},
		},
		{
			name:      "RadiusClampedByShortSegment",
			src:       Point{X: 0, Y: 186},
			dst:       Point{X: 200, Y: 280},
			lane:      190,
			direction: TopToBottom,
			// |lane − sourceY| = 4, so r clamps to 2.
			wantD:     "M 0,186 L 0,188 Q 0,190 2,190 L 198,190 Q 200,190 200,192 L 200,280",
			wantLabel: Point{X: 100, Y: 190},
		},
		{
			name:      "RadiusDegradesToZero",
			src:       Point{X: 0, Y: 190},
			dst:       Point{X: 200, Y: 280},
			lane:      190,
			direction: TopToBottom,
			// Lane coincides with the source: the first segment vanishes
			// and corners collapse to sharp angles.
			wantD:     "M 0,190 L 0,190 Q 0,190 0,190 L 200,190 Q 200,190 200,190 L 200,280",
			wantLabel: Point{X: 100, Y: 190},
		},
		{
			name:      "StraightHorizontalLR",
			src:       Point{X: 0, Y: 50},
			dst:       Point{X: 280, Y: 50},
			lane:      215,
			direction: LeftToRight,
			wantD:     "M 0,50 L 280,50",
			wantLabel: Point{X: 140, Y: 50},
		},
		{
			name:      "RoutedLeftToRightDownward",
			src:       Point{X: 180, Y: 0},
			dst:       Point{X: 460, Y: 200},
			lane:      280,
			direction: LeftToRight,
			wantD:     "M 180,0 L 272,0 Q 280,0 280,8 L 280,192 Q 280,200 288,200 L 460,200",
			wantLabel: Point{X: 280, Y: 100},
		},
		{
			name:      "RoutedLeftToRightUpward",
			src:       Point{X: 180, Y: 200},
			dst:       Point{X: 460, Y: 0},
			lane:      280,
			direction: LeftToRight,
			// Turn direction mirrors with the sign of targetY − sourceY.
			wantD:     "M 180,200 L 272,200 Q 280,200 280,192 L 280,8 Q 280,0 288,0 L 460,0",
			wantLabel: Point{X: 280, Y: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrthogonalPath(tt.src, tt.dst, tt.lane, Config{Direction: tt.direction})

			if got.D != tt.wantD {
				t.Errorf("path = %q, want %q", got.D, tt.wantD)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("label = %+v, want %+v", got.Label, tt.wantLabel)
			}
		})
	}
}

func TestCurvePath(t *testing.T) {
	got := CurvePath(Point{X: 0, Y: 0}, Point{X: 200, Y: 280}, Config{Direction: TopToBottom})

	want := "M 0,0 C 0,140 200,140 200,280"
	if got.D != want {
		t.Errorf("path = %q, want %q", got.D, want)
	}
	if got.Label != (Point{X: 100, Y: 140}) {
		t.Errorf("label = %+v, want {100 140}", got.Label)
	}

	if !strings.HasPrefix(got.D, "M ") {
		t.Errorf("path does not start with a move command: %q", got.D)
	}
}
