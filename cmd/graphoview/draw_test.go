package main

import (
	"math"
	"testing"

	"github.com/ha1tch/grapho/pkg/events"
	"github.com/ha1tch/grapho/pkg/viewport"
)

func TestLineCells(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"point", 3, 3, 3, 3, 1},
		{"horizontal", 0, 0, 5, 0, 6},
		{"vertical", 2, 4, 2, 0, 5},
		{"diagonal", 0, 0, 3, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := lineCells(tt.x0, tt.y0, tt.x1, tt.y1)
			if len(cells) != tt.want {
				t.Fatalf("len = %d, want %d", len(cells), tt.want)
			}
			first, last := cells[0], cells[len(cells)-1]
			if first != [2]int{tt.x0, tt.y0} || last != [2]int{tt.x1, tt.y1} {
				t.Errorf("endpoints %v..%v", first, last)
			}
		})
	}
}

func TestEdgeCells(t *testing.T) {
	const w, h = 80, 24 // canvas rows 1..21
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		first, last    [2]int
		head           bool
	}{
		{"inside", 2.5, 3.5, 6.5, 3.5, [2]int{2, 3}, [2]int{6, 3}, true},
		{"far ends crossing", -1e6, 5.5, 1e6, 5.5, [2]int{0, 5}, [2]int{79, 5}, false},
		{"far tail", -1e9, 10.5, 40.5, 10.5, [2]int{0, 10}, [2]int{40, 10}, true},
		{"vertical through", 7.5, -1e7, 7.5, 1e7, [2]int{7, 1}, [2]int{7, 21}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, head := edgeCells(tt.x0, tt.y0, tt.x1, tt.y1, w, h)
			if len(cells) == 0 {
				t.Fatal("no cells")
			}
			if cells[0] != tt.first || cells[len(cells)-1] != tt.last {
				t.Errorf("cells %v..%v, want %v..%v", cells[0], cells[len(cells)-1], tt.first, tt.last)
			}
			if head != tt.head {
				t.Errorf("head = %v, want %v", head, tt.head)
			}
			for _, c := range cells {
				if c[0] < 0 || c[0] >= w || c[1] < toolbarRows || c[1] >= h-footerRows {
					t.Fatalf("cell %v off the canvas", c)
				}
			}
		})
	}

	misses := []struct {
		name           string
		x0, y0, x1, y1 float64
	}{
		{"above", -1e6, -5, 1e6, -5},
		{"left", -9, 2, -3, 20},
		{"nan", math.NaN(), 3, 4, 3},
		{"inf", 0, 3, math.Inf(1), 3},
	}
	for _, tt := range misses {
		if cells, _ := edgeCells(tt.x0, tt.y0, tt.x1, tt.y1, w, h); cells != nil {
			t.Errorf("%s: cells = %v, want none", tt.name, cells)
		}
	}
}

func TestArrowGlyph(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{1, 0, '→'},
		{0, 1, '↓'},
		{-1, 0, '←'},
		{0, -1, '↑'},
		{1, 1, '↘'},
		{-1, -1, '↖'},
	}
	for _, tt := range tests {
		if got := arrowGlyph(tt.dx, tt.dy); got != tt.want {
			t.Errorf("arrowGlyph(%g, %g) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestFitLabel(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"root", 10, "root"},
		{"hello world", 5, "hell…"},
		{"日本語ラベル", 5, "日本…"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := fitLabel(tt.in, tt.width); got != tt.want {
			t.Errorf("fitLabel(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestButtonAt(t *testing.T) {
	if got := buttonAt(0); got != "" {
		t.Errorf("column 0 = %q, want none", got)
	}
	if got := buttonAt(1); got != events.ZoomIn {
		t.Errorf("column 1 = %q, want zoom-in", got)
	}
	xs := buttonX()
	for i, b := range toolbar {
		if got := buttonAt(xs[i]); got != b.command {
			t.Errorf("button %s at %d = %q", b.label, xs[i], got)
		}
	}
}

func TestTargetAt(t *testing.T) {
	tests := []struct {
		y    int
		want viewport.Target
	}{
		{0, viewport.TargetControls},
		{1, viewport.TargetViewport},
		{21, viewport.TargetViewport},
		{22, viewport.TargetOutside},
		{23, viewport.TargetOutside},
	}
	for _, tt := range tests {
		if got := targetAt(tt.y, 24); got != tt.want {
			t.Errorf("targetAt(%d) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestCellMapping(t *testing.T) {
	for _, c := range [][2]int{{0, 0}, {5, 7}, {79, 23}} {
		px, py := clientPoint(c[0], c[1])
		x, y := cellOf(px, py)
		if x != c[0] || y != c[1] {
			t.Errorf("round trip %v -> %d,%d", c, x, y)
		}
	}
	if x, _ := cellOf(-1, 0); x != -1 {
		t.Errorf("cellOf(-1) = %d, want -1", x)
	}
	b := canvasBounds(80, 24)
	if b.Top != cellH || b.Width != 320 || b.Height != 21*cellH {
		t.Errorf("bounds = %+v", b)
	}
}
