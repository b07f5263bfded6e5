package hitgrid

import "github.com/ha1tch/grapho/pkg/viewport"

// Backend answers a viewer's hit tests from a grid and keeps the focus
// buffer. Hosts embed it next to their overlay and call Rebuild whenever
// a frame reports HitDirty.
type Backend struct {
	grid   *Grid
	focus  viewport.FocusBuffer
	radius float64
}

// NewBackend creates a backend for n nodes hit within radius pixels.
func NewBackend(n int, radius float64) *Backend {
	return &Backend{focus: viewport.NewFocusBuffer(n), radius: radius}
}

// Rebuild projects the scene through t and reindexes it.
func (b *Backend) Rebuild(s viewport.Scene, t viewport.Transform, size viewport.Size) {
	pts := make([]Point, len(s.Positions))
	for i, p := range s.Positions {
		sp := t.ToScreen(p.X, p.Y, size)
		pts[i] = Point{X: sp.X, Y: sp.Y}
	}
	b.grid = Build(pts, b.radius)
	if len(b.focus) != len(pts) {
		b.focus = viewport.NewFocusBuffer(len(pts))
	}
}

// Intersection implements viewport.Backend. It returns -1 until the
// first Rebuild.
func (b *Backend) Intersection(x, y float64) int {
	return b.grid.Lookup(x, y)
}

// ApplyFocus implements viewport.Backend.
func (b *Backend) ApplyFocus(patches []viewport.FocusPatch) {
	b.focus.Apply(patches)
}

// Focus returns the live focus buffer.
func (b *Backend) Focus() viewport.FocusBuffer {
	return b.focus
}

// Indexed reports whether a grid has been built.
func (b *Backend) Indexed() bool {
	return b.grid != nil
}
