// Package viewport implements the interaction and animation engine of a
// graph viewer: pan/zoom transform state, interaction modes, pointer
// handling with hit testing, box zoom and animated transitions.
//
// The engine is single-threaded. Every method runs to completion on the
// caller's goroutine and there is no internal timer; the host drives time
// by calling Viewer.Tick once per frame.
package viewport

// Vec is a 2D vector in pixels or data units depending on context.
type Vec struct {
	X, Y float64
}

// Size is a viewport size in pixels.
type Size struct {
	Width, Height float64
}

// Center returns the midpoint of the viewport.
func (s Size) Center() Vec {
	return Vec{s.Width / 2, s.Height / 2}
}

// Transform maps data space (origin at viewport centre, y up) to screen
// space. ZoomX and ZoomY are always positive.
type Transform struct {
	PanX, PanY   float64
	ZoomX, ZoomY float64
}

// Identity returns the untransformed view.
func Identity() Transform {
	return Transform{ZoomX: startScale, ZoomY: startScale}
}

// ToScreen maps a data-space point to viewport-local pixels.
func (t Transform) ToScreen(x, y float64, size Size) Vec {
	return Vec{
		X: x*t.ZoomX + t.PanX + size.Width/2,
		Y: -y*t.ZoomY - t.PanY + size.Height/2,
	}
}

// ToData maps viewport-local pixels back to data space.
func (t Transform) ToData(sx, sy float64, size Size) Vec {
	return Vec{
		X: (sx - size.Width/2 - t.PanX) / t.ZoomX,
		Y: -(sy - size.Height/2 + t.PanY) / t.ZoomY,
	}
}

// set assigns a field by property name.
func (t *Transform) set(p Prop, v float64) {
	switch p {
	case PropPanX:
		t.PanX = v
	case PropPanY:
		t.PanY = v
	case PropZoomX:
		t.ZoomX = v
	case PropZoomY:
		t.ZoomY = v
	}
}

// Flags records work owed to the render loop. The engine only sets them;
// the host clears them after consuming.
type Flags struct {
	// Dirty means the visual transform or focus changed and a repaint is owed.
	Dirty bool
	// HitDirty means the hit-test structure must be rebuilt.
	HitDirty bool
}

// Any reports whether any work is owed.
func (f Flags) Any() bool {
	return f.Dirty || f.HitDirty
}
