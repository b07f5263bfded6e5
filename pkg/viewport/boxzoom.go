package viewport

// minBoxSize is the drag distance below which a box-zoom release counts
// as a click.
const minBoxSize = 2

// Box is an axis-aligned rectangle in viewport-local pixels.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec {
	return Vec{b.Left + b.Width/2, b.Top + b.Height/2}
}

// BoxGeometry returns the rectangle spanned by a drag from anchor to
// release, whichever direction the drag went.
func BoxGeometry(anchor, release Vec) Box {
	var b Box
	switch {
	case release.X > anchor.X && release.Y > anchor.Y: // right down
		b = Box{anchor.X, anchor.Y, release.X - anchor.X, release.Y - anchor.Y}
	case release.X > anchor.X: // right up
		b = Box{anchor.X, release.Y, release.X - anchor.X, anchor.Y - release.Y}
	case release.Y <= anchor.Y: // left up
		b = Box{release.X, release.Y, anchor.X - release.X, anchor.Y - release.Y}
	default: // left down
		b = Box{release.X, anchor.Y, anchor.X - release.X, release.Y - anchor.Y}
	}
	return b
}

// Zoom is the outcome of a box zoom: a pan delta in pre-zoom data units
// and a zoom factor per axis.
type Zoom struct {
	Pan    Vec
	Factor Vec
	Box    Box // the effective box; zero-sized for a click
}

// ComputeZoom turns a box-zoom drag into a pan delta and zoom factor.
// A drag under two pixels on either axis, or an empty viewport, zooms by
// clickFactor centred on the release point.
func ComputeZoom(anchor, release Vec, viewport Size, currentZoom Vec, clickFactor float64) Zoom {
	box := BoxGeometry(anchor, release)

	var factor Vec
	if box.Width < minBoxSize || box.Height < minBoxSize || viewport.Width <= 0 || viewport.Height <= 0 {
		factor = Vec{clickFactor, clickFactor}
		box = Box{Left: release.X, Top: release.Y}
	} else {
		factor = Vec{viewport.Width / box.Width, viewport.Height / box.Height}
	}

	c := box.Center()
	vc := viewport.Center()
	return Zoom{
		Pan: Vec{
			X: (vc.X - c.X) * currentZoom.X,
			Y: (c.Y - vc.Y) * currentZoom.Y,
		},
		Factor: factor,
		Box:    box,
	}
}
