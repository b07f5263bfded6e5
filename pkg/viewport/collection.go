package viewport

import "time"

// RenderFunc repaints one viewer. flags says what is owed.
type RenderFunc func(v *Viewer, flags Flags)

// Collection is a host-owned set of viewers driven by one frame loop.
type Collection struct {
	viewers []*Viewer
}

// Add appends v. Adding the same viewer twice is a no-op.
func (c *Collection) Add(v *Viewer) {
	for _, have := range c.viewers {
		if have == v {
			return
		}
	}
	c.viewers = append(c.viewers, v)
}

// Remove drops v from the collection. The slice is copied so a Frame in
// progress keeps iterating the old one.
func (c *Collection) Remove(v *Viewer) {
	for i, have := range c.viewers {
		if have == v {
			rest := make([]*Viewer, 0, len(c.viewers)-1)
			rest = append(rest, c.viewers[:i]...)
			c.viewers = append(rest, c.viewers[i+1:]...)
			return
		}
	}
}

// Destroy destroys v and removes it.
func (c *Collection) Destroy(v *Viewer) {
	v.Destroy()
	c.Remove(v)
}

// Len returns the number of viewers.
func (c *Collection) Len() int {
	return len(c.viewers)
}

// Viewers returns the viewers in insertion order.
func (c *Collection) Viewers() []*Viewer {
	return append([]*Viewer(nil), c.viewers...)
}

// Frame ticks every viewer and calls render for each one that owes work.
// Flags are cleared before render is called. render may add or remove
// viewers; changes take effect from the next frame, except that a viewer
// destroyed earlier in the frame is skipped.
func (c *Collection) Frame(now time.Time, render RenderFunc) {
	for _, v := range c.Viewers() {
		if v.Destroyed() {
			continue
		}
		v.Tick(now)
		if f := v.ConsumeFlags(); f.Any() {
			render(v, f)
		}
	}
}
