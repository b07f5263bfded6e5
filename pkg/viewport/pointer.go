package viewport

import (
	"log/slog"
	"time"

	"github.com/ha1tch/grapho/pkg/events"
)

// coordinator turns raw pointer samples into hover, click, pan and box
// zoom behaviour.
type coordinator struct {
	v *Viewer

	hovered  int
	panStart *Vec // set only while a pan drag is in progress
	anchor   *Vec // set only while a box-zoom drag is in progress

	moves  *Throttle[PointerEvent]
	leaves *Throttle[struct{}]
}

func newCoordinator(v *Viewer, window time.Duration) *coordinator {
	c := &coordinator{v: v, hovered: -1}
	c.moves = NewThrottle(window, c.move)
	c.leaves = NewThrottle(window, func(struct{}) { v.host.HideTooltip() })
	return c
}

func (c *coordinator) flush(now time.Time) {
	c.moves.Flush(now)
	c.leaves.Flush(now)
}

func (c *coordinator) press(ev PointerEvent) {
	if ev.Target == TargetControls {
		return
	}
	v := c.v
	pos := v.bounds.Local(ev.ClientX, ev.ClientY)

	switch v.mode {
	case ModeBoxZoom:
		c.anchor = &pos
		v.host.CreateBox(ev.ClientX, ev.ClientY)
	case ModePan:
		if ev.Target != TargetViewport {
			return
		}
		c.panStart = &pos
		v.host.HideTooltip()
	}
}

func (c *coordinator) move(ev PointerEvent) {
	if ev.Target == TargetControls {
		return
	}
	v := c.v
	pos := v.bounds.Local(ev.ClientX, ev.ClientY)

	if v.mode == ModeBoxZoom && c.anchor != nil {
		v.host.UpdateBox(ev.ClientX, ev.ClientY)
	}
	if ev.Target != TargetViewport {
		return
	}
	if v.mode == ModePan && c.panStart != nil {
		v.host.SetPanOffset(pos.X-c.panStart.X, pos.Y-c.panStart.Y)
	}

	// No tooltips or hover changes while dragging.
	if c.panStart != nil || c.anchor != nil {
		v.host.HideTooltip()
		return
	}

	idx := v.host.Intersection(pos.X, pos.Y)
	if idx == -1 {
		v.host.HideTooltip()
	} else {
		v.host.ShowTooltip(idx, ev.ClientX, ev.ClientY)
	}
	if idx != c.hovered {
		c.setHover(idx)
	}
}

// setHover moves focus to idx. The mouseout for the previous node always
// fires before the mouseover for the new one.
func (c *coordinator) setHover(idx int) {
	v := c.v
	patches := make([]FocusPatch, 0, 2)
	if c.hovered >= 0 {
		patches = append(patches, FocusPatch{Index: c.hovered, Value: 0})
	}
	if idx >= 0 {
		patches = append(patches, FocusPatch{Index: idx, Value: 1})
	}
	v.host.ApplyFocus(patches)
	v.ip.MarkDirty()

	prev := c.hovered
	if prev != -1 {
		v.bus.Fire(events.NodeMouseOut, events.Event{DataIndex: prev})
	}
	c.hovered = idx
	if idx != -1 {
		v.bus.Fire(events.NodeMouseOver, events.Event{DataIndex: idx})
	}
}

func (c *coordinator) clearHover() {
	if c.hovered != -1 {
		c.setHover(-1)
	}
}

func (c *coordinator) release(ev PointerEvent) {
	if ev.Target == TargetControls {
		return
	}
	v := c.v
	pos := v.bounds.Local(ev.ClientX, ev.ClientY)

	if v.mode == ModeBoxZoom {
		if c.anchor == nil {
			return
		}
		t := v.ip.Transform()
		z := ComputeZoom(*c.anchor, pos, v.bounds.Size(), Vec{t.ZoomX, t.ZoomY}, v.cfg.ZoomFactor)
		v.logger.Debug("box zoom",
			slog.Float64("left", z.Box.Left), slog.Float64("top", z.Box.Top),
			slog.Float64("width", z.Box.Width), slog.Float64("height", z.Box.Height))
		v.ZoomToPoint(z.Pan, z.Factor)
		v.host.DestroyBox()
		c.anchor = nil
		return
	}

	if ev.Target == TargetViewport && c.anchor == nil {
		still := c.panStart == nil || (pos.X == c.panStart.X && pos.Y == c.panStart.Y)
		if still {
			if idx := v.host.Intersection(pos.X, pos.Y); idx != -1 {
				v.bus.Fire(events.NodeClick, events.Event{DataIndex: idx})
			}
		}
	}

	if v.mode == ModePan && c.panStart != nil {
		dx := pos.X - c.panStart.X
		dy := pos.Y - c.panStart.Y
		// Screen y grows downward, data y upward.
		v.ip.Pan(dx, -dy)
		c.panStart = nil
		v.host.SetPanOffset(0, 0)
	}
}

// cancel abandons any drag in progress.
func (c *coordinator) cancel() {
	if c.anchor != nil {
		c.v.host.DestroyBox()
		c.anchor = nil
	}
	if c.panStart != nil {
		c.v.host.SetPanOffset(0, 0)
		c.panStart = nil
	}
	c.moves.Cancel()
}
