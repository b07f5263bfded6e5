package viewport

import "time"

const (
	startScale = 1.0

	// DefaultZoomFactor is the discrete zoom-in step and click-to-zoom factor.
	DefaultZoomFactor = 2.0

	// DefaultAnimationDuration is the length of every transition.
	DefaultAnimationDuration = 300 * time.Millisecond
)

// Prop names an animatable transform field.
type Prop int

const (
	PropPanX Prop = iota
	PropPanY
	PropZoomX
	PropZoomY
)

func (p Prop) String() string {
	switch p {
	case PropPanX:
		return "panX"
	case PropPanY:
		return "panY"
	case PropZoomX:
		return "zoomX"
	case PropZoomY:
		return "zoomY"
	default:
		return "unknown"
	}
}

// Tween linearly interpolates one property over a fixed window.
type Tween struct {
	Prop       Prop
	Start, End float64
	StartTime  time.Time
	EndTime    time.Time
}

// progress returns the clamped fraction of the window elapsed at now.
func (tw Tween) progress(now time.Time) float64 {
	span := tw.EndTime.Sub(tw.StartTime)
	if span <= 0 {
		return 1
	}
	t := float64(now.Sub(tw.StartTime)) / float64(span)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Value returns the interpolated value at now.
func (tw Tween) Value(now time.Time) float64 {
	t := tw.progress(now)
	if t == 1 {
		return tw.End
	}
	return tw.Start + t*(tw.End-tw.Start)
}

// animations is either disabled or holds the active tween set.
type animations interface {
	isAnimations()
}

type animationsDisabled struct{}

type animationsActive struct {
	tweens []Tween
}

func (animationsDisabled) isAnimations() {}
func (*animationsActive) isAnimations()  {}

// Interpolator owns the transform and applies transform requests either
// immediately or as timed tweens.
type Interpolator struct {
	transform Transform
	flags     Flags
	state     animations
	duration  time.Duration
}

// NewInterpolator creates an interpolator at the identity transform.
// A non-positive duration selects DefaultAnimationDuration.
func NewInterpolator(animate bool, duration time.Duration) *Interpolator {
	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	ip := &Interpolator{
		transform: Identity(),
		duration:  duration,
		flags:     Flags{Dirty: true, HitDirty: true},
	}
	if animate {
		ip.state = &animationsActive{}
	} else {
		ip.state = animationsDisabled{}
	}
	return ip
}

// Transform returns the current transform.
func (ip *Interpolator) Transform() Transform {
	return ip.transform
}

// Animated reports whether transitions are tweened.
func (ip *Interpolator) Animated() bool {
	_, ok := ip.state.(*animationsActive)
	return ok
}

// Tweens returns a copy of the in-flight tweens.
func (ip *Interpolator) Tweens() []Tween {
	a, ok := ip.state.(*animationsActive)
	if !ok {
		return nil
	}
	return append([]Tween(nil), a.tweens...)
}

// Idle reports whether no transition is in flight.
func (ip *Interpolator) Idle() bool {
	a, ok := ip.state.(*animationsActive)
	return !ok || len(a.tweens) == 0
}

// RequestTransform composes a pan delta and zoom factor with the current
// transform. The delta is divided by the pre-transition zoom and the sum
// is rescaled by factor, which keeps the pivot fixed in data space.
func (ip *Interpolator) RequestTransform(panDelta, factor Vec, now time.Time) {
	cur := ip.transform
	ip.apply(Transform{
		PanX:  (cur.PanX + panDelta.X/cur.ZoomX) * factor.X,
		PanY:  (cur.PanY + panDelta.Y/cur.ZoomY) * factor.Y,
		ZoomX: cur.ZoomX * factor.X,
		ZoomY: cur.ZoomY * factor.Y,
	}, now)
}

// RequestAbsolute transitions to target.
func (ip *Interpolator) RequestAbsolute(target Transform, now time.Time) {
	ip.apply(target, now)
}

func (ip *Interpolator) apply(target Transform, now time.Time) {
	switch s := ip.state.(type) {
	case *animationsActive:
		end := now.Add(ip.duration)
		// Replaces the whole set; unfinished tweens are dropped.
		s.tweens = []Tween{
			{Prop: PropZoomX, Start: ip.transform.ZoomX, End: target.ZoomX, StartTime: now, EndTime: end},
			{Prop: PropZoomY, Start: ip.transform.ZoomY, End: target.ZoomY, StartTime: now, EndTime: end},
			{Prop: PropPanX, Start: ip.transform.PanX, End: target.PanX, StartTime: now, EndTime: end},
			{Prop: PropPanY, Start: ip.transform.PanY, End: target.PanY, StartTime: now, EndTime: end},
		}
		ip.flags.Dirty = true
	case animationsDisabled:
		ip.transform = target
		ip.flags.Dirty = true
		ip.flags.HitDirty = true
	}
}

// Tick advances in-flight tweens to now. Finished tweens are removed;
// when the last one finishes the hit structure is marked stale.
func (ip *Interpolator) Tick(now time.Time) {
	s, ok := ip.state.(*animationsActive)
	if !ok || len(s.tweens) == 0 {
		return
	}
	remaining := s.tweens[:0]
	for _, tw := range s.tweens {
		ip.transform.set(tw.Prop, tw.Value(now))
		if tw.progress(now) < 1 {
			remaining = append(remaining, tw)
		}
	}
	s.tweens = remaining
	ip.flags.Dirty = true
	if len(s.tweens) == 0 {
		ip.flags.HitDirty = true
	}
}

// Pan shifts the transform by a pixel delta without animation.
func (ip *Interpolator) Pan(dx, dy float64) {
	ip.transform.PanX += dx
	ip.transform.PanY += dy
	ip.flags.Dirty = true
	ip.flags.HitDirty = true
}

// Flags returns the owed work without clearing it.
func (ip *Interpolator) Flags() Flags {
	return ip.flags
}

// MarkDirty records that a repaint is owed.
func (ip *Interpolator) MarkDirty() {
	ip.flags.Dirty = true
}

// ConsumeFlags returns the owed work and clears it.
func (ip *Interpolator) ConsumeFlags() Flags {
	f := ip.flags
	ip.flags = Flags{}
	return f
}
