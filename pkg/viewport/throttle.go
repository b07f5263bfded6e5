package viewport

import "time"

// DefaultThrottleWindow bounds pointer-move processing to roughly one
// sample per display frame.
const DefaultThrottleWindow = 17 * time.Millisecond

// Throttle runs at most one call per window. The first call in a window
// runs at once; later calls replace a pending sample that Flush runs once
// the window has elapsed. It owns no timer, so the host must keep
// calling Flush.
type Throttle[T any] struct {
	window  time.Duration
	fn      func(T)
	last    time.Time
	ran     bool
	pending *T
}

// NewThrottle wraps fn.
func NewThrottle[T any](window time.Duration, fn func(T)) *Throttle[T] {
	if window <= 0 {
		window = DefaultThrottleWindow
	}
	return &Throttle[T]{window: window, fn: fn}
}

// Call runs v now or keeps it as the pending sample.
func (th *Throttle[T]) Call(now time.Time, v T) {
	if !th.ran || now.Sub(th.last) >= th.window {
		th.pending = nil
		th.run(now, v)
		return
	}
	th.pending = &v
}

// Flush runs the pending sample if the window has elapsed.
func (th *Throttle[T]) Flush(now time.Time) {
	if th.pending == nil || now.Sub(th.last) < th.window {
		return
	}
	v := *th.pending
	th.pending = nil
	th.run(now, v)
}

// Pending reports whether a coalesced sample is waiting.
func (th *Throttle[T]) Pending() bool {
	return th.pending != nil
}

// Cancel drops the pending sample.
func (th *Throttle[T]) Cancel() {
	th.pending = nil
}

func (th *Throttle[T]) run(now time.Time, v T) {
	th.ran = true
	th.last = now
	th.fn(v)
}
