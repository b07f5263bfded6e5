package viewport

import (
	"fmt"
	"testing"
	"time"

	"github.com/ha1tch/grapho/pkg/events"
)

// fakeHost records overlay calls and answers hit tests from a lookup
// function. It owns the focus buffer the way a real backend would.
type fakeHost struct {
	hit     func(x, y float64) int
	focus   FocusBuffer
	calls   []string
	tooltip int
	box     bool
	offset  Vec
	class   string
}

func newFakeHost(nodes int) *fakeHost {
	return &fakeHost{
		hit:     func(float64, float64) int { return -1 },
		focus:   NewFocusBuffer(nodes),
		tooltip: -1,
	}
}

func (h *fakeHost) Intersection(x, y float64) int {
	return h.hit(x, y)
}

func (h *fakeHost) ApplyFocus(p []FocusPatch) {
	h.focus.Apply(p)
	h.calls = append(h.calls, "focus")
}

func (h *fakeHost) ShowTooltip(i int, x, y float64) {
	h.tooltip = i
	h.calls = append(h.calls, fmt.Sprintf("tooltip %d", i))
}

func (h *fakeHost) HideTooltip() {
	h.tooltip = -1
	h.calls = append(h.calls, "hide")
}

func (h *fakeHost) CreateBox(x, y float64) {
	h.box = true
	h.calls = append(h.calls, fmt.Sprintf("box %g,%g", x, y))
}

func (h *fakeHost) UpdateBox(x, y float64) {
	h.calls = append(h.calls, fmt.Sprintf("box-update %g,%g", x, y))
}

func (h *fakeHost) DestroyBox() {
	h.box = false
	h.calls = append(h.calls, "box-destroy")
}

func (h *fakeHost) SetPanOffset(dx, dy float64) {
	h.offset = Vec{dx, dy}
}

func (h *fakeHost) SetModeClass(c string) {
	h.class = c
}

// hitAt maps whole-pixel points to node indices.
func (h *fakeHost) hitAt(points map[Vec]int) {
	h.hit = func(x, y float64) int {
		if i, ok := points[Vec{x, y}]; ok {
			return i
		}
		return -1
	}
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

func testScene(n int) Scene {
	s := Scene{Positions: make([]Vec, n), Labels: make([]string, n), Steps: 3}
	for i := range s.Positions {
		s.Positions[i] = Vec{float64(i * 10), float64(i * 5)}
		s.Labels[i] = fmt.Sprintf("n%d", i)
	}
	return s
}

func newTestViewer(t *testing.T, animate bool) (*Viewer, *fakeHost, *fakeClock) {
	t.Helper()
	cfg := DefaultConfig(400, 300)
	cfg.Animations = animate
	host := newFakeHost(10)
	clock := newFakeClock()
	v, err := New(testScene(10), cfg, host, WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	v.ConsumeFlags()
	return v, host, clock
}

// recordEvents collects hover and click events in firing order.
func recordEvents(v *Viewer) *[]string {
	var got []string
	for _, name := range []string{events.NodeMouseOver, events.NodeMouseOut, events.NodeClick} {
		v.On(name, func(ev events.Event) {
			got = append(got, fmt.Sprintf("%s %d", ev.Name, ev.DataIndex))
		})
	}
	return &got
}

const eps = 1e-9

func near(a, b float64) bool {
	d := a - b
	return d < eps && d > -eps
}
