package viewport

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ha1tch/grapho/pkg/events"
)

func TestNewValidates(t *testing.T) {
	host := newFakeHost(1)

	if _, err := New(Scene{}, DefaultConfig(0, 100), host); !errors.Is(err, ErrBadSize) {
		t.Errorf("zero width: err = %v, want ErrBadSize", err)
	}
	cfg := DefaultConfig(100, 100)
	cfg.ZoomFactor = 1
	if _, err := New(Scene{}, cfg, host); !errors.Is(err, ErrBadZoomFactor) {
		t.Errorf("zoom factor 1: err = %v, want ErrBadZoomFactor", err)
	}
	if _, err := New(Scene{}, DefaultConfig(100, 100), nil); !errors.Is(err, ErrNoHost) {
		t.Errorf("nil host: err = %v, want ErrNoHost", err)
	}
}

func TestInitialState(t *testing.T) {
	host := newFakeHost(3)
	v, err := New(testScene(3), DefaultConfig(400, 300), host)
	if err != nil {
		t.Fatal(err)
	}

	if v.Mode() != ModeSelect {
		t.Errorf("initial mode = %v", v.Mode())
	}
	if host.class != "grapho-select-interaction-mode" {
		t.Errorf("initial class = %q", host.class)
	}
	if v.Transform() != Identity() {
		t.Errorf("initial transform = %+v", v.Transform())
	}
	if v.Hovered() != -1 {
		t.Errorf("initial hover = %d", v.Hovered())
	}
	if f := v.Flags(); !f.Dirty || !f.HitDirty {
		t.Errorf("a new viewer owes a full render, flags = %+v", f)
	}
}

func TestModeCommands(t *testing.T) {
	v, host, _ := newTestViewer(t, false)
	tests := []struct {
		command string
		mode    Mode
		class   string
	}{
		{events.Pan, ModePan, "grapho-pan-interaction-mode"},
		{events.BoxZoom, ModeBoxZoom, "grapho-box-zoom-interaction-mode"},
		{events.Pan, ModePan, "grapho-pan-interaction-mode"},
		{events.Select, ModeSelect, "grapho-select-interaction-mode"},
	}
	for _, tt := range tests {
		v.Bus().Command(tt.command)
		if v.Mode() != tt.mode || host.class != tt.class {
			t.Errorf("after %s: mode %v class %q, want %v %q", tt.command, v.Mode(), host.class, tt.mode, tt.class)
		}
	}
}

func TestModeForCommandUnknown(t *testing.T) {
	if _, ok := ModeForCommand("lasso"); ok {
		t.Error("unknown command mapped to a mode")
	}
}

func TestZoomCommands(t *testing.T) {
	v, _, _ := newTestViewer(t, false)

	v.Bus().Command(events.ZoomIn)
	if got := v.Transform().ZoomX; got != 2 {
		t.Errorf("after zoom-in ZoomX = %g", got)
	}
	v.Bus().Command(events.ZoomOut)
	v.Bus().Command(events.ZoomOut)
	if got := v.Transform().ZoomY; got != 0.5 {
		t.Errorf("after two zoom-outs ZoomY = %g", got)
	}
	v.Bus().Command(events.Reset)
	if v.Transform() != Identity() {
		t.Errorf("after reset %+v", v.Transform())
	}
}

func TestStepCommands(t *testing.T) {
	v, _, _ := newTestViewer(t, false)

	v.Bus().Command(events.StepDown)
	if v.Step() != 0 {
		t.Errorf("step below zero: %d", v.Step())
	}
	for i := 0; i < 5; i++ {
		v.Bus().Command(events.StepUp)
	}
	if v.Step() != 2 {
		t.Errorf("step = %d, want clamped to 2", v.Step())
	}
	v.ConsumeFlags()
	v.StepDown()
	if v.Step() != 1 || !v.Flags().Dirty {
		t.Errorf("step down: step %d flags %+v", v.Step(), v.Flags())
	}
}

func TestDestroyDetachesHandlers(t *testing.T) {
	bus := events.NewBus()
	host := newFakeHost(10)
	v, err := New(testScene(10), DefaultConfig(400, 300), host, WithBus(bus))
	if err != nil {
		t.Fatal(err)
	}
	if bus.Len(events.ZoomIn) != 1 {
		t.Fatalf("zoom-in handlers = %d", bus.Len(events.ZoomIn))
	}

	v.Destroy()
	v.Destroy()

	for _, name := range []string{events.ZoomIn, events.ZoomOut, events.Reset, events.Select, events.Pan, events.BoxZoom, events.StepUp, events.StepDown} {
		if n := bus.Len(name); n != 0 {
			t.Errorf("%s still has %d handlers", name, n)
		}
	}

	bus.Command(events.Pan)
	if v.Mode() != ModeSelect {
		t.Error("destroyed viewer still reacts to commands")
	}
	host.hitAt(map[Vec]int{{1, 1}: 1})
	v.Move(PointerEvent{ClientX: 1, ClientY: 1, Target: TargetViewport})
	if v.Hovered() != -1 {
		t.Error("destroyed viewer still handles pointer input")
	}
	if !v.Destroyed() {
		t.Error("Destroyed() = false")
	}
}

func TestDestroyKeepsForeignHandlers(t *testing.T) {
	v, _, _ := newTestViewer(t, false)
	clicks := 0
	v.On(events.NodeClick, func(events.Event) { clicks++ })

	v.Destroy()
	v.Fire(events.NodeClick, events.Event{DataIndex: 1})

	if clicks != 1 {
		t.Errorf("application handler removed by Destroy")
	}
}

func TestSetSceneClearsHover(t *testing.T) {
	v, host, clock := newTestViewer(t, false)
	host.hitAt(map[Vec]int{{10, 10}: 4})
	got := recordEvents(v)
	moveTo(v, clock, 10, 10)

	v.SetScene(testScene(2))

	want := []string{"node-mouseover 4", "node-mouseout 4"}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}
	if v.Hovered() != -1 || host.focus.Focused() != -1 {
		t.Errorf("hover not cleared: hovered %d focused %d", v.Hovered(), host.focus.Focused())
	}
	if v.Scene().Len() != 2 {
		t.Errorf("scene len = %d", v.Scene().Len())
	}
}

func TestCollectionFrame(t *testing.T) {
	a, _, clock := newTestViewer(t, true)
	b, _, _ := newTestViewer(t, true)

	var c Collection
	c.Add(a)
	c.Add(b)
	c.Add(a)
	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}

	rendered := map[*Viewer]Flags{}
	render := func(v *Viewer, f Flags) { rendered[v] = f }

	c.Frame(clock.Now(), render)
	if len(rendered) != 0 {
		t.Errorf("idle frame rendered %d viewers", len(rendered))
	}

	a.ZoomIn()
	c.Frame(clock.Advance(100*time.Millisecond), render)
	if f, ok := rendered[a]; !ok || !f.Dirty || f.HitDirty {
		t.Errorf("animating viewer flags = %+v, rendered %v", f, ok)
	}
	if _, ok := rendered[b]; ok {
		t.Error("idle viewer rendered")
	}
	if a.Flags().Any() {
		t.Error("frame did not clear flags")
	}

	c.Frame(clock.Advance(time.Second), render)
	if f := rendered[a]; !f.HitDirty {
		t.Errorf("completed animation flags = %+v, want hit dirty", f)
	}

	c.Destroy(a)
	if c.Len() != 1 || !a.Destroyed() {
		t.Errorf("Destroy: len %d destroyed %v", c.Len(), a.Destroyed())
	}
	c.Remove(a)
	if got := c.Viewers(); len(got) != 1 || got[0] != b {
		t.Errorf("Viewers = %v", got)
	}
}

func TestSetBoundsRejectsEmpty(t *testing.T) {
	v, _, _ := newTestViewer(t, false)
	before := v.Bounds()

	for _, r := range []Rect{{}, {Width: 400}, {Height: 300}, {Width: -1, Height: 300}} {
		if err := v.SetBounds(r); !errors.Is(err, ErrBadSize) {
			t.Errorf("SetBounds(%+v) err = %v, want ErrBadSize", r, err)
		}
	}
	if v.Bounds() != before {
		t.Fatalf("bounds = %+v, want %+v kept", v.Bounds(), before)
	}

	v.SetMode(ModeBoxZoom)
	v.Press(PointerEvent{ClientX: 10, ClientY: 10, Target: TargetViewport})
	v.Release(PointerEvent{ClientX: 60, ClientY: 60, Target: TargetViewport})
	v.ZoomIn()

	tr := v.Transform()
	for _, f := range []float64{tr.PanX, tr.PanY, tr.ZoomX, tr.ZoomY} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("transform = %+v, want finite", tr)
		}
	}
	if tr.ZoomX <= 0 || tr.ZoomY <= 0 {
		t.Errorf("zoom = (%g, %g), want positive", tr.ZoomX, tr.ZoomY)
	}
}

func TestCollectionFrameRemoveDuringRender(t *testing.T) {
	var c Collection
	var clock *fakeClock
	for i := 0; i < 3; i++ {
		v, _, cl := newTestViewer(t, false)
		clock = cl
		c.Add(v)
		v.ZoomIn()
	}
	first := c.Viewers()[0]

	seen := 0
	c.Frame(clock.Now(), func(v *Viewer, f Flags) {
		seen++
		if v == first {
			c.Remove(first)
		}
	})
	if seen != 3 {
		t.Errorf("rendered %d viewers, want 3", seen)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	destroyed := c.Viewers()[1]
	destroyed.ZoomIn()
	c.Viewers()[0].ZoomIn()
	seen = 0
	c.Frame(clock.Now(), func(v *Viewer, f Flags) {
		seen++
		c.Destroy(destroyed)
	})
	if seen != 1 {
		t.Errorf("rendered %d viewers, want destroyed viewer skipped", seen)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{PanX: 12, PanY: -7, ZoomX: 2, ZoomY: 0.5}
	size := Size{400, 300}

	s := tr.ToScreen(10, 20, size)
	if s != (Vec{10*2 + 12 + 200, -20*0.5 + 7 + 150}) {
		t.Errorf("ToScreen = %v", s)
	}
	d := tr.ToData(s.X, s.Y, size)
	if !near(d.X, 10) || !near(d.Y, 20) {
		t.Errorf("ToData(ToScreen) = %v", d)
	}
}

func TestPlaceLabels(t *testing.T) {
	s := Scene{
		Positions: []Vec{{0, 0}, {10, 10}, {20, 20}},
		Labels:    []string{"a", "", "c"},
	}
	got := PlaceLabels(s, Identity(), Size{100, 100})

	want := []Label{
		{Index: 0, Text: "a", X: 50, Y: 40},
		{Index: 2, Text: "c", X: 70, Y: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PlaceLabels = %+v, want %+v", got, want)
	}
}

func TestFocusBuffer(t *testing.T) {
	fb := NewFocusBuffer(3)
	fb.Apply([]FocusPatch{{Index: 1, Value: 1}, {Index: -1, Value: 1}, {Index: 9, Value: 1}})
	if fb.Focused() != 1 {
		t.Errorf("Focused = %d", fb.Focused())
	}
	fb.Apply([]FocusPatch{{Index: 1, Value: 0}})
	if fb.Focused() != -1 {
		t.Errorf("Focused after clear = %d", fb.Focused())
	}
}
