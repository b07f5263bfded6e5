package viewport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ha1tch/grapho/pkg/events"
)

// ErrNoHost is returned when a viewer is created without a host.
var ErrNoHost = errors.New("viewer requires a host")

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the logger. Viewers log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		v.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) {
		v.now = now
	}
}

// WithBus shares an existing bus instead of creating one.
func WithBus(b *events.Bus) Option {
	return func(v *Viewer) {
		v.bus = b
	}
}

// Viewer is the handle to one interactive graph view. It owns the
// transform, the interaction mode and the pointer state.
type Viewer struct {
	cfg    Config
	host   Host
	bus    *events.Bus
	subs   []events.Subscription
	logger *slog.Logger
	now    func() time.Time

	ip      *Interpolator
	pointer *coordinator
	mode    Mode
	bounds  Rect
	scene   Scene
	step    int

	destroyed bool
}

// New creates a viewer over scene, wired to host.
func New(scene Scene, cfg Config, host Host, opts ...Option) (*Viewer, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	v := &Viewer{
		cfg:    cfg,
		host:   host,
		now:    time.Now,
		ip:     NewInterpolator(cfg.Animations, cfg.AnimationDuration),
		bounds: Rect{Width: cfg.Width, Height: cfg.Height},
		scene:  scene,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.bus == nil {
		v.bus = events.NewBus()
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	v.pointer = newCoordinator(v, cfg.ThrottleWindow)

	v.listen()
	v.SetMode(ModeSelect)

	v.logger.Info("viewer created",
		slog.Int("nodes", scene.Len()),
		slog.Float64("width", cfg.Width),
		slog.Float64("height", cfg.Height),
		slog.Bool("animations", cfg.Animations))
	return v, nil
}

// listen subscribes the command handlers. Every subscription is kept so
// Destroy can detach them.
func (v *Viewer) listen() {
	commands := map[string]func(){
		events.ZoomIn:   v.ZoomIn,
		events.ZoomOut:  v.ZoomOut,
		events.Reset:    v.Reset,
		events.StepUp:   v.StepUp,
		events.StepDown: v.StepDown,
	}
	for _, name := range []string{events.ZoomIn, events.ZoomOut, events.Reset, events.StepUp, events.StepDown} {
		fn := commands[name]
		v.subs = append(v.subs, v.bus.On(name, func(events.Event) { fn() }))
	}
	for _, name := range []string{events.Select, events.Pan, events.BoxZoom} {
		mode, _ := ModeForCommand(name)
		v.subs = append(v.subs, v.bus.On(name, func(events.Event) { v.SetMode(mode) }))
	}
}

// Destroy detaches every handler the viewer registered. Further pointer
// input is ignored. Calling Destroy again is a no-op.
func (v *Viewer) Destroy() {
	if v.destroyed {
		return
	}
	for _, sub := range v.subs {
		v.bus.Off(sub)
	}
	v.subs = nil
	v.pointer.cancel()
	v.destroyed = true
	v.logger.Info("viewer destroyed")
}

// Destroyed reports whether Destroy has been called.
func (v *Viewer) Destroyed() bool {
	return v.destroyed
}

// Bus returns the viewer's event bus.
func (v *Viewer) Bus() *events.Bus {
	return v.bus
}

// On registers an event handler on the viewer's bus.
func (v *Viewer) On(name string, fn events.Handler) events.Subscription {
	return v.bus.On(name, fn)
}

// Fire fires an event on the viewer's bus.
func (v *Viewer) Fire(name string, ev events.Event) {
	v.bus.Fire(name, ev)
}

// Config returns the construction settings.
func (v *Viewer) Config() Config {
	return v.cfg
}

// Mode returns the active interaction mode.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// SetMode switches the interaction mode and relabels the viewport.
// A pan or box zoom in progress is abandoned.
func (v *Viewer) SetMode(m Mode) {
	if v.mode != m {
		v.pointer.cancel()
	}
	v.mode = m
	v.host.SetModeClass(m.Class())
	v.logger.Debug("interaction mode", slog.String("mode", m.String()))
}

// Transform returns the current transform.
func (v *Viewer) Transform() Transform {
	return v.ip.Transform()
}

// Interpolator exposes the transform owner, mainly for inspection.
func (v *Viewer) Interpolator() *Interpolator {
	return v.ip
}

// Flags returns the owed render work without clearing it.
func (v *Viewer) Flags() Flags {
	return v.ip.Flags()
}

// ConsumeFlags returns the owed render work and clears it. Only the
// render loop should call it.
func (v *Viewer) ConsumeFlags() Flags {
	return v.ip.ConsumeFlags()
}

// Bounds returns the viewport rectangle in client coordinates.
func (v *Viewer) Bounds() Rect {
	return v.bounds
}

// SetBounds moves or resizes the viewport. A non-positive size is
// rejected and the previous bounds are kept.
func (v *Viewer) SetBounds(r Rect) error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrBadSize, r.Width, r.Height)
	}
	v.bounds = r
	v.ip.MarkDirty()
	return nil
}

// Scene returns the displayed nodes.
func (v *Viewer) Scene() Scene {
	return v.scene
}

// SetScene replaces the displayed nodes. The hover state is cleared,
// firing a mouseout for the previously hovered node.
func (v *Viewer) SetScene(s Scene) {
	v.scene = s
	if v.step >= s.Steps {
		v.step = 0
	}
	v.pointer.clearHover()
	v.ip.MarkDirty()
	v.logger.Info("scene replaced", slog.Int("nodes", s.Len()))
}

// Hovered returns the hovered node index, or -1.
func (v *Viewer) Hovered() int {
	return v.pointer.hovered
}

// Step returns the current step index.
func (v *Viewer) Step() int {
	return v.step
}

// StepUp advances to the next step, if any.
func (v *Viewer) StepUp() {
	if v.step+1 < v.scene.Steps {
		v.step++
		v.ip.MarkDirty()
	}
}

// StepDown returns to the previous step, if any.
func (v *Viewer) StepDown() {
	if v.step > 0 {
		v.step--
		v.ip.MarkDirty()
	}
}

// ZoomToPoint composes a pan delta and zoom factor with the current
// transform, animated when animations are enabled.
func (v *Viewer) ZoomToPoint(panDelta, factor Vec) {
	v.host.HideTooltip()
	v.ip.RequestTransform(panDelta, factor, v.now())
	v.logger.Debug("zoom to point",
		slog.Float64("pan_x", panDelta.X), slog.Float64("pan_y", panDelta.Y),
		slog.Float64("zoom_x", factor.X), slog.Float64("zoom_y", factor.Y))
}

// ZoomIn zooms by the configured factor around the viewport centre.
func (v *Viewer) ZoomIn() {
	f := v.cfg.ZoomFactor
	v.ZoomToPoint(Vec{}, Vec{f, f})
}

// ZoomOut undoes one ZoomIn.
func (v *Viewer) ZoomOut() {
	f := 1 / v.cfg.ZoomFactor
	v.ZoomToPoint(Vec{}, Vec{f, f})
}

// Reset returns to the identity transform.
func (v *Viewer) Reset() {
	v.host.HideTooltip()
	v.ip.RequestAbsolute(Identity(), v.now())
	v.logger.Debug("reset")
}

// Tick advances animations and flushes coalesced pointer input. The host
// calls it once per frame.
func (v *Viewer) Tick(now time.Time) {
	v.ip.Tick(now)
	v.pointer.flush(now)
}

// Press handles a pointer-down sample.
func (v *Viewer) Press(ev PointerEvent) {
	if v.destroyed {
		return
	}
	v.pointer.press(ev)
}

// Move handles a pointer-move sample. Samples are throttled.
func (v *Viewer) Move(ev PointerEvent) {
	if v.destroyed {
		return
	}
	v.pointer.moves.Call(v.now(), ev)
}

// Release handles a pointer-up sample.
func (v *Viewer) Release(ev PointerEvent) {
	if v.destroyed {
		return
	}
	v.pointer.release(ev)
}

// Leave handles the pointer leaving the viewport.
func (v *Viewer) Leave() {
	if v.destroyed {
		return
	}
	v.pointer.leaves.Call(v.now(), struct{}{})
}

// Panning reports whether a pan drag is in progress.
func (v *Viewer) Panning() bool {
	return v.pointer.panStart != nil
}

// Boxing reports whether a box-zoom drag is in progress.
func (v *Viewer) Boxing() bool {
	return v.pointer.anchor != nil
}
