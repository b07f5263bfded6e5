package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/grapho/pkg/config"
	"github.com/ha1tch/grapho/pkg/events"
	"github.com/ha1tch/grapho/pkg/model"
	"github.com/ha1tch/grapho/pkg/render"
	"github.com/ha1tch/grapho/pkg/viewport"
)

// Terminal cells are mapped to viewport pixels at a fixed ratio that
// keeps cells roughly twice as tall as wide.
const (
	cellW = 4
	cellH = 8

	toolbarRows = 1
	footerRows  = 2

	// inputGrace keeps frames coming after the last pointer event so a
	// throttled trailing sample is flushed.
	inputGrace = 100 * time.Millisecond
	// keyPan is the arrow-key pan step in pixels.
	keyPan = 40
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// App holds all viewer state for one terminal session.
type App struct {
	screen  tcell.Screen
	model   *model.Model
	path    string
	output  string
	cfg     viewport.Config
	logger  *slog.Logger
	viewers viewport.Collection
	v       *viewport.Viewer
	host    *termHost
	subs    []events.Subscription

	held    bool // left button down
	inside  bool // pointer over the canvas
	clicked int

	message     string
	messageType MessageType

	animating atomic.Bool
	lastInput atomic.Int64
}

func newApp(screen tcell.Screen, m *model.Model, path string, settings *config.Config, logger *slog.Logger) (*App, error) {
	w, h := screen.Size()
	bounds := canvasBounds(w, h)
	cfg := settings.Viewport(bounds.Width, bounds.Height)

	a := &App{
		screen:  screen,
		model:   m,
		path:    path,
		cfg:     cfg,
		logger:  logger,
		host:    newTermHost(len(m.Nodes), cfg.PointSize()/2),
		clicked: -1,
	}
	v, err := viewport.New(m.SceneAt(bounds.Width, bounds.Height), cfg, a.host, viewport.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := v.SetBounds(bounds); err != nil {
		return nil, err
	}
	a.v = v
	a.viewers.Add(v)

	a.subs = append(a.subs, v.On(events.NodeClick, func(ev events.Event) {
		a.clicked = ev.DataIndex
		a.showMessage(fmt.Sprintf("Clicked %s", a.nodeName(ev.DataIndex)), MsgInfo)
	}))
	a.frame(time.Now())
	return a, nil
}

// canvasBounds returns the viewport rectangle for a w by h terminal.
func canvasBounds(w, h int) viewport.Rect {
	rows := h - toolbarRows - footerRows
	if rows < 1 {
		rows = 1
	}
	if w < 1 {
		w = 1
	}
	return viewport.Rect{
		Left:   0,
		Top:    toolbarRows * cellH,
		Width:  float64(w * cellW),
		Height: float64(rows * cellH),
	}
}

// clientPoint maps a cell to the client pixel at its centre.
func clientPoint(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * cellW, (float64(y) + 0.5) * cellH
}

// cellOf maps a client pixel to its cell.
func cellOf(px, py float64) (int, int) {
	return floorDiv(px, cellW), floorDiv(py, cellH)
}

func floorDiv(v float64, d int) int {
	q := int(v) / d
	if v < 0 && float64(q*d) != v {
		q--
	}
	return q
}

func (a *App) close() {
	for _, sub := range a.subs {
		a.v.Bus().Off(sub)
	}
	a.viewers.Destroy(a.v)
}

func (a *App) run() {
	for {
		a.frame(time.Now())
		a.draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			a.screen.Sync()
			a.resize()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventInterrupt:
			if m, ok := ev.Data().(*model.Model); ok {
				a.reload(m)
			}
		}
	}
}

// frame advances the viewers and rebuilds hit data they report stale.
func (a *App) frame(now time.Time) {
	a.viewers.Frame(now, func(v *viewport.Viewer, flags viewport.Flags) {
		if flags.HitDirty {
			a.host.Rebuild(v.Scene(), v.Transform(), v.Bounds().Size())
		}
	})
	a.animating.Store(!a.v.Interpolator().Idle())
}

// busy reports whether the loop needs frames without user input. Safe
// to call from any goroutine.
func (a *App) busy(now time.Time) bool {
	return a.animating.Load() || now.UnixMilli()-a.lastInput.Load() < inputGrace.Milliseconds()
}

func (a *App) resize() {
	w, h := a.screen.Size()
	bounds := canvasBounds(w, h)
	if err := a.v.SetBounds(bounds); err != nil {
		a.logger.Warn("resize", slog.String("error", err.Error()))
		return
	}
	a.v.SetScene(a.model.SceneAt(bounds.Width, bounds.Height))
	a.host.Rebuild(a.v.Scene(), a.v.Transform(), bounds.Size())
}

func (a *App) reload(m *model.Model) {
	a.model = m
	b := a.v.Bounds()
	a.v.SetScene(m.SceneAt(b.Width, b.Height))
	a.host.Rebuild(a.v.Scene(), a.v.Transform(), b.Size())
	a.clicked = -1
	a.showMessage(fmt.Sprintf("Reloaded %d nodes", len(m.Nodes)), MsgSuccess)
	a.logger.Info("model reloaded", slog.String("path", a.path), slog.Int("nodes", len(m.Nodes)))
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		a.v.ZoomToPoint(viewport.Vec{X: keyPan}, viewport.Vec{X: 1, Y: 1})
	case tcell.KeyRight:
		a.v.ZoomToPoint(viewport.Vec{X: -keyPan}, viewport.Vec{X: 1, Y: 1})
	case tcell.KeyUp:
		a.v.ZoomToPoint(viewport.Vec{Y: -keyPan}, viewport.Vec{X: 1, Y: 1})
	case tcell.KeyDown:
		a.v.ZoomToPoint(viewport.Vec{Y: keyPan}, viewport.Vec{X: 1, Y: 1})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'e':
			a.export()
		default:
			if cmd, ok := keyCommands[ev.Rune()]; ok {
				a.v.Bus().Command(cmd)
			}
		}
	}
	return false
}

// keyCommands binds keys to the same bus commands the toolbar fires.
var keyCommands = map[rune]string{
	'+': events.ZoomIn,
	'=': events.ZoomIn,
	'-': events.ZoomOut,
	'0': events.Reset,
	's': events.Select,
	'p': events.Pan,
	'b': events.BoxZoom,
	']': events.StepUp,
	'[': events.StepDown,
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	a.lastInput.Store(time.Now().UnixMilli())

	if buttons&tcell.WheelUp != 0 {
		a.v.Bus().Command(events.ZoomIn)
		return
	}
	if buttons&tcell.WheelDown != 0 {
		a.v.Bus().Command(events.ZoomOut)
		return
	}

	cx, cy := clientPoint(x, y)
	_, h := a.screen.Size()
	pe := viewport.PointerEvent{ClientX: cx, ClientY: cy, Target: targetAt(y, h)}

	inside := pe.Target == viewport.TargetViewport
	if a.inside && !inside {
		a.v.Leave()
	}
	a.inside = inside

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !a.held:
		a.held = true
		if pe.Target == viewport.TargetControls {
			if cmd := buttonAt(x); cmd != "" {
				a.v.Bus().Command(cmd)
			}
		}
		a.v.Press(pe)
	case !down && a.held:
		a.held = false
		a.v.Release(pe)
	default:
		a.v.Move(pe)
	}
}

// targetAt classifies a terminal row.
func targetAt(y, h int) viewport.Target {
	switch {
	case y < toolbarRows:
		return viewport.TargetControls
	case y >= h-footerRows:
		return viewport.TargetOutside
	default:
		return viewport.TargetViewport
	}
}

// export writes the current view to a PNG.
func (a *App) export() {
	b := a.v.Bounds()
	opts := render.DefaultOptions(a.model)
	opts.Width, opts.Height = int(b.Width), int(b.Height)
	opts.NodeRadius = a.cfg.PointSize() / 4
	opts.Arrows = a.cfg.Arrows

	f, err := os.Create(a.output)
	if err != nil {
		a.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	defer f.Close()
	if err := render.RenderPNG(f, a.model, a.v.Transform(), a.host.Focus(), opts); err != nil {
		a.showMessage("Export failed: "+err.Error(), MsgError)
		a.logger.Error("export", slog.String("error", err.Error()))
		return
	}
	a.showMessage("Exported "+a.output, MsgSuccess)
	a.logger.Info("exported", slog.String("path", a.output))
}

func (a *App) showMessage(msg string, msgType MessageType) {
	a.message = msg
	a.messageType = msgType
}

// nodeName describes node i for messages and tooltips.
func (a *App) nodeName(i int) string {
	if i < 0 || i >= len(a.model.Nodes) {
		return "-"
	}
	if l := a.model.Nodes[i].Label; l != "" {
		return fmt.Sprintf("#%d %s", i, l)
	}
	return fmt.Sprintf("#%d", i)
}
