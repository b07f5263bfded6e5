package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/grapho/pkg/events"
	"github.com/ha1tch/grapho/pkg/hitgrid"
	"github.com/ha1tch/grapho/pkg/model"
	"github.com/ha1tch/grapho/pkg/viewport"
)

var errQuit = errors.New("quit")

// printHost answers hit tests from a grid and prints overlay requests.
type printHost struct {
	*hitgrid.Backend
	w io.Writer
}

func (h *printHost) ShowTooltip(index int, x, y float64) {
	fmt.Fprintf(h.w, "  tooltip %d at %g,%g\n", index, x, y)
}
func (h *printHost) HideTooltip() {}
func (h *printHost) CreateBox(x, y float64) {
	fmt.Fprintf(h.w, "  box from %g,%g\n", x, y)
}
func (h *printHost) UpdateBox(float64, float64) {}
func (h *printHost) DestroyBox() {
	fmt.Fprintln(h.w, "  box closed")
}
func (h *printHost) SetPanOffset(float64, float64) {}
func (h *printHost) SetModeClass(string)           {}

// session drives one headless viewer on a virtual clock.
type session struct {
	v       *viewport.Viewer
	host    *printHost
	now     time.Time
	out     io.Writer
	history []events.Event
	subs    []events.Subscription
}

func newSession(m *model.Model, cfg viewport.Config, out io.Writer, logger *slog.Logger) (*session, error) {
	s := &session{out: out, now: time.Unix(0, 0)}
	s.host = &printHost{Backend: hitgrid.NewBackend(len(m.Nodes), cfg.PointSize()/2), w: out}
	v, err := viewport.New(m.Scene(), cfg, s.host,
		viewport.WithLogger(logger),
		viewport.WithClock(func() time.Time { return s.now }))
	if err != nil {
		return nil, err
	}
	s.v = v
	for _, name := range []string{events.NodeMouseOver, events.NodeMouseOut, events.NodeClick} {
		s.subs = append(s.subs, v.On(name, func(ev events.Event) {
			s.history = append(s.history, ev)
		}))
	}
	s.frame()
	return s, nil
}

func (s *session) close() {
	for _, sub := range s.subs {
		s.v.Bus().Off(sub)
	}
	s.v.Destroy()
}

// frame ticks the viewer and does the host's share of the owed work.
func (s *session) frame() viewport.Flags {
	s.v.Tick(s.now)
	flags := s.v.ConsumeFlags()
	if flags.HitDirty {
		s.host.Rebuild(s.v.Scene(), s.v.Transform(), s.v.Bounds().Size())
	}
	return flags
}

func (s *session) repl(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

// exec runs one command line.
func (s *session) exec(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case events.ZoomIn, events.ZoomOut, events.Reset,
		events.Select, events.Pan, events.BoxZoom,
		events.StepUp, events.StepDown:
		s.v.Bus().Command(cmd)
		s.frame()
	case "press", "move", "release":
		x, y, err := parsePoint(args)
		if err != nil {
			return err
		}
		ev := viewport.PointerEvent{ClientX: x, ClientY: y, Target: viewport.TargetViewport}
		switch cmd {
		case "press":
			s.v.Press(ev)
		case "move":
			s.v.Move(ev)
		case "release":
			s.v.Release(ev)
		}
		s.frame()
	case "leave":
		s.v.Leave()
		s.frame()
	case "tick":
		d := s.v.Config().AnimationDuration
		if len(args) > 0 {
			ms, err := strconv.Atoi(args[0])
			if err != nil || ms < 0 {
				return fmt.Errorf("bad tick duration %q", args[0])
			}
			d = time.Duration(ms) * time.Millisecond
		}
		s.now = s.now.Add(d)
		s.frame()
		s.status()
	case "status":
		s.status()
	case "history":
		s.printHistory()
	case "help", "?":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  zoom-in, zoom-out, reset    - Zoom commands")
		fmt.Fprintln(s.out, "  select, pan, box-zoom       - Switch interaction mode")
		fmt.Fprintln(s.out, "  step-up, step-down          - Move through steps")
		fmt.Fprintln(s.out, "  press|move|release <x> <y>  - Pointer input in viewport pixels")
		fmt.Fprintln(s.out, "  leave                       - Pointer leaves the viewport")
		fmt.Fprintln(s.out, "  tick [ms]                   - Advance the clock")
		fmt.Fprintln(s.out, "  status, history, quit")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parsePoint(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("want x y, got %d values", len(args))
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad y %q", args[1])
	}
	return x, y, nil
}

func (s *session) status() {
	t := s.v.Transform()
	status := fmt.Sprintf("Mode: %s  pan %.1f,%.1f  zoom %.3f,%.3f",
		s.v.Mode(), t.PanX, t.PanY, t.ZoomX, t.ZoomY)
	if !s.v.Interpolator().Idle() {
		status += " [animating]"
	}
	if h := s.v.Hovered(); h >= 0 {
		status += fmt.Sprintf("  hover %d", h)
	}
	if steps := s.v.Scene().Steps; steps > 0 {
		status += fmt.Sprintf("  step %d/%d", s.v.Step()+1, steps)
	}
	fmt.Fprintln(s.out, status)
}

func (s *session) printHistory() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "No history yet")
		return
	}
	fmt.Fprintln(s.out, "History:")
	for i, ev := range s.history {
		fmt.Fprintf(s.out, "  %d: %s %d\n", i+1, ev.Name, ev.DataIndex)
	}
}
