package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ha1tch/grapho/pkg/events"
	"github.com/ha1tch/grapho/pkg/model"
	"github.com/ha1tch/grapho/pkg/viewport"
)

func testGraph() *model.Model {
	return &model.Model{
		Width:  400,
		Height: 300,
		Nodes: []model.Node{
			{X: 0, Y: 0, Label: "root"},
			{X: 0.5, Y: 0, Label: "right"},
		},
		Edges: []model.Edge{{From: 0, To: 1}},
	}
}

func newTestSession(t *testing.T, animate bool) (*session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	m := testGraph()
	cfg := viewport.DefaultConfig(m.Width, m.Height)
	cfg.Animations = animate
	s, err := newSession(m, cfg, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.close)
	return s, &out
}

func TestSessionHoverAndClick(t *testing.T) {
	s, out := newTestSession(t, false)

	// Node 0 sits at the viewport centre.
	for _, line := range []string{"move 200 150", "press 200 150", "release 200 150"} {
		if err := s.exec(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if s.v.Hovered() != 0 {
		t.Errorf("hovered = %d, want 0", s.v.Hovered())
	}
	want := []events.Event{
		{Name: events.NodeMouseOver, DataIndex: 0},
		{Name: events.NodeClick, DataIndex: 0},
	}
	if len(s.history) != len(want) {
		t.Fatalf("history = %v, want %v", s.history, want)
	}
	for i := range want {
		if s.history[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, s.history[i], want[i])
		}
	}
	if !strings.Contains(out.String(), "tooltip 0") {
		t.Errorf("output missing tooltip: %q", out.String())
	}
	if s.host.Focus().Focused() != 0 {
		t.Errorf("focused = %d, want 0", s.host.Focus().Focused())
	}
}

func TestSessionZoomRebuildsHits(t *testing.T) {
	s, _ := newTestSession(t, false)

	// Node 1 is at data x=100, so screen x=300; after zoom-in it is at 400.
	if err := s.exec("zoom-in"); err != nil {
		t.Fatal(err)
	}
	if got := s.v.Transform().ZoomX; got != 2 {
		t.Errorf("zoom = %g, want 2", got)
	}
	if got := s.host.Intersection(400, 150); got != 1 {
		t.Errorf("hit after zoom = %d, want 1", got)
	}
}

func TestSessionAnimatedTick(t *testing.T) {
	s, out := newTestSession(t, true)

	if err := s.exec("zoom-in"); err != nil {
		t.Fatal(err)
	}
	if got := s.v.Transform().ZoomX; got != 1 {
		t.Errorf("zoom before tick = %g, want 1", got)
	}
	if err := s.exec("tick"); err != nil {
		t.Fatal(err)
	}
	if got := s.v.Transform().ZoomX; got != 2 {
		t.Errorf("zoom after tick = %g, want 2", got)
	}
	if !strings.Contains(out.String(), "zoom 2.000,2.000") {
		t.Errorf("status missing: %q", out.String())
	}
}

func TestSessionPan(t *testing.T) {
	s, _ := newTestSession(t, false)
	for _, line := range []string{"pan", "press 10 10", "release 30 50"} {
		if err := s.exec(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	tr := s.v.Transform()
	if tr.PanX != 20 || tr.PanY != -40 {
		t.Errorf("pan = %g,%g, want 20,-40", tr.PanX, tr.PanY)
	}
	if s.v.Mode() != viewport.ModePan {
		t.Errorf("mode = %v", s.v.Mode())
	}
}

func TestSessionErrors(t *testing.T) {
	s, _ := newTestSession(t, false)
	for _, line := range []string{"fly", "press 1", "move a b", "tick -5"} {
		if err := s.exec(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
	if err := s.exec("quit"); err != errQuit {
		t.Errorf("quit = %v", err)
	}
}

func TestReplStopsOnQuit(t *testing.T) {
	s, out := newTestSession(t, false)
	in := strings.NewReader("status\nbogus\nquit\nstatus\n")
	if err := s.repl(in); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if strings.Count(text, "Mode: select") != 1 {
		t.Errorf("expected one status line before quit: %q", text)
	}
	if !strings.Contains(text, `unknown command "bogus"`) {
		t.Errorf("missing error: %q", text)
	}
}

func TestConvertTarget(t *testing.T) {
	tests := []struct{ in, want string }{
		{"g.json", "g.yaml"},
		{"g.JSON", "g.yaml"},
		{"dir/g.yaml", "dir/g.json"},
		{"g.yml", "g.json"},
	}
	for _, tt := range tests {
		if got := convertTarget(tt.in); got != tt.want {
			t.Errorf("convertTarget(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	printInfo(&buf, testGraph())
	text := buf.String()
	for _, want := range []string{"400x300", "Nodes:", "Max degree:"} {
		if !strings.Contains(text, want) {
			t.Errorf("info missing %q: %q", want, text)
		}
	}
}
