package main

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/ha1tch/grapho/pkg/events"
	"github.com/ha1tch/grapho/pkg/render"
	"github.com/ha1tch/grapho/pkg/viewport"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleToolbar    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleButton     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleButtonOn   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal).Bold(true)
	styleEdge       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleArrow      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleLabel      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleFocus      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFuture     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBoxBorder  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleTooltip    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const (
	glyphNode    = '●'
	glyphFocused = '◉'
	glyphFuture  = '∙'
	glyphEdge    = '·'
)

// button is a toolbar widget that fires a bus command.
type button struct {
	label   string
	command string
}

var toolbar = []button{
	{"[+]", events.ZoomIn},
	{"[-]", events.ZoomOut},
	{"[0]", events.Reset},
	{"[select]", events.Select},
	{"[pan]", events.Pan},
	{"[box]", events.BoxZoom},
	{"[<]", events.StepDown},
	{"[>]", events.StepUp},
}

// buttonX returns the first column of each toolbar button.
func buttonX() []int {
	xs := make([]int, len(toolbar))
	x := 1
	for i, b := range toolbar {
		xs[i] = x
		x += runewidth.StringWidth(b.label) + 1
	}
	return xs
}

// buttonAt returns the command under toolbar column x, or "".
func buttonAt(x int) string {
	for i, start := range buttonX() {
		if x >= start && x < start+runewidth.StringWidth(toolbar[i].label) {
			return toolbar[i].command
		}
	}
	return ""
}

func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	a.drawCanvas(w, h)
	a.drawZoomBox(w, h)
	a.drawTooltip(w, h)
	a.drawToolbar(w)
	a.drawStatusBar(w, h)
}

// canvasCell maps viewport-local pixels to a cell, applying the pan
// offset shown during a drag. ok is false off the canvas.
func (a *App) canvasCell(p viewport.Vec, w, h int) (x, y int, ok bool) {
	fx, fy := a.canvasPoint(p)
	if fx < 0 || fx >= float64(w) || fy < toolbarRows || fy >= float64(h-footerRows) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// canvasPoint is canvasCell in fractional cell units.
func (a *App) canvasPoint(p viewport.Vec) (x, y float64) {
	b := a.v.Bounds()
	return (p.X + a.host.panDX + b.Left) / cellW, (p.Y + a.host.panDY + b.Top) / cellH
}

func (a *App) drawCanvas(w, h int) {
	t := a.v.Transform()
	size := a.v.Bounds().Size()
	scene := a.v.Scene()

	screen := make([]viewport.Vec, len(scene.Positions))
	for i, p := range scene.Positions {
		screen[i] = t.ToScreen(p.X, p.Y, size)
	}

	for _, e := range a.model.Edges {
		if e.From >= len(screen) || e.To >= len(screen) {
			continue
		}
		x0, y0 := a.canvasPoint(screen[e.From])
		x1, y1 := a.canvasPoint(screen[e.To])
		cells, head := edgeCells(x0, y0, x1, y1, w, h)
		for _, c := range cells {
			a.screen.SetContent(c[0], c[1], glyphEdge, nil, styleEdge)
		}
		if a.cfg.Arrows && head && len(cells) > 2 {
			c := cells[len(cells)-2]
			a.screen.SetContent(c[0], c[1], arrowGlyph(x1-x0, y1-y0), nil, styleArrow)
		}
	}

	palette := render.Palette(a.model.Groups())
	focus := a.host.Focus()
	step := a.v.Step()
	for i, p := range screen {
		x, y, ok := a.canvasCell(p, w, h)
		if !ok || i >= len(a.model.Nodes) {
			continue
		}
		n := a.model.Nodes[i]
		switch {
		case i < len(focus) && focus[i] != 0:
			a.screen.SetContent(x, y, glyphFocused, nil, styleFocus)
		case scene.Steps > 0 && n.Step > step:
			a.screen.SetContent(x, y, glyphFuture, nil, styleFuture)
		default:
			a.screen.SetContent(x, y, glyphNode, nil, groupStyle(palette, n.Group))
		}
	}

	for _, l := range viewport.PlaceLabels(scene, t, size) {
		x, y, ok := a.canvasCell(viewport.Vec{X: l.X, Y: l.Y}, w, h)
		if !ok {
			continue
		}
		text := fitLabel(l.Text, w/3)
		x -= runewidth.StringWidth(text) / 2
		if x < 0 {
			x = 0
		}
		a.drawString(x, y, fitLabel(text, w-x), styleLabel)
	}
}

func groupStyle(palette []color.Color, group int) tcell.Style {
	if group < 0 {
		group = -group
	}
	r, g, b, _ := palette[group%len(palette)].RGBA()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8)))
}

func (a *App) drawZoomBox(w, h int) {
	if !a.host.boxOn {
		return
	}
	x0, y0 := cellOf(a.host.boxX0, a.host.boxY0)
	x1, y1 := cellOf(a.host.boxX1, a.host.boxY1)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	set := func(x, y int, r rune) {
		if x >= 0 && x < w && y >= toolbarRows && y < h-footerRows {
			a.screen.SetContent(x, y, r, nil, styleBoxBorder)
		}
	}
	for x := x0; x <= x1; x++ {
		set(x, y0, '─')
		set(x, y1, '─')
	}
	for y := y0; y <= y1; y++ {
		set(x0, y, '│')
		set(x1, y, '│')
	}
	set(x0, y0, '┌')
	set(x1, y0, '┐')
	set(x0, y1, '└')
	set(x1, y1, '┘')
}

func (a *App) drawTooltip(w, h int) {
	i := a.host.tooltip
	if i < 0 || i >= len(a.model.Nodes) {
		return
	}
	deg := a.model.Degree()
	text := fmt.Sprintf(" %s  group %d  degree %d ", a.nodeName(i), a.model.Nodes[i].Group, deg[i])
	text = fitLabel(text, w)

	x, y := cellOf(a.host.tipX, a.host.tipY)
	x += 2
	y++
	tw := runewidth.StringWidth(text)
	if x+tw > w {
		x = w - tw
	}
	if x < 0 {
		x = 0
	}
	if y >= h-footerRows {
		y -= 2
	}
	a.drawString(x, y, text, styleTooltip)
}

func (a *App) drawToolbar(w int) {
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, 0, ' ', nil, styleToolbar)
	}
	mode := a.v.Mode()
	for i, x := range buttonX() {
		b := toolbar[i]
		style := styleButton
		if m, ok := viewport.ModeForCommand(b.command); ok && m == mode {
			style = styleButtonOn
		}
		a.drawString(x, 0, b.label, style)
	}
}

func (a *App) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	t := a.v.Transform()
	info := fmt.Sprintf("%s  %s  x%.2f", filepath.Base(a.path), a.v.Mode(), t.ZoomX)
	if steps := a.v.Scene().Steps; steps > 0 {
		info += fmt.Sprintf("  step %d/%d", a.v.Step()+1, steps)
	}
	if hov := a.v.Hovered(); hov >= 0 {
		info += "  " + a.nodeName(hov)
	}
	a.drawString(1, y, fitLabel(info, w-2), styleStatus)

	if a.message != "" {
		style := styleMsgInfo
		switch a.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		msg := fitLabel(a.message, w/2)
		a.drawString(w-runewidth.StringWidth(msg)-1, y, msg, style)
	}

	y = h - 2
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	a.drawString(1, y, fitLabel(helpString(a.v.Mode()), w-2), styleHelp)
}

func helpString(m viewport.Mode) string {
	switch m {
	case viewport.ModePan:
		return "Drag:Pan  +/-:Zoom  0:Reset  s:Select  b:Box  e:Export  q:Quit"
	case viewport.ModeBoxZoom:
		return "Drag:Zoom to box  Click:Zoom in  0:Reset  s:Select  p:Pan  e:Export  q:Quit"
	default:
		return "Hover:Inspect  Click:Select  +/-:Zoom  Arrows:Pan  [/]:Step  p:Pan  b:Box  e:Export  q:Quit"
	}
}

// drawString writes s from column x, advancing by display width.
func (a *App) drawString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// fitLabel truncates s to at most width display columns.
func fitLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// lineCells returns the cells on the line from (x0, y0) to (x1, y1),
// endpoints included.
func lineCells(x0, y0, x1, y1 int) [][2]int {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	cells := make([][2]int, 0, dx-dy+1)
	err := dx + dy
	for {
		cells = append(cells, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return cells
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// edgeCells returns the canvas cells covered by the segment between two
// points given in cell units on a w by h screen. Parts off the canvas are
// clipped away. head reports whether the far end is on the canvas.
func edgeCells(x0, y0, x1, y1 float64, w, h int) (cells [][2]int, head bool) {
	top, bottom := float64(toolbarRows), float64(h-footerRows)
	cx0, cy0, cx1, cy1, ok := clipSegment(x0, y0, x1, y1, 0, top, float64(w), bottom)
	if !ok {
		return nil, false
	}
	cell := func(x, y float64) (int, int) {
		return clampInt(int(math.Floor(x)), 0, w-1), clampInt(int(math.Floor(y)), toolbarRows, h-footerRows-1)
	}
	a, b := cell(cx0, cy0)
	c, d := cell(cx1, cy1)
	head = x1 >= 0 && x1 < float64(w) && y1 >= top && y1 < bottom
	return lineCells(a, b, c, d), head
}

// clipSegment clips a segment to the rectangle [minX, maxX] x [minY, maxY]
// (Liang-Barsky). ok is false when nothing of it remains.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	if minX >= maxX || minY >= maxY {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// arrowGlyph picks the arrow pointing along (dx, dy) in screen space.
func arrowGlyph(dx, dy float64) rune {
	arrows := []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	angle := math.Atan2(dy, dx)
	i := int(math.Round(angle/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}
