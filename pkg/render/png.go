// Package render draws a snapshot of a viewer's current view as a PNG.
// It mirrors what an interactive backend shows: edges, group-coloured
// nodes, the focused node and labels, all through the live transform.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/grapho/pkg/model"
	"github.com/ha1tch/grapho/pkg/viewport"
)

// ErrBadCanvas is returned for non-positive output sizes.
var ErrBadCanvas = errors.New("snapshot size must be positive")

// Options configures PNG rendering.
type Options struct {
	Width, Height int
	NodeRadius    float64
	FontSize      float64
	Arrows        bool
	Labels        bool
	Supersample   int
}

// DefaultOptions sizes the snapshot to the model.
func DefaultOptions(m *model.Model) Options {
	return Options{
		Width:       int(m.Width),
		Height:      int(m.Height),
		NodeRadius:  4,
		FontSize:    12,
		Labels:      true,
		Supersample: 2,
	}
}

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorEdge       = color.RGBA{200, 200, 200, 255}
	colorLabel      = color.RGBA{51, 51, 51, 255}  // #333
	colorFocus      = color.RGBA{21, 101, 192, 255} // #1565c0
)

// renderContext holds the target image and scaled sizes.
type renderContext struct {
	img   *image.RGBA
	scale float64
	face  font.Face
}

// Palette returns n evenly spaced group colours.
func Palette(n int) []color.Color {
	if n < 1 {
		n = 1
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = colorful.Hcl(float64(i)*360/float64(n), 0.6, 0.6).Clamped()
	}
	return out
}

// RenderPNG draws m through t. Nodes are laid out for the output size,
// as a viewer of that size would show them. focus may be nil.
// Renders at Supersample times the size and scales down.
func RenderPNG(w io.Writer, m *model.Model, t viewport.Transform, focus viewport.FocusBuffer, opts Options) error {
	img, err := Render(m, t, focus, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Render draws m through t into a new image.
func Render(m *model.Model, t viewport.Transform, focus viewport.FocusBuffer, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadCanvas, opts.Width, opts.Height)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	scale := opts.Supersample
	if scale < 1 {
		scale = 1
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx, err := newRenderContext(large, float64(scale), opts.FontSize)
	if err != nil {
		return nil, err
	}
	draw.Draw(large, large.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	size := viewport.Size{Width: float64(opts.Width), Height: float64(opts.Height)}
	positions := m.PositionsAt(size.Width, size.Height)
	screen := make([]viewport.Vec, len(positions))
	for i, p := range positions {
		s := t.ToScreen(p.X, p.Y, size)
		screen[i] = viewport.Vec{X: s.X * ctx.scale, Y: s.Y * ctx.scale}
	}

	for _, e := range m.Edges {
		a, b := screen[e.From], screen[e.To]
		if opts.Arrows {
			drawArrowLine(ctx, a.X, a.Y, b.X, b.Y, opts.NodeRadius*ctx.scale, colorEdge)
		} else {
			drawLine(ctx, a.X, a.Y, b.X, b.Y, colorEdge)
		}
	}

	palette := Palette(m.Groups())
	focused := -1
	for i, n := range m.Nodes {
		if i < len(focus) && focus[i] != 0 {
			focused = i
			continue // drawn last so it sits on top
		}
		drawDisc(ctx, screen[i].X, screen[i].Y, opts.NodeRadius*ctx.scale, groupColor(palette, n.Group))
	}
	if focused >= 0 {
		p := screen[focused]
		r := opts.NodeRadius * ctx.scale * 2
		drawDisc(ctx, p.X, p.Y, r+ctx.scale, colorFocus)
		drawDisc(ctx, p.X, p.Y, r, groupColor(palette, m.Nodes[focused].Group))
	}

	if opts.Labels {
		for _, l := range viewport.PlaceLabels(m.SceneAt(size.Width, size.Height), t, size) {
			drawTextCentered(ctx, int(l.X*ctx.scale), int(l.Y*ctx.scale), l.Text, colorLabel)
		}
	}

	if scale == 1 {
		return large, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), large, large.Bounds(), draw.Over, nil)
	return out, nil
}

func groupColor(palette []color.Color, group int) color.Color {
	if group < 0 {
		group = -group
	}
	return palette[group%len(palette)]
}

func newRenderContext(img *image.RGBA, scale, fontSize float64) (*renderContext, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if fontSize <= 0 {
		fontSize = 12
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    fontSize * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &renderContext{img: img, scale: scale, face: face}, nil
}

// drawDisc fills a circle.
func drawDisc(ctx *renderContext, cx, cy, r float64, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		xExtent := math.Sqrt(math.Max(0, r*r-dy*dy))
		for dx := -xExtent; dx <= xExtent; dx++ {
			ctx.img.Set(int(cx+dx), int(cy+dy), c)
		}
	}
}

// drawLine draws a line one scaled pixel thick.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		ctx.img.Set(int(x1), int(y1), c)
		return
	}
	// Clip absurdly long lines produced by deep zoom.
	if dist > 1e5 {
		return
	}

	half := ctx.scale / 2
	perpX := -dy / dist
	perpY := dx / dist
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		x := x1 + dx*t
		y := y1 + dy*t
		for off := -half; off <= half; off += 0.5 {
			ctx.img.Set(int(x+perpX*off), int(y+perpY*off), c)
		}
	}
}

// drawArrowLine draws a line with an arrowhead stopping short of the
// target node.
func drawArrowLine(ctx *renderContext, x1, y1, x2, y2, inset float64, c color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist <= inset {
		return
	}
	nx := dx / dist
	ny := dy / dist
	tipX := x2 - nx*inset
	tipY := y2 - ny*inset
	drawLine(ctx, x1, y1, tipX, tipY, c)

	arrowLen := 6 * ctx.scale
	arrowWidth := 3 * ctx.scale
	ax1 := tipX - nx*arrowLen + ny*arrowWidth
	ay1 := tipY - ny*arrowLen - nx*arrowWidth
	ax2 := tipX - nx*arrowLen - ny*arrowWidth
	ay2 := tipY - ny*arrowLen + nx*arrowWidth
	for t := 0.0; t <= 1.0; t += 0.05 {
		drawLine(ctx, tipX, tipY, ax1+(ax2-ax1)*t, ay1+(ay2-ay1)*t, c)
	}
}

// drawTextCentered draws text with its baseline at y, centred on x.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
