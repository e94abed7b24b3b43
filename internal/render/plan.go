// Package render draws 2D plan images: footprint grids, module layouts
// and usage maps, with an optional site-plan underlay.
package render

import (
	"image"
	"image/color"
	"math"

	"bim-tools/internal/mathutil"
)

// Rect is one world-space rectangle to draw on a plan.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Fill       color.NRGBA
	Outline    bool
}

// Plan accumulates drawing in world metres and rasterizes to pixels.
// World +Y points up, so the vertical axis is flipped when plotting.
type Plan struct {
	img    *image.NRGBA
	minX   float64
	minY   float64
	scale  float64
	margin int
	height int
}

// NewPlan allocates a plan canvas covering the XY extent of bounds at the
// given resolution in pixels per metre.
func NewPlan(bounds mathutil.Box3, pixelsPerMetre float64, margin int) *Plan {
	size := bounds.Size()
	w := int(math.Ceil(size[0]*pixelsPerMetre)) + 2*margin
	h := int(math.Ceil(size[1]*pixelsPerMetre)) + 2*margin
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i-3] = 255
		img.Pix[i-2] = 255
		img.Pix[i-1] = 255
		img.Pix[i] = 255
	}
	return &Plan{
		img:    img,
		minX:   bounds.Min[0],
		minY:   bounds.Min[1],
		scale:  pixelsPerMetre,
		margin: margin,
		height: h,
	}
}

// Image returns the rendered canvas.
func (p *Plan) Image() *image.NRGBA { return p.img }

func (p *Plan) toPx(x, y float64) (int, int) {
	px := p.margin + int((x-p.minX)*p.scale)
	py := p.height - p.margin - int((y-p.minY)*p.scale)
	return px, py
}

// Draw plots one rectangle, filled or outlined.
func (p *Plan) Draw(r Rect) {
	x0, y1 := p.toPx(r.MinX, r.MinY)
	x1, y0 := p.toPx(r.MaxX, r.MaxY)
	if r.Outline {
		p.strokeRect(x0, y0, x1, y1, r.Fill)
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p.blend(x, y, r.Fill)
		}
	}
}

func (p *Plan) strokeRect(x0, y0, x1, y1 int, c color.NRGBA) {
	for x := x0; x <= x1; x++ {
		p.blend(x, y0, c)
		p.blend(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		p.blend(x0, y, c)
		p.blend(x1, y, c)
	}
}

// blend paints one pixel with source-over alpha.
func (p *Plan) blend(x, y int, c color.NRGBA) {
	if !(image.Point{x, y}).In(p.img.Rect) {
		return
	}
	if c.A == 255 {
		p.img.SetNRGBA(x, y, c)
		return
	}
	i := p.img.PixOffset(x, y)
	a := float64(c.A) / 255.0
	p.img.Pix[i] = uint8(float64(c.R)*a + float64(p.img.Pix[i])*(1-a) + 0.5)
	p.img.Pix[i+1] = uint8(float64(c.G)*a + float64(p.img.Pix[i+1])*(1-a) + 0.5)
	p.img.Pix[i+2] = uint8(float64(c.B)*a + float64(p.img.Pix[i+2])*(1-a) + 0.5)
}

// RGBA converts a material color factor to a drawable color.
func RGBA(c [4]float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: uint8(c[3]*255 + 0.5),
	}
}
