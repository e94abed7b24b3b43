package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LegendEntry is one swatch/label pair of a plan legend.
type LegendEntry struct {
	Label string
	Color color.NRGBA
}

const (
	legendSwatch  = 12
	legendSpacing = 18
	legendPad     = 8
)

// Legend draws entries down the top-left corner of the plan.
func (p *Plan) Legend(entries []LegendEntry) {
	black := color.NRGBA{0, 0, 0, 255}
	drawer := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(black),
		Face: basicfont.Face7x13,
	}

	y := legendPad
	for _, e := range entries {
		for sy := 0; sy < legendSwatch; sy++ {
			for sx := 0; sx < legendSwatch; sx++ {
				p.blend(legendPad+sx, y+sy, e.Color)
			}
		}
		p.strokeRect(legendPad, y, legendPad+legendSwatch, y+legendSwatch, black)

		drawer.Dot = fixed.P(legendPad+legendSwatch+6, y+legendSwatch-1)
		drawer.DrawString(e.Label)
		y += legendSpacing
	}
}
