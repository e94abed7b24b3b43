package footprint

import (
	"fmt"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/scene"
)

// Colors shared by the 3D overlay and the 2D plan rendering.
var (
	FootprintColor = [4]float32{0.8, 0.1, 0.1, 0.4}
	ModuleColor    = [4]float32{0.1, 0.8, 0.1, 0.8}
)

// Overlay builds the tiling visualization: one quad per occupied cell
// just below ground, one quad per module just above it.
func Overlay(g *Grid, modules []Module) *scene.Scene {
	coll := &scene.Collection{Name: "SIMPLE_TILING"}

	for gx := 0; gx < g.Width; gx++ {
		for gy := 0; gy < g.Height; gy++ {
			if !g.At(gx, gy) {
				continue
			}
			x := g.MinX + float64(gx)*g.CellSize
			y := g.MinY + float64(gy)*g.CellSize
			quad := gltfio.Quad(x, y, x+g.CellSize, y+g.CellSize, -0.01)
			quad.Color = FootprintColor
			quad.HasMaterial = true
			quad.MaterialName = "Real_Footprint_Material"
			quad.AlphaBlend = true
			coll.Objects = append(coll.Objects, &scene.Object{
				Name: fmt.Sprintf("Footprint_Cell_%d_%d", gx, gy),
				Kind: scene.KindMesh,
				Mesh: quad,
			})
		}
	}

	for _, m := range modules {
		quad := gltfio.Quad(m.X, m.Y, m.X+m.Length, m.Y+m.Width, 0.01)
		quad.Color = ModuleColor
		quad.HasMaterial = true
		quad.MaterialName = fmt.Sprintf("Module_Material_%d", m.ID)
		coll.Objects = append(coll.Objects, &scene.Object{
			Name: fmt.Sprintf("Module_%d", m.ID),
			Kind: scene.KindMesh,
			Mesh: quad,
		})
	}

	return &scene.Scene{Collections: []*scene.Collection{coll}}
}
