// Package footprint decomposes a building footprint into prefabricated
// modules: a 1 m occupancy grid built from mesh vertices, tiled with
// fixed-size module rectangles.
package footprint

import (
	"errors"
	"fmt"

	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

var ErrNoGeometry = errors.New("footprint: no mesh geometry")

// Module dimensions in metres (14 ft x 48 ft).
const (
	ModuleLength = 14.63 // X
	ModuleWidth  = 4.267 // Y

	GridCell         = 1.0
	overlapThreshold = 0.01
)

// Grid is the occupancy grid of a building footprint. A cell is occupied
// when at least one mesh vertex falls into it.
type Grid struct {
	MinX, MinY float64
	CellSize   float64
	Width      int
	Height     int

	Bounds mathutil.Box3

	cells []bool
}

// BuildGrid scans the mesh objects of a collection subtree and marks the
// cells their vertices occupy.
func BuildGrid(c *scene.Collection) (*Grid, error) {
	bounds := mathutil.EmptyBox()
	var verts []mathutil.Vec3
	for _, obj := range c.MeshObjects() {
		if obj.Mesh == nil {
			continue
		}
		for _, p := range obj.Mesh.Positions {
			world := obj.Location.Add(mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
			bounds.Extend(world)
			verts = append(verts, world)
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGeometry, c.Name)
	}

	g := &Grid{
		MinX:     bounds.Min[0],
		MinY:     bounds.Min[1],
		CellSize: GridCell,
		Width:    int((bounds.Max[0]-bounds.Min[0])/GridCell) + 1,
		Height:   int((bounds.Max[1]-bounds.Min[1])/GridCell) + 1,
		Bounds:   bounds,
	}
	g.cells = make([]bool, g.Width*g.Height)

	for _, v := range verts {
		gx := int((v[0] - g.MinX) / g.CellSize)
		gy := int((v[1] - g.MinY) / g.CellSize)
		if gx >= 0 && gx < g.Width && gy >= 0 && gy < g.Height {
			g.cells[gx*g.Height+gy] = true
		}
	}
	return g, nil
}

// At reports whether the cell at grid coordinates (gx, gy) is occupied.
func (g *Grid) At(gx, gy int) bool {
	if gx < 0 || gx >= g.Width || gy < 0 || gy >= g.Height {
		return false
	}
	return g.cells[gx*g.Height+gy]
}

// Occupied counts the occupied cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// OverlapRatio is the occupied fraction of the grid cells covered by a
// rectangle placed at (x, y).
func (g *Grid) OverlapRatio(x, y, length, width float64) float64 {
	startX := int((x - g.MinX) / g.CellSize)
	startY := int((y - g.MinY) / g.CellSize)
	endX := int((x + length - g.MinX) / g.CellSize)
	endY := int((y + width - g.MinY) / g.CellSize)

	occupied, total := 0, 0
	for gx := max(0, startX); gx < min(g.Width, endX+1); gx++ {
		for gy := max(0, startY); gy < min(g.Height, endY+1); gy++ {
			total++
			if g.cells[gx*g.Height+gy] {
				occupied++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(occupied) / float64(total)
}

// Module is one placed prefab rectangle.
type Module struct {
	ID           int
	X, Y         float64
	Length       float64
	Width        float64
	OverlapRatio float64
	Col, Row     int
}

// Tile places module rectangles row by row over the grid and keeps those
// overlapping the footprint. The low threshold keeps edge modules so the
// footprint is covered completely.
func Tile(g *Grid) []Module {
	size := g.Bounds.Size()
	rows := int(size[1]/ModuleWidth) + 2
	cols := int(size[0]/ModuleLength) + 2

	var modules []Module
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := g.MinX + float64(col)*ModuleLength
			y := g.MinY + float64(row)*ModuleWidth
			ratio := g.OverlapRatio(x, y, ModuleLength, ModuleWidth)
			if ratio <= overlapThreshold {
				continue
			}
			modules = append(modules, Module{
				ID:           len(modules),
				X:            x,
				Y:            y,
				Length:       ModuleLength,
				Width:        ModuleWidth,
				OverlapRatio: ratio,
				Col:          col,
				Row:          row,
			})
		}
	}
	return modules
}
