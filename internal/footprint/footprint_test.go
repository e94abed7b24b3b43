package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

// slabCollection is a flat 30m x 8m slab at the origin.
func slabCollection() *scene.Collection {
	return &scene.Collection{
		Name: "IfcBuildingStorey/NIVEAU 5/STR",
		Objects: []*scene.Object{
			{
				Name: "IfcSlab/Plancher", Kind: scene.KindMesh,
				Mesh: denseSlab(30, 8),
			},
		},
	}
}

// denseSlab builds a quad grid so every occupancy cell receives a vertex.
func denseSlab(w, d int) *gltfio.MeshData {
	md := &gltfio.MeshData{}
	for x := 0; x <= w; x++ {
		for y := 0; y <= d; y++ {
			md.Positions = append(md.Positions, [3]float32{float32(x), float32(y), 0})
		}
	}
	return md
}

func TestBuildGrid(t *testing.T) {
	g, err := BuildGrid(slabCollection())
	require.NoError(t, err)

	assert.Equal(t, 31, g.Width)
	assert.Equal(t, 9, g.Height)
	assert.Equal(t, 0.0, g.MinX)
	assert.Equal(t, mathutil.Vec3{30, 8, 0}, g.Bounds.Max)
	assert.Equal(t, 31*9, g.Occupied())
	assert.True(t, g.At(0, 0))
	assert.True(t, g.At(30, 8))
	assert.False(t, g.At(31, 0))
}

func TestBuildGridOffsetObject(t *testing.T) {
	c := &scene.Collection{
		Name: "shifted",
		Objects: []*scene.Object{
			{
				Name: "IfcSlab/S", Kind: scene.KindMesh,
				Location: mathutil.Vec3{100, 50, 0},
				Mesh:     gltfio.Quad(0, 0, 2, 2, 0),
			},
		},
	}
	g, err := BuildGrid(c)
	require.NoError(t, err)
	assert.Equal(t, 100.0, g.MinX)
	assert.Equal(t, 50.0, g.MinY)
	assert.Equal(t, 3, g.Width)
}

func TestBuildGridNoGeometry(t *testing.T) {
	c := &scene.Collection{
		Name: "empty",
		Objects: []*scene.Object{
			{Name: "IfcBuildingStorey/NIVEAU 1.001", Kind: scene.KindEmpty},
		},
	}
	_, err := BuildGrid(c)
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestOverlapRatio(t *testing.T) {
	g, err := BuildGrid(slabCollection())
	require.NoError(t, err)

	// Fully inside the slab.
	assert.Equal(t, 1.0, g.OverlapRatio(0, 0, 10, 4))
	// Fully outside.
	assert.Equal(t, 0.0, g.OverlapRatio(100, 100, 10, 4))
}

func TestTile(t *testing.T) {
	g, err := BuildGrid(slabCollection())
	require.NoError(t, err)

	modules := Tile(g)
	require.NotEmpty(t, modules)

	// 30m / 14.63m tiles into three columns. Rows overshoot past the 8m
	// depth, still clipping the top edge cells.
	maxCol, maxRow := 0, 0
	for _, m := range modules {
		assert.Greater(t, m.OverlapRatio, 0.01)
		assert.Equal(t, ModuleLength, m.Length)
		assert.Equal(t, ModuleWidth, m.Width)
		maxCol = max(maxCol, m.Col)
		maxRow = max(maxRow, m.Row)
	}
	assert.Equal(t, 2, maxCol)
	assert.Equal(t, 2, maxRow)
	assert.Len(t, modules, 9)

	// Ids are dense and ordered.
	for i, m := range modules {
		assert.Equal(t, i, m.ID)
	}
}

func TestOverlay(t *testing.T) {
	g, err := BuildGrid(slabCollection())
	require.NoError(t, err)
	modules := Tile(g)

	s := Overlay(g, modules)
	coll := s.Find("SIMPLE_TILING")
	require.NotNil(t, coll)
	assert.Len(t, coll.Objects, g.Occupied()+len(modules))

	first := coll.Objects[0]
	require.NotNil(t, first.Mesh)
	assert.True(t, first.Mesh.AlphaBlend)
	assert.Equal(t, float32(-0.01), first.Mesh.Positions[0][2])
}
