package appearance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/scene"
)

func reviewCollection() *scene.Collection {
	bare := gltfio.Quad(0, 0, 1, 1, 0)
	painted := gltfio.Quad(0, 0, 2, 2, 0)
	painted.HasMaterial = true
	painted.MaterialName = "Concrete"
	painted.Color = [4]float32{0.7, 0.7, 0.7, 1}

	return &scene.Collection{
		Name: "MDA-Nicolet/STR/NIVEAU 5",
		Objects: []*scene.Object{
			{Name: "IfcWall/W-01", Kind: scene.KindMesh, Mesh: bare},
			{Name: "IfcSlab/S-01", Kind: scene.KindMesh, Mesh: painted},
			{Name: "IfcBuildingStorey/NIVEAU 5.001", Kind: scene.KindEmpty},
		},
	}
}

func TestPreset(t *testing.T) {
	c, err := Preset("bleu_fonce")
	require.NoError(t, err)
	assert.Equal(t, [4]float32{0, 0, 0.8, 1}, c)

	_, err = Preset("mauve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rouge")
}

func TestMaterialName(t *testing.T) {
	assert.Equal(t, "Color_MDA-Nicolet_STR_NIVEAU_5", MaterialName("MDA-Nicolet/STR/NIVEAU 5"))
}

func TestRecolorForce(t *testing.T) {
	c := reviewCollection()
	count := Recolor(c, [4]float32{1, 0, 0, 0.5}, true)
	assert.Equal(t, 2, count)

	for _, obj := range c.MeshObjects() {
		// Alpha is always reset to opaque; transparency is a separate pass.
		assert.Equal(t, [4]float32{1, 0, 0, 1}, obj.Mesh.Color)
		assert.Equal(t, "Color_MDA-Nicolet_STR_NIVEAU_5", obj.Mesh.MaterialName)
		assert.True(t, obj.Mesh.HasMaterial)
		assert.False(t, obj.Mesh.AlphaBlend)
	}
}

func TestRecolorSimple(t *testing.T) {
	c := reviewCollection()
	count := Recolor(c, [4]float32{0, 1, 0, 1}, false)
	assert.Equal(t, 1, count)

	objs := c.MeshObjects()
	assert.Equal(t, [4]float32{0, 1, 0, 1}, objs[0].Mesh.Color)
	// The already painted slab keeps its material.
	assert.Equal(t, "Concrete", objs[1].Mesh.MaterialName)
	assert.Equal(t, [4]float32{0.7, 0.7, 0.7, 1}, objs[1].Mesh.Color)
}

func TestTransparency(t *testing.T) {
	c := reviewCollection()
	alpha, count := Transparency(c, 50)
	assert.Equal(t, float32(0.5), alpha)
	assert.Equal(t, 2, count)

	objs := c.MeshObjects()
	assert.Equal(t, "Transparent_IfcWall/W-01", objs[0].Mesh.MaterialName)
	// The fresh material gets the red base color.
	assert.Equal(t, [4]float32{0.8, 0.1, 0.1, 0.5}, objs[0].Mesh.Color)
	assert.True(t, objs[0].Mesh.AlphaBlend)
	// Existing material keeps its name and base color, only alpha moves.
	assert.Equal(t, "Concrete", objs[1].Mesh.MaterialName)
	assert.Equal(t, float32(0.7), objs[1].Mesh.Color[0])
	assert.Equal(t, float32(0.5), objs[1].Mesh.Color[3])
}

func TestTransparencyClamp(t *testing.T) {
	c := reviewCollection()
	alpha, _ := Transparency(c, 150)
	assert.Equal(t, float32(0), alpha)

	alpha, _ = Transparency(c, -20)
	assert.Equal(t, float32(1), alpha)
}
