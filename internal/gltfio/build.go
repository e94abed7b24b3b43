package gltfio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"bim-tools/internal/mathutil"
)

// Builder assembles a glb document incrementally: group nodes for
// collections, mesh nodes for geometry, empty nodes for reference points.
// Materials with the same color/alpha/name are shared.
type Builder struct {
	doc       *gltf.Document
	materials map[materialKey]uint32
}

type materialKey struct {
	color [4]float32
	blend bool
	name  string
}

// NewBuilder returns a Builder for a fresh single-scene document.
func NewBuilder(generator string) *Builder {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	return &Builder{
		doc:       doc,
		materials: make(map[materialKey]uint32),
	}
}

// Doc exposes the document under construction.
func (b *Builder) Doc() *gltf.Document { return b.doc }

// AddGroup appends a container node. parent < 0 places it at scene root.
func (b *Builder) AddGroup(parent int, name string) int {
	return b.addNode(parent, &gltf.Node{
		Name:   name,
		Extras: map[string]interface{}{"collection": true},
	})
}

// AddEmpty appends a mesh-less reference node.
func (b *Builder) AddEmpty(parent int, name string, at mathutil.Vec3, extras map[string]interface{}) int {
	return b.addNode(parent, &gltf.Node{
		Name:        name,
		Translation: translation(at),
		Extras:      extras,
	})
}

// AddMesh appends a node carrying md as a single-primitive mesh.
func (b *Builder) AddMesh(parent int, name string, at mathutil.Vec3, md *MeshData, extras map[string]interface{}) int {
	positions := md.Positions
	indices := md.Indices

	posAccessor := modeler.WritePosition(b.doc, positions)
	normalAccessor := modeler.WriteNormal(b.doc, flatNormals(positions, indices))
	indicesAccessor := modeler.WriteIndices(b.doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
		},
		Indices: gltf.Index(uint32(indicesAccessor)),
	}
	if md.HasMaterial {
		prim.Material = gltf.Index(b.material(md))
	}

	mesh := &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}}
	meshIdx := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, mesh)

	return b.addNode(parent, &gltf.Node{
		Name:        name,
		Mesh:        gltf.Index(meshIdx),
		Translation: translation(at),
		Extras:      extras,
	})
}

// translation narrows a world position to the float32 node transform.
func translation(at mathutil.Vec3) [3]float32 {
	return [3]float32{float32(at[0]), float32(at[1]), float32(at[2])}
}

// Save writes the document as binary glTF.
func (b *Builder) Save(path string) error {
	if err := gltf.SaveBinary(b.doc, path); err != nil {
		return fmt.Errorf("gltfio: save %s: %w", path, err)
	}
	return nil
}

func (b *Builder) addNode(parent int, node *gltf.Node) int {
	idx := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, node)
	if parent < 0 {
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, idx)
	} else {
		b.doc.Nodes[parent].Children = append(b.doc.Nodes[parent].Children, idx)
	}
	return int(idx)
}

func (b *Builder) material(md *MeshData) uint32 {
	key := materialKey{color: md.Color, blend: md.AlphaBlend, name: md.MaterialName}
	if idx, ok := b.materials[key]; ok {
		return idx
	}

	color := md.Color
	mat := &gltf.Material{
		Name: md.MaterialName,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(0.5),
		},
	}
	if md.AlphaBlend || color[3] < 1 {
		mat.AlphaMode = gltf.AlphaBlend
	} else {
		mat.AlphaMode = gltf.AlphaOpaque
	}

	idx := uint32(len(b.doc.Materials))
	b.doc.Materials = append(b.doc.Materials, mat)
	b.materials[key] = idx
	return idx
}
