package gltfio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// ReadMeshData decodes every primitive of a mesh into one MeshData,
// concatenating vertex and index ranges. The material snapshot comes from
// the first primitive carrying one.
func ReadMeshData(doc *gltf.Document, mesh *gltf.Mesh) (*MeshData, error) {
	md := &MeshData{Color: [4]float32{1, 1, 1, 1}}

	for _, prim := range mesh.Primitives {
		base := uint32(len(md.Positions))

		positions, err := readPositions(doc, prim)
		if err != nil {
			return nil, fmt.Errorf("gltfio: mesh %q: %w", mesh.Name, err)
		}
		md.Positions = append(md.Positions, positions...)

		indices, err := readIndices(doc, prim)
		if err != nil {
			return nil, fmt.Errorf("gltfio: mesh %q: %w", mesh.Name, err)
		}
		for _, idx := range indices {
			md.Indices = append(md.Indices, base+idx)
		}

		if !md.HasMaterial && prim.Material != nil {
			mat := doc.Materials[int(*prim.Material)]
			md.HasMaterial = true
			md.MaterialName = mat.Name
			md.AlphaBlend = mat.AlphaMode == gltf.AlphaBlend
			if mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.BaseColorFactor != nil {
				md.Color = *mat.PBRMetallicRoughness.BaseColorFactor
			}
		}
	}

	if len(md.Positions) == 0 {
		return nil, fmt.Errorf("gltfio: mesh %q has no position data", mesh.Name)
	}
	return md, nil
}

func readPositions(doc *gltf.Document, prim *gltf.Primitive) ([][3]float32, error) {
	accIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no %s attribute", gltf.POSITION)
	}
	acc := doc.Accessors[int(accIdx)]
	if acc.BufferView == nil {
		return nil, fmt.Errorf("position accessor has no buffer view")
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported position component type %v", acc.ComponentType)
	}

	view := doc.BufferViews[int(*acc.BufferView)]
	data := viewData(doc, view)
	stride := int(view.ByteStride)
	if stride == 0 {
		stride = 12 // tightly packed vec3 of float32
	}

	count := int(acc.Count)
	out := make([][3]float32, count)
	for i := 0; i < count; i++ {
		off := i*stride + int(acc.ByteOffset)
		if off+12 > len(data) {
			return nil, fmt.Errorf("position accessor out of range")
		}
		out[i] = [3]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
		}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, prim *gltf.Primitive) ([]uint32, error) {
	if prim.Indices == nil {
		// Non-indexed triangles: synthesize 0..n-1.
		accIdx := prim.Attributes[gltf.POSITION]
		n := int(doc.Accessors[int(accIdx)].Count)
		out := make([]uint32, n)
		for i := range out {
			out[i] = uint32(i)
		}
		return out, nil
	}

	acc := doc.Accessors[int(*prim.Indices)]
	if acc.BufferView == nil {
		return nil, fmt.Errorf("index accessor has no buffer view")
	}
	view := doc.BufferViews[int(*acc.BufferView)]
	data := viewData(doc, view)

	count := int(acc.Count)
	out := make([]uint32, 0, count)
	switch acc.ComponentType {
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			off := i*2 + int(acc.ByteOffset)
			if off+2 > len(data) {
				return nil, fmt.Errorf("index accessor out of range")
			}
			out = append(out, uint32(binary.LittleEndian.Uint16(data[off:])))
		}
	case gltf.ComponentUint:
		for i := 0; i < count; i++ {
			off := i*4 + int(acc.ByteOffset)
			if off+4 > len(data) {
				return nil, fmt.Errorf("index accessor out of range")
			}
			out = append(out, binary.LittleEndian.Uint32(data[off:]))
		}
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			off := i + int(acc.ByteOffset)
			if off >= len(data) {
				return nil, fmt.Errorf("index accessor out of range")
			}
			out = append(out, uint32(data[off]))
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %v", acc.ComponentType)
	}
	return out, nil
}

func viewData(doc *gltf.Document, view *gltf.BufferView) []byte {
	buf := doc.Buffers[int(view.Buffer)]
	start := int(view.ByteOffset)
	end := start + int(view.ByteLength)
	if start > len(buf.Data) || end > len(buf.Data) {
		return nil
	}
	return buf.Data[start:end]
}

// NodeExtras returns the extras of a node as a generic map, tolerating the
// absent and non-object cases the decoder may produce.
func NodeExtras(node *gltf.Node) map[string]interface{} {
	if node.Extras == nil {
		return nil
	}
	if m, ok := node.Extras.(map[string]interface{}); ok {
		return m
	}
	return nil
}
