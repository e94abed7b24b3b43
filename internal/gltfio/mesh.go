// Package gltfio reads and writes the glb files the toolkit exchanges:
// scene snapshots, per-storey geometry batches and analysis overlays.
package gltfio

import "math"

// MeshData is the decoded geometry payload of one mesh object.
// Positions are local to the owning node.
type MeshData struct {
	Positions [][3]float32
	Indices   []uint32

	// Material snapshot. Color is the PBR base color factor; HasMaterial
	// records whether the source primitive carried a material at all.
	Color        [4]float32
	HasMaterial  bool
	MaterialName string
	AlphaBlend   bool
}

// Quad returns a single horizontal rectangle at height z.
func Quad(minX, minY, maxX, maxY, z float64) *MeshData {
	return &MeshData{
		Positions: [][3]float32{
			{float32(minX), float32(minY), float32(z)},
			{float32(maxX), float32(minY), float32(z)},
			{float32(maxX), float32(maxY), float32(z)},
			{float32(minX), float32(maxY), float32(z)},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Prism returns an axis-aligned box between heights z0 and z1.
func Prism(minX, minY, maxX, maxY, z0, z1 float64) *MeshData {
	x1, y1 := float32(minX), float32(minY)
	x2, y2 := float32(maxX), float32(maxY)
	b, t := float32(z0), float32(z1)
	return &MeshData{
		Positions: [][3]float32{
			{x1, y1, b}, {x2, y1, b}, {x2, y2, b}, {x1, y2, b},
			{x1, y1, t}, {x2, y1, t}, {x2, y2, t}, {x1, y2, t},
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // bottom
			4, 5, 6, 4, 6, 7, // top
			0, 1, 5, 0, 5, 4,
			1, 2, 6, 1, 6, 5,
			2, 3, 7, 2, 7, 6,
			3, 0, 4, 3, 4, 7,
		},
	}
}

// flatNormals computes one face normal per triangle, assigned to each of
// its vertices. Shared vertices keep the normal of the last face touching
// them, which is fine for the flat-shaded overlays built here.
func flatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		v0, v1, v2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := positions[v0], positions[v1], positions[v2]
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
		if l > 0 {
			n[0] /= l
			n[1] /= l
			n[2] /= l
		}
		normals[v0] = n
		normals[v1] = n
		normals[v2] = n
	}
	return normals
}
