package gltfio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuad(t *testing.T) {
	q := Quad(0, 0, 4, 2, 1.5)

	assert.Len(t, q.Positions, 4)
	assert.Len(t, q.Indices, 6)
	for _, p := range q.Positions {
		assert.Equal(t, float32(1.5), p[2])
	}

	normals := flatNormals(q.Positions, q.Indices)
	for _, n := range normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}
}

func TestPrism(t *testing.T) {
	p := Prism(0, 0, 2, 2, 0, 3)

	assert.Len(t, p.Positions, 8)
	assert.Len(t, p.Indices, 36)

	for _, idx := range p.Indices {
		assert.Less(t, int(idx), len(p.Positions))
	}

	bottom, top := 0, 0
	for _, pos := range p.Positions {
		switch pos[2] {
		case 0:
			bottom++
		case 3:
			top++
		}
	}
	assert.Equal(t, 4, bottom)
	assert.Equal(t, 4, top)
}
