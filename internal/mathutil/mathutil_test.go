package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 8}

	assert.Equal(t, Vec3{5, 8, 11}, a.Add(b))
	assert.Equal(t, Vec3{3, 4, 5}, b.Sub(a))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, Vec3{1, 2, 3}, Vec3{-1, 2, -3}.Abs())
	assert.InDelta(t, 7.0710678, b.Sub(a).Len(), 1e-6)
	assert.InDelta(t, 7.0710678, Distance(a, b), 1e-6)
	assert.Equal(t, Vec3{2.5, 4, 5.5}, Mid(a, b))
}

func TestBoxExtend(t *testing.T) {
	box := EmptyBox()
	assert.True(t, box.Empty())
	assert.Equal(t, Vec3{}, box.Center())
	assert.Equal(t, Vec3{}, box.Size())

	box.Extend(Vec3{1, -2, 3})
	box.Extend(Vec3{-1, 4, 0})

	assert.False(t, box.Empty())
	assert.Equal(t, Vec3{-1, -2, 0}, box.Min)
	assert.Equal(t, Vec3{1, 4, 3}, box.Max)
	assert.Equal(t, Vec3{0, 1, 1.5}, box.Center())
	assert.Equal(t, Vec3{2, 6, 3}, box.Size())
}

func TestBoxSeparation(t *testing.T) {
	a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 10}}

	// Disjoint only on X with a 5 m gap.
	b := Box3{Min: Vec3{15, 0, 0}, Max: Vec3{25, 10, 10}}
	assert.InDelta(t, 5.0, MinSeparation(a, b), 1e-9)

	// Overlapping boxes have zero minimum separation.
	c := Box3{Min: Vec3{5, 5, 5}, Max: Vec3{12, 12, 12}}
	assert.Equal(t, 0.0, MinSeparation(a, c))

	// Gap on two axes combines by root sum of squares: sqrt(3^2+4^2)=5.
	d := Box3{Min: Vec3{13, 14, 0}, Max: Vec3{20, 20, 10}}
	assert.InDelta(t, 5.0, MinSeparation(a, d), 1e-9)

	// Max separation of b against a: farthest faces are 25 on X, 10 on Y/Z.
	assert.InDelta(t, 28.722813, MaxSeparation(a, b), 1e-6)
}
