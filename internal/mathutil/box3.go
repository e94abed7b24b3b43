package mathutil

import "math"

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Vec3
	Max Vec3
}

// EmptyBox returns a box ready to be extended: Min at +inf, Max at -inf.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to contain p.
func (b *Box3) Extend(p Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Empty reports whether the box has never been extended.
func (b Box3) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Center returns the box midpoint, or the zero vector for an empty box.
func (b Box3) Center() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return Mid(b.Min, b.Max)
}

// Size returns Max-Min per axis, or zero for an empty box.
func (b Box3) Size() Vec3 {
	if b.Empty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MinSeparation approximates the smallest distance between two boxes as the
// root sum of squares of the per-axis nearest-face gaps, counting only axes
// where the boxes do not overlap. Overlapping boxes yield 0.
func MinSeparation(a, b Box3) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			gap := math.Min(math.Abs(a.Max[i]-b.Min[i]), math.Abs(b.Max[i]-a.Min[i]))
			sum += gap * gap
		}
	}
	return math.Sqrt(sum)
}

// MaxSeparation is the root sum of squares of the per-axis farthest-face
// deltas between two boxes.
func MaxSeparation(a, b Box3) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := math.Max(math.Abs(a.Max[i]-b.Min[i]), math.Abs(b.Max[i]-a.Min[i]))
		sum += d * d
	}
	return math.Sqrt(sum)
}
