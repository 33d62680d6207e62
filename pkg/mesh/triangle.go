package mesh

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is one collision triangle in arena-local coordinates.
type Triangle struct {
	Points [3]mgl32.Vec3
}

// Normal returns the unit normal implied by the winding order, or the zero
// vector for a degenerate triangle.
func (t *Triangle) Normal() mgl32.Vec3 {
	e1 := t.Points[1].Sub(t.Points[0])
	e2 := t.Points[2].Sub(t.Points[0])
	n := e1.Cross(e2)
	l := float32(gomath.Sqrt(float64(n.Dot(n))))
	if l < 1e-8 {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

// Center returns the centroid.
func (t *Triangle) Center() mgl32.Vec3 {
	return t.Points[0].Add(t.Points[1]).Add(t.Points[2]).Mul(1.0 / 3.0)
}

// Bounds returns the corners of the axis-aligned bounding box.
func (t *Triangle) Bounds() (min, max mgl32.Vec3) {
	min = t.Points[0]
	max = t.Points[0]
	for _, p := range t.Points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}
