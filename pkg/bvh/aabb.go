package bvh

import "github.com/go-gl/mathgl/mgl32"

// aabb is an axis-aligned bounding box.
type aabb struct {
	min, max mgl32.Vec3
}

func (b aabb) union(other aabb) aabb {
	out := b
	for i := 0; i < 3; i++ {
		if other.min[i] < out.min[i] {
			out.min[i] = other.min[i]
		}
		if other.max[i] > out.max[i] {
			out.max[i] = other.max[i]
		}
	}
	return out
}

func (b aabb) longestAxis() int {
	ext := b.max.Sub(b.min)
	axis := 0
	if ext[1] > ext[axis] {
		axis = 1
	}
	if ext[2] > ext[axis] {
		axis = 2
	}
	return axis
}

// distanceSq returns the squared distance from p to the box, zero inside.
func (b aabb) distanceSq(p mgl32.Vec3) float32 {
	var d float32
	for i := 0; i < 3; i++ {
		if p[i] < b.min[i] {
			d += (b.min[i] - p[i]) * (b.min[i] - p[i])
		} else if p[i] > b.max[i] {
			d += (p[i] - b.max[i]) * (p[i] - b.max[i])
		}
	}
	return d
}

// hitSegment reports whether the segment start + t*dir, t in [0, tmax],
// passes through the box. dir spans the full segment, so t is a fraction.
func (b aabb) hitSegment(start, dir mgl32.Vec3, tmax float32) bool {
	t0, t1 := float32(0), tmax
	for i := 0; i < 3; i++ {
		d := dir[i]
		if d > -1e-9 && d < 1e-9 {
			if start[i] < b.min[i] || start[i] > b.max[i] {
				return false
			}
			continue
		}
		inv := 1 / d
		near := (b.min[i] - start[i]) * inv
		far := (b.max[i] - start[i]) * inv
		if near > far {
			near, far = far, near
		}
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
		if t0 > t1 {
			return false
		}
	}
	return true
}
