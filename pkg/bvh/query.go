package bvh

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ballsim/pkg/mesh"
)

// Hit describes the nearest triangle intersection along a query segment.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3 // winding normal of the hit triangle
	Distance float32    // along the segment from its start
	Triangle int        // index into the source triangle list
}

// Contact is the aggregate surface contact for a sphere overlap query.
type Contact struct {
	Point     mgl32.Vec3 // averaged closest point on the surface
	Normal    mgl32.Vec3 // penetration-weighted unit normal, surface to center
	Depth     float32    // deepest penetration
	Triangles int        // number of overlapping triangles
}

// IntersectSegment returns the closest triangle intersection along the
// segment from start to end. A zero-length segment yields no hit.
func (t *Tree) IntersectSegment(start, end mgl32.Vec3) (Hit, bool) {
	dir := end.Sub(start)
	length := float32(gomath.Sqrt(float64(dir.Dot(dir))))
	if length < 1e-7 {
		return Hit{}, false
	}

	bestT := float32(1)
	bestTri := int32(-1)

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[idx]
		if !n.box.hitSegment(start, dir, bestT) {
			continue
		}
		if n.tri >= 0 {
			if u, ok := intersectTriangle(&t.tris[n.tri], start, dir); ok && u <= bestT {
				bestT = u
				bestTri = n.tri
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}

	if bestTri < 0 {
		return Hit{}, false
	}
	tri := &t.tris[bestTri]
	return Hit{
		Point:    start.Add(dir.Mul(bestT)),
		Normal:   tri.Normal(),
		Distance: bestT * length,
		Triangle: int(bestTri),
	}, true
}

// CollideSphere aggregates the contact over every triangle whose surface
// lies within the sphere. A non-positive radius yields no contact.
func (t *Tree) CollideSphere(center mgl32.Vec3, radius float32) (Contact, bool) {
	if radius <= 0 {
		return Contact{}, false
	}
	r2 := radius * radius

	var (
		sumPoint  mgl32.Vec3
		sumNormal mgl32.Vec3
		deepest   float32
		count     int
	)

	stack := make([]int32, 0, 64)
	stack = append(stack, t.root)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[idx]
		if n.box.distanceSq(center) > r2 {
			continue
		}
		if n.tri < 0 {
			stack = append(stack, n.left, n.right)
			continue
		}

		tri := &t.tris[n.tri]
		cp := closestPointTriangle(center, tri)
		d := center.Sub(cp)
		distSq := d.Dot(d)
		if distSq >= r2 {
			continue
		}

		dist := float32(gomath.Sqrt(float64(distSq)))
		depth := radius - dist
		normal := tri.Normal()
		if dist > 1e-6 {
			normal = d.Mul(1 / dist)
		} else if normal == (mgl32.Vec3{}) {
			// Degenerate triangle with the center on it: nothing usable.
			continue
		}

		sumPoint = sumPoint.Add(cp)
		sumNormal = sumNormal.Add(normal.Mul(depth))
		if depth > deepest {
			deepest = depth
		}
		count++
	}

	if count == 0 {
		return Contact{}, false
	}
	l := float32(gomath.Sqrt(float64(sumNormal.Dot(sumNormal))))
	if l < 1e-8 {
		// Opposing normals cancelled out; treat as no usable contact.
		return Contact{}, false
	}
	return Contact{
		Point:     sumPoint.Mul(1 / float32(count)),
		Normal:    sumNormal.Mul(1 / l),
		Depth:     deepest,
		Triangles: count,
	}, true
}

// intersectTriangle runs the Möller-Trumbore test for the segment origin +
// t*dir, t in [0, 1]. Denominators are guarded so parallel or degenerate
// setups report a miss instead of dividing by zero.
func intersectTriangle(tri *mesh.Triangle, origin, dir mgl32.Vec3) (float32, bool) {
	e1 := tri.Points[1].Sub(tri.Points[0])
	e2 := tri.Points[2].Sub(tri.Points[0])

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -1e-9 && det < 1e-9 {
		return 0, false
	}
	inv := 1 / det

	s := origin.Sub(tri.Points[0])
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	w := e2.Dot(q) * inv
	if w < 0 || w > 1 {
		return 0, false
	}
	return w, true
}

// closestPointTriangle returns the point on the triangle closest to p,
// following the barycentric region walk from Ericson's Real-Time Collision
// Detection. Degenerate triangles collapse to their first vertex.
func closestPointTriangle(p mgl32.Vec3, tri *mesh.Triangle) mgl32.Vec3 {
	a, b, c := tri.Points[0], tri.Points[1], tri.Points[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		denom := d1 - d3
		if denom <= 0 {
			return a
		}
		return a.Add(ab.Mul(d1 / denom))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		denom := d2 - d6
		if denom <= 0 {
			return a
		}
		return a.Add(ac.Mul(d2 / denom))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		denom := (d4 - d3) + (d5 - d6)
		if denom <= 0 {
			return b
		}
		return b.Add(c.Sub(b).Mul((d4 - d3) / denom))
	}

	denom := va + vb + vc
	if denom <= 1e-12 {
		return a
	}
	inv := 1 / denom
	return a.Add(ab.Mul(vb * inv)).Add(ac.Mul(vc * inv))
}
