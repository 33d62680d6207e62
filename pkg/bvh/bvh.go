// Package bvh implements an immutable bounding-volume hierarchy over a
// triangle list, supporting the nearest-intersection and sphere-contact
// queries the ball simulator issues every step.
package bvh

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ballsim/pkg/mesh"
)

// ErrNoTriangles reports an attempt to build a tree from an empty triangle
// list. Arena construction treats this as a fatal geometry fault.
var ErrNoTriangles = errors.New("bvh: cannot build from an empty triangle list")

// node is one slot in the flat tree buffer. Internal nodes reference their
// two children by index; leaves reference exactly one triangle.
type node struct {
	box   aabb
	left  int32 // node index, -1 for leaves
	right int32
	tri   int32 // triangle index, -1 for internal nodes
}

// Tree is the spatial index over a triangle soup. Built once and immutable
// afterwards; queries are read-only and safe for concurrent use.
type Tree struct {
	nodes []node
	tris  []mesh.Triangle
	root  int32
}

// Build constructs a tree from a non-empty triangle list. Construction is
// deterministic for a given input ordering.
func Build(tris []mesh.Triangle) (*Tree, error) {
	if len(tris) == 0 {
		return nil, ErrNoTriangles
	}

	t := &Tree{
		tris:  append([]mesh.Triangle(nil), tris...),
		nodes: make([]node, 0, 2*len(tris)-1),
	}

	order := make([]int32, len(tris))
	centers := make([]mgl32.Vec3, len(tris))
	boxes := make([]aabb, len(tris))
	for i := range t.tris {
		order[i] = int32(i)
		centers[i] = t.tris[i].Center()
		boxes[i].min, boxes[i].max = t.tris[i].Bounds()
	}

	t.root = t.build(order, centers, boxes)
	return t, nil
}

// build partitions the triangle set recursively and appends the resulting
// subtree to the node buffer, returning its root index.
func (t *Tree) build(order []int32, centers []mgl32.Vec3, boxes []aabb) int32 {
	box := boxes[order[0]]
	for _, id := range order[1:] {
		box = box.union(boxes[id])
	}

	if len(order) == 1 {
		t.nodes = append(t.nodes, node{box: box, left: -1, right: -1, tri: order[0]})
		return int32(len(t.nodes) - 1)
	}

	// Split at the midpoint of the longest axis. The partition is stable, so
	// centroid ties keep their input order and rebuilds reproduce the tree.
	axis := box.longestAxis()
	mid := (box.min[axis] + box.max[axis]) / 2

	lo := make([]int32, 0, len(order))
	hi := make([]int32, 0, len(order))
	for _, id := range order {
		if centers[id][axis] < mid {
			lo = append(lo, id)
		} else {
			hi = append(hi, id)
		}
	}
	if len(lo) == 0 || len(hi) == 0 {
		// All centroids landed on one side; fall back to an even split by
		// count so recursion always terminates.
		half := len(order) / 2
		lo, hi = order[:half], order[half:]
	}

	left := t.build(lo, centers, boxes)
	right := t.build(hi, centers, boxes)
	t.nodes = append(t.nodes, node{box: box, left: left, right: right, tri: -1})
	return int32(len(t.nodes) - 1)
}

// Size returns the number of indexed triangles.
func (t *Tree) Size() int {
	return len(t.tris)
}

// Bounds returns the corners of the root bounding box.
func (t *Tree) Bounds() (min, max mgl32.Vec3) {
	root := t.nodes[t.root].box
	return root.min, root.max
}
