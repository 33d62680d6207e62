// Package mesh implements the triangle-soup container used to assemble arena
// collision geometry.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrIndexOutOfRange reports an index buffer entry referencing a vertex
// outside the vertex buffer. Meshes built by this package never produce it;
// hitting it means the input buffers were malformed.
var ErrIndexOutOfRange = errors.New("mesh: triangle index out of range")

// Mesh is a triangle soup: a flat vertex buffer (3 floats per vertex) and a
// flat index buffer (3 ids per triangle).
type Mesh struct {
	Vertices []float32
	IDs      []int32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.IDs) / 3
}

// Transform returns a copy with every vertex run through the linear map.
// The index buffer carries topology and is copied untouched.
func (m *Mesh) Transform(mat mgl32.Mat3) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		IDs:      append([]int32(nil), m.IDs...),
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := mat.Mul3x1(mgl32.Vec3{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]})
		out.Vertices[i] = v.X()
		out.Vertices[i+1] = v.Y()
		out.Vertices[i+2] = v.Z()
	}
	return out
}

// Translate returns a copy with every vertex offset by dv.
func (m *Mesh) Translate(dv mgl32.Vec3) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		IDs:      append([]int32(nil), m.IDs...),
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		out.Vertices[i] = m.Vertices[i] + dv.X()
		out.Vertices[i+1] = m.Vertices[i+1] + dv.Y()
		out.Vertices[i+2] = m.Vertices[i+2] + dv.Z()
	}
	return out
}

// Merge concatenates meshes into one. Index entries are shifted by the
// running vertex count so they keep referencing their own vertices; input
// order is preserved.
func Merge(meshes ...*Mesh) *Mesh {
	var nv, ni int
	for _, src := range meshes {
		nv += len(src.Vertices)
		ni += len(src.IDs)
	}

	out := &Mesh{
		Vertices: make([]float32, 0, nv),
		IDs:      make([]int32, 0, ni),
	}
	for _, src := range meshes {
		offset := int32(out.VertexCount())
		for _, id := range src.IDs {
			out.IDs = append(out.IDs, id+offset)
		}
		out.Vertices = append(out.Vertices, src.Vertices...)
	}
	return out
}

// Triangles expands the index buffer against the vertex buffer into a flat
// triangle list.
func (m *Mesh) Triangles() ([]Triangle, error) {
	n := m.VertexCount()
	tris := make([]Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.IDs); i += 3 {
		var t Triangle
		for j := 0; j < 3; j++ {
			id := m.IDs[i+j]
			if id < 0 || int(id) >= n {
				return nil, fmt.Errorf("%w: id %d with %d vertices", ErrIndexOutOfRange, id, n)
			}
			t.Points[j] = mgl32.Vec3{m.Vertices[id*3], m.Vertices[id*3+1], m.Vertices[id*3+2]}
		}
		tris = append(tris, t)
	}
	return tris, nil
}
