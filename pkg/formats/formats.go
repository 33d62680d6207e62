// Package formats loads collision panel meshes from their binary files.
//
// A panel mesh is stored as two little-endian files: a vertex file holding
// float32 triples (x, y, z per vertex) and an index file holding int32
// triples (one triangle per triple, counter-clockwise winding).
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Faultbox/ballsim/pkg/mesh"
)

// Panel mesh format errors.
var (
	ErrTruncatedVertexData = errors.New("vertex data is not a whole number of xyz triples")
	ErrTruncatedIndexData  = errors.New("index data is not a whole number of triangles")
	ErrIndexOutOfRange     = errors.New("triangle index outside the vertex table")
)

// vertexStride and indexStride are the bytes per vertex and per triangle.
const (
	vertexStride = 12 // 3 x float32
	indexStride  = 12 // 3 x int32
)

// ParseVertices decodes a vertex file into a flat xyz coordinate slice.
func ParseVertices(data []byte) ([]float32, error) {
	if len(data)%vertexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedVertexData, len(data))
	}

	vertices := make([]float32, 0, len(data)/4)
	for off := 0; off < len(data); off += 4 {
		bits := binary.LittleEndian.Uint32(data[off:])
		vertices = append(vertices, math.Float32frombits(bits))
	}
	return vertices, nil
}

// ParseIDs decodes an index file into a flat triangle index slice.
func ParseIDs(data []byte) ([]int32, error) {
	if len(data)%indexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedIndexData, len(data))
	}

	ids := make([]int32, 0, len(data)/4)
	for off := 0; off < len(data); off += 4 {
		ids = append(ids, int32(binary.LittleEndian.Uint32(data[off:])))
	}
	return ids, nil
}

// ParseMesh decodes a vertex file and an index file into a mesh, checking
// that every index points inside the vertex table.
func ParseMesh(vertexData, idData []byte) (*mesh.Mesh, error) {
	vertices, err := ParseVertices(vertexData)
	if err != nil {
		return nil, err
	}
	ids, err := ParseIDs(idData)
	if err != nil {
		return nil, err
	}

	vertexCount := int32(len(vertices) / 3)
	for i, id := range ids {
		if id < 0 || id >= vertexCount {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices",
				ErrIndexOutOfRange, id, i, vertexCount)
		}
	}

	return &mesh.Mesh{Vertices: vertices, IDs: ids}, nil
}

// ReadMesh loads a panel mesh from its vertex and index files.
func ReadMesh(vertexPath, idPath string) (*mesh.Mesh, error) {
	vertexData, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("read vertex file: %w", err)
	}
	idData, err := os.ReadFile(idPath)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}

	m, err := ParseMesh(vertexData, idData)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", vertexPath, err)
	}
	return m, nil
}
