// Package field assembles per-mode arena collision geometry from primitive
// panels and wraps it in the immutable Arena shared by prediction runs.
package field

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ballsim/pkg/bvh"
	"github.com/Faultbox/ballsim/pkg/mesh"
)

// Mode identifies an arena variant.
type Mode int

// Supported arena variants.
const (
	Standard Mode = iota
	Hoops
	Dropshot
	Throwback
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Standard:
		return "standard"
	case Hoops:
		return "hoops"
	case Dropshot:
		return "dropshot"
	case Throwback:
		return "throwback"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "hoops":
		return Hoops, nil
	case "dropshot":
		return Dropshot, nil
	case "throwback":
		return Throwback, nil
	default:
		return 0, fmt.Errorf("field: unknown arena mode %q", s)
	}
}

// Ball radii per mode, in arena units. The dropshot ball is larger.
const (
	standardBallRadius  = 91.25
	hoopsBallRadius     = 91.25
	dropshotBallRadius  = 100.45
	throwbackBallRadius = 91.25
)

// Arena pairs a mode's collision index with the scalar constants collision
// response needs. Immutable once built; safe to share across concurrent
// prediction runs.
type Arena struct {
	Mode       Mode
	Collider   *bvh.Tree
	BallRadius float32
}

// quad builds a two-triangle rectangular panel centered at p and spanned by
// the half-extent edge vectors e1 and e2.
func quad(p, e1, e2 mgl32.Vec3) *mesh.Mesh {
	corners := [4]mgl32.Vec3{
		p.Add(e1).Add(e2),
		p.Sub(e1).Add(e2),
		p.Sub(e1).Sub(e2),
		p.Add(e1).Sub(e2),
	}

	m := &mesh.Mesh{
		Vertices: make([]float32, 0, 12),
		IDs:      []int32{0, 1, 3, 1, 2, 3},
	}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, c.X(), c.Y(), c.Z())
	}
	return m
}

// newArena expands the composite mesh and indexes it.
func newArena(mode Mode, radius float32, m *mesh.Mesh) (*Arena, error) {
	tris, err := m.Triangles()
	if err != nil {
		return nil, fmt.Errorf("%s arena: %w", mode, err)
	}
	tree, err := bvh.Build(tris)
	if err != nil {
		return nil, fmt.Errorf("%s arena: %w", mode, err)
	}
	return &Arena{Mode: mode, Collider: tree, BallRadius: radius}, nil
}
