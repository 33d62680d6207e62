package field

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ballsim/pkg/linalg"
	"github.com/Faultbox/ballsim/pkg/mesh"
)

// BuildStandard assembles the standard soccer arena from its pre-loaded
// panel meshes: one corner section, one goal, and the two ramp strips. The
// corner is mirrored into all four quadrants and the goal into both ends.
func BuildStandard(corner, goal, rampsA, rampsB *mesh.Mesh) (*Arena, error) {
	flipX := linalg.FlipX()
	flipY := linalg.FlipY()

	floor := quad(mgl32.Vec3{}, mgl32.Vec3{4096, 0, 0}, mgl32.Vec3{0, 5120, 0})
	ceiling := quad(mgl32.Vec3{0, 0, 2048}, mgl32.Vec3{-4096, 0, 0}, mgl32.Vec3{0, 5120, 0})
	sideWallPos := quad(mgl32.Vec3{4096, 0, 1024}, mgl32.Vec3{0, -5120, 0}, mgl32.Vec3{0, 0, 1024})
	sideWallNeg := quad(mgl32.Vec3{-4096, 0, 1024}, mgl32.Vec3{0, 5120, 0}, mgl32.Vec3{0, 0, 1024})

	backGoal := goal.Translate(mgl32.Vec3{0, -5120, 0})

	composite := mesh.Merge(
		corner,
		corner.Transform(flipX),
		corner.Transform(flipY),
		corner.Transform(linalg.Combine(flipX, flipY)),
		backGoal,
		backGoal.Transform(flipY),
		rampsA,
		rampsA.Transform(flipX),
		rampsB,
		rampsB.Transform(flipX),
		floor,
		ceiling,
		sideWallPos,
		sideWallNeg,
	)
	return newArena(Standard, standardBallRadius, composite)
}

// BuildHoops assembles the hoops arena. The net and rim arrive modeled for
// one basket; they are scaled, pushed out to the baseline, and mirrored to
// the other end.
func BuildHoops(corner, net, rim, rampsA, rampsB *mesh.Mesh) (*Arena, error) {
	const (
		scale   = 0.9
		yOffset = 431.664
	)

	flipX := linalg.FlipX()
	flipY := linalg.FlipY()
	s := linalg.Scaling(scale)
	dy := mgl32.Vec3{0, yOffset, 0}

	basketNet := net.Transform(s).Translate(dy)
	basketRim := rim.Transform(s).Translate(dy)

	floor := quad(mgl32.Vec3{}, mgl32.Vec3{2966, 0, 0}, mgl32.Vec3{0, 3581, 0})
	ceiling := quad(mgl32.Vec3{0, 0, 1820}, mgl32.Vec3{-2966, 0, 0}, mgl32.Vec3{0, 3581, 0})
	sideWallPos := quad(mgl32.Vec3{2966, 0, 910}, mgl32.Vec3{0, -3581, 0}, mgl32.Vec3{0, 0, 910})
	sideWallNeg := quad(mgl32.Vec3{-2966, 0, 910}, mgl32.Vec3{0, 3581, 0}, mgl32.Vec3{0, 0, 910})
	backWallPos := quad(mgl32.Vec3{0, 0, 1024}, mgl32.Vec3{0, -5120, 0}, mgl32.Vec3{0, 0, 1024})
	backWallNeg := quad(mgl32.Vec3{0, 0, 1024}, mgl32.Vec3{0, 5120, 0}, mgl32.Vec3{0, 0, 1024})

	composite := mesh.Merge(
		corner,
		corner.Transform(flipX),
		corner.Transform(flipY),
		corner.Transform(linalg.Combine(flipX, flipY)),
		basketNet,
		basketNet.Transform(flipY),
		basketRim,
		basketRim.Transform(flipY),
		rampsA,
		rampsA.Transform(flipX),
		rampsB,
		rampsB.Transform(flipY),
		floor,
		ceiling,
		sideWallPos,
		sideWallNeg,
		backWallPos,
		backWallNeg,
	)
	return newArena(Hoops, hoopsBallRadius, composite)
}

// BuildDropshot assembles the dropshot arena: the hexagonal tile platform
// mesh rotated into place plus six walls swept around the perimeter.
func BuildDropshot(platform *mesh.Mesh) (*Arena, error) {
	const (
		scale   = 0.393
		zOffset = -207.565
	)

	q := linalg.AxisRotation(mgl32.Vec3{0, 0, float32(gomath.Pi / 6)})
	s := linalg.Scaling(scale)
	dz := mgl32.Vec3{0, 0, zOffset}

	floor := quad(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{10000, 0, 0}, mgl32.Vec3{0, 7000, 0})
	ceiling := quad(mgl32.Vec3{0, 0, 2020}, mgl32.Vec3{-10000, 0, 0}, mgl32.Vec3{0, 7000, 0})

	panels := []*mesh.Mesh{platform.Transform(linalg.Combine(q, s)).Translate(dz), floor, ceiling}

	// Six walls, each rotated a further 60 degrees around Z.
	r := linalg.AxisRotation(mgl32.Vec3{0, 0, float32(gomath.Pi / 3)})
	p := mgl32.Vec3{0, 11683.6 * scale, 2768.64*scale - zOffset}
	x := mgl32.Vec3{5000, 0, 0}
	z := mgl32.Vec3{0, 0, 1010}
	for i := 0; i < 6; i++ {
		panels = append(panels, quad(p, x, z))
		p = linalg.Apply(r, p)
		x = linalg.Apply(r, x)
	}

	return newArena(Dropshot, dropshotBallRadius, mesh.Merge(panels...))
}

// ThrowbackPanels bundles the panel meshes of the throwback arena.
type ThrowbackPanels struct {
	BackRampsLower   *mesh.Mesh
	BackRampsUpper   *mesh.Mesh
	CornerRampsLower *mesh.Mesh
	CornerRampsUpper *mesh.Mesh
	CornerWallA      *mesh.Mesh
	CornerWallB      *mesh.Mesh
	CornerWallC      *mesh.Mesh
	Goal             *mesh.Mesh
	SideRampsLower   *mesh.Mesh
	SideRampsUpper   *mesh.Mesh
}

// BuildThrowback assembles the throwback arena. Its panels are authored at
// 1/100 scale; corner pieces are mirrored into all four quadrants, side and
// back pieces into their two halves.
func BuildThrowback(panels ThrowbackPanels) (*Arena, error) {
	const scale = 100.0

	flipX := linalg.FlipX()
	flipY := linalg.FlipY()
	s := linalg.Scaling(scale)

	floor := quad(mgl32.Vec3{}, mgl32.Vec3{4096.6, 0, 0}, mgl32.Vec3{0, 6910, 0})
	ceiling := quad(mgl32.Vec3{0, 0, 2048}, mgl32.Vec3{-4096.6, 0, 0}, mgl32.Vec3{0, 6910, 0})
	sideWallPos := quad(mgl32.Vec3{4096.6, 0, 1024}, mgl32.Vec3{0, -6910, 0}, mgl32.Vec3{0, 0, 1024})
	sideWallNeg := quad(mgl32.Vec3{-4096.6, 0, 1024}, mgl32.Vec3{0, 6910, 0}, mgl32.Vec3{0, 0, 1024})
	backWallPos := quad(mgl32.Vec3{0, 6910, 1024}, mgl32.Vec3{4096, 0, 0}, mgl32.Vec3{0, 0, 1024})
	backWallNeg := quad(mgl32.Vec3{0, -6910, 1024}, mgl32.Vec3{-4096, 0, 0}, mgl32.Vec3{0, 0, 1024})

	goal := panels.Goal.Transform(s)
	sideRampsLower := panels.SideRampsLower.Transform(s)
	sideRampsUpper := panels.SideRampsUpper.Transform(s)
	backRampsLower := panels.BackRampsLower.Transform(s)
	backRampsUpper := panels.BackRampsUpper.Transform(s)
	cornerRampsLower := panels.CornerRampsLower.Transform(s)
	cornerRampsUpper := panels.CornerRampsUpper.Transform(s)
	cornerWallA := panels.CornerWallA.Transform(s)
	cornerWallB := panels.CornerWallB.Transform(s)
	cornerWallC := panels.CornerWallC.Transform(s)

	mirror4 := func(m *mesh.Mesh) []*mesh.Mesh {
		return []*mesh.Mesh{
			m,
			m.Transform(flipX),
			m.Transform(flipY),
			m.Transform(flipY).Transform(flipX),
		}
	}

	var parts []*mesh.Mesh
	parts = append(parts, mirror4(cornerRampsLower)...)
	parts = append(parts, mirror4(cornerRampsUpper)...)
	parts = append(parts, goal, goal.Transform(flipY))
	parts = append(parts, sideRampsLower, sideRampsLower.Transform(flipX))
	parts = append(parts, sideRampsUpper, sideRampsUpper.Transform(flipX))
	parts = append(parts, backRampsLower, backRampsLower.Transform(flipY))
	parts = append(parts, backRampsUpper, backRampsUpper.Transform(flipY))
	parts = append(parts, mirror4(cornerWallA)...)
	parts = append(parts, mirror4(cornerWallB)...)
	parts = append(parts, mirror4(cornerWallC)...)
	parts = append(parts, floor, ceiling, sideWallPos, sideWallNeg, backWallPos, backWallNeg)

	return newArena(Throwback, throwbackBallRadius, mesh.Merge(parts...))
}
