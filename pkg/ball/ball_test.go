package ball

import (
	"errors"
	gomath "math"
	"reflect"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/ballsim/pkg/bvh"
	"github.com/Faultbox/ballsim/pkg/field"
	"github.com/Faultbox/ballsim/pkg/mesh"
)

// testArena builds an arena from a single rectangular panel.
func testArena(t *testing.T, vertices []float32) *field.Arena {
	t.Helper()
	m := &mesh.Mesh{Vertices: vertices, IDs: []int32{0, 1, 3, 1, 2, 3}}
	tris, err := m.Triangles()
	if err != nil {
		t.Fatalf("panel mesh: %v", err)
	}
	tree, err := bvh.Build(tris)
	if err != nil {
		t.Fatalf("bvh build: %v", err)
	}
	return &field.Arena{Mode: field.Standard, Collider: tree, BallRadius: 91.25}
}

func floorArena(t *testing.T) *field.Arena {
	t.Helper()
	return testArena(t, []float32{
		-10000, -10000, 0,
		10000, -10000, 0,
		10000, 10000, 0,
		-10000, 10000, 0,
	})
}

func wallArena(t *testing.T) *field.Arena {
	t.Helper()
	return testArena(t, []float32{
		500, -5000, -5000,
		500, 5000, -5000,
		500, 5000, 5000,
		500, -5000, 5000,
	})
}

// wedgeArena builds two panels meeting along the Y axis, each tilted
// halfAngle radians off the Z axis, forming a V that opens upward.
func wedgeArena(t *testing.T, halfAngle float64) *field.Arena {
	t.Helper()
	const l = 2000
	sin := float32(gomath.Sin(halfAngle))
	cos := float32(gomath.Cos(halfAngle))

	a := &mesh.Mesh{
		Vertices: []float32{
			0, -l, 0,
			0, l, 0,
			l * sin, l, l * cos,
			l * sin, -l, l * cos,
		},
		IDs: []int32{0, 1, 3, 1, 2, 3},
	}
	b := &mesh.Mesh{
		Vertices: []float32{
			0, -l, 0,
			0, l, 0,
			-l * sin, l, l * cos,
			-l * sin, -l, l * cos,
		},
		IDs: []int32{0, 1, 3, 1, 2, 3},
	}

	tris, err := mesh.Merge(a, b).Triangles()
	if err != nil {
		t.Fatalf("wedge mesh: %v", err)
	}
	tree, err := bvh.Build(tris)
	if err != nil {
		t.Fatalf("bvh build: %v", err)
	}
	return &field.Arena{Mode: field.Standard, Collider: tree, BallRadius: 91.25}
}

func TestWedgeResolvedWithinStep(t *testing.T) {
	// In a 90 degree wedge a ball near the apex touches both panels.
	// Pushing it out along the first aggregate normal still leaves it
	// inside one panel, so the step needs a second resolution pass;
	// afterwards the ball must be clear of the surface with no warning.
	arena := wedgeArena(t, gomath.Pi/4)
	core, logs := observer.New(zap.WarnLevel)
	sim, err := NewSimulator(arena, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewSimulator error: %v", err)
	}

	st := State{Location: mgl32.Vec3{0, 0, 45}, Velocity: mgl32.Vec3{0, 0, -200}}
	if _, ok := arena.Collider.CollideSphere(st.Location, arena.BallRadius); !ok {
		t.Fatal("ball does not start in contact with the wedge")
	}

	sim.Step(&st)

	if logs.Len() != 0 {
		t.Errorf("unexpected warning during a resolvable step: %v", logs.All())
	}
	if c, ok := arena.Collider.CollideSphere(st.Location, arena.BallRadius); ok && c.Depth > 1e-3 {
		t.Errorf("residual penetration %f after a resolvable step", c.Depth)
	}
	if st.Location.Z() <= 45 {
		t.Errorf("ball not pushed out of the wedge: z=%f", st.Location.Z())
	}
}

func TestWedgeResolutionCap(t *testing.T) {
	// A 20 degree wedge cannot be escaped in three push-outs from deep
	// inside the apex: each pass moves the ball about one radius up the
	// bisector but clearance needs r/sin(10 deg) of travel. The step must
	// warn, keep the best correction, and still advance time.
	arena := wedgeArena(t, gomath.Pi/18)
	core, logs := observer.New(zap.WarnLevel)
	sim, err := NewSimulator(arena, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("NewSimulator error: %v", err)
	}

	st := State{Location: mgl32.Vec3{0, 0, 45}, Velocity: mgl32.Vec3{0, 0, -200}}
	before, ok := arena.Collider.CollideSphere(st.Location, arena.BallRadius)
	if !ok {
		t.Fatal("ball does not start in contact with the wedge")
	}

	sim.Step(&st)

	warnings := logs.FilterMessage("collision resolution cap reached, accepting residual penetration")
	if warnings.Len() != 1 {
		t.Fatalf("expected one resolution cap warning, got %d: %v", logs.Len(), logs.All())
	}

	after, ok := arena.Collider.CollideSphere(st.Location, arena.BallRadius)
	if !ok {
		t.Fatal("warning emitted but no residual contact found")
	}
	if after.Depth >= before.Depth {
		t.Errorf("penetration did not shrink: before %f, after %f", before.Depth, after.Depth)
	}
	if after.Depth >= arena.BallRadius {
		t.Errorf("residual penetration %f not bounded by the ball radius", after.Depth)
	}
	if st.Time != sim.Timestep() {
		t.Errorf("step did not complete: time %f, want %f", st.Time, sim.Timestep())
	}
}

func TestDropBounceDecay(t *testing.T) {
	arena := floorArena(t)
	initial := State{Location: mgl32.Vec3{0, 0, 1900}}

	states, err := Predict(arena, initial)
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}

	// Falling: height strictly decreases until the first bounce.
	firstBounce := -1
	for i, st := range states {
		if st.Velocity.Z() > 0 {
			firstBounce = i
			break
		}
		if i > 0 && st.Location.Z() >= states[i-1].Location.Z() {
			t.Fatalf("height not decreasing during free fall at step %d: %f -> %f",
				i, states[i-1].Location.Z(), st.Location.Z())
		}
	}
	if firstBounce < 0 {
		t.Fatal("ball never bounced within the prediction horizon")
	}

	// The floor must hold: no tunneling below the contact height.
	for i, st := range states {
		if st.Location.Z() < arena.BallRadius-5 {
			t.Fatalf("ball below the floor at step %d: z=%f", i, st.Location.Z())
		}
	}

	// Bounce peaks decay: every local maximum is lower than the previous.
	prevPeak := initial.Location.Z()
	for i := 1; i < len(states)-1; i++ {
		z := states[i].Location.Z()
		if z > states[i-1].Location.Z() && z >= states[i+1].Location.Z() {
			if z >= prevPeak {
				t.Fatalf("bounce peak %f at step %d not below previous peak %f", z, i, prevPeak)
			}
			prevPeak = z
		}
	}
	if prevPeak >= initial.Location.Z() {
		t.Error("no damped bounce observed after the first impact")
	}
}

func TestNoTunnelingThroughWall(t *testing.T) {
	arena := wallArena(t)
	sim, err := NewSimulator(arena, WithTimestep(0.05))
	if err != nil {
		t.Fatalf("NewSimulator error: %v", err)
	}
	if sim.Timestep() != 0.05 {
		t.Fatalf("Timestep() = %f, want 0.05", sim.Timestep())
	}

	st := State{Location: mgl32.Vec3{0, 0, 100}, Velocity: mgl32.Vec3{3900, 0, 0}}
	// One step moves the center 195 units, more than twice the radius.
	for i := 0; i < 10; i++ {
		sim.Step(&st)
		if st.Location.X() > 500 {
			t.Fatalf("ball tunneled through the wall at step %d: x=%f", i, st.Location.X())
		}
	}
	if st.Velocity.X() >= 0 {
		t.Errorf("wall did not reflect the ball, vx=%f", st.Velocity.X())
	}
}

func TestBounceFrictionAndSpin(t *testing.T) {
	arena := floorArena(t)
	sim, err := NewSimulator(arena)
	if err != nil {
		t.Fatalf("NewSimulator error: %v", err)
	}

	st := State{Location: mgl32.Vec3{0, 0, 300}, Velocity: mgl32.Vec3{1000, 0, -1200}}
	for i := 0; i < 240 && st.Velocity.Z() <= 0; i++ {
		sim.Step(&st)
	}

	if st.Velocity.Z() <= 0 {
		t.Fatal("ball never bounced")
	}
	if vx := st.Velocity.X(); vx >= 1000 || vx <= 0 {
		t.Errorf("tangential velocity after bounce = %f, want damped but forward", vx)
	}
	if spin := st.AngularVelocity; spin == (mgl32.Vec3{}) {
		t.Error("bounce with tangential slip produced no spin")
	}
}

func TestPredictionDeterminism(t *testing.T) {
	arena := floorArena(t)
	initial := State{
		Location:        mgl32.Vec3{100, -200, 1500},
		Velocity:        mgl32.Vec3{300, 150, -20},
		AngularVelocity: mgl32.Vec3{0.5, -1, 2},
	}

	a, err := Predict(arena, initial)
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}
	b, err := Predict(arena, initial)
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("two predictions from the same state differ")
	}
}

func TestPredictDoesNotMutateInitial(t *testing.T) {
	arena := floorArena(t)
	initial := State{Location: mgl32.Vec3{0, 0, 1900}, Velocity: mgl32.Vec3{10, 20, 30}}
	saved := initial

	if _, err := Predict(arena, initial); err != nil {
		t.Fatalf("Predict error: %v", err)
	}
	if initial != saved {
		t.Errorf("Predict mutated the caller's state: %+v", initial)
	}
}

func TestPredictLengthAndTiming(t *testing.T) {
	arena := floorArena(t)
	states, err := Predict(arena, State{Location: mgl32.Vec3{0, 0, 1000}})
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}

	want := int(DefaultHorizon * TickRate)
	if len(states) != want {
		t.Fatalf("prediction length = %d, want %d", len(states), want)
	}
	if dt := states[0].Time; dt != DefaultTimestep {
		t.Errorf("first state time = %f, want %f", dt, DefaultTimestep)
	}
	last := states[len(states)-1].Time
	if last < 5.99 || last > 6.01 {
		t.Errorf("last state time = %f, want about 6", last)
	}
}

func TestPredictDurationCaps(t *testing.T) {
	arena := floorArena(t)

	states, err := PredictDuration(arena, State{Location: mgl32.Vec3{0, 0, 1000}}, 1)
	if err != nil {
		t.Fatalf("PredictDuration error: %v", err)
	}
	if len(states) != int(TickRate) {
		t.Errorf("one-second prediction length = %d, want %d", len(states), int(TickRate))
	}

	states, err = PredictDuration(arena, State{Location: mgl32.Vec3{0, 0, 1000}}, 0)
	if err != nil {
		t.Fatalf("PredictDuration(0) error: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("zero-duration prediction length = %d, want 0", len(states))
	}

	states, err = PredictDuration(arena, State{Location: mgl32.Vec3{0, 0, 1000}}, -3)
	if err != nil {
		t.Fatalf("PredictDuration(-3) error: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("negative-duration prediction length = %d, want 0", len(states))
	}
}

func TestNewSimulatorErrors(t *testing.T) {
	if _, err := NewSimulator(nil); !errors.Is(err, ErrNoArena) {
		t.Errorf("NewSimulator(nil) error = %v, want ErrNoArena", err)
	}
	if _, err := NewSimulator(&field.Arena{}); !errors.Is(err, ErrNoArena) {
		t.Errorf("NewSimulator(empty arena) error = %v, want ErrNoArena", err)
	}
	if _, err := NewSimulator(floorArena(t), WithTimestep(-1)); !errors.Is(err, ErrBadTimestep) {
		t.Errorf("NewSimulator with negative timestep error = %v, want ErrBadTimestep", err)
	}
	// A zero tick rate divides to +Inf; that must not slip past validation.
	inf := float32(gomath.Inf(1))
	if _, err := NewSimulator(floorArena(t), WithTimestep(inf)); !errors.Is(err, ErrBadTimestep) {
		t.Errorf("NewSimulator with infinite timestep error = %v, want ErrBadTimestep", err)
	}
	if _, err := NewSimulator(floorArena(t), WithTimestep(inf-inf)); !errors.Is(err, ErrBadTimestep) {
		t.Errorf("NewSimulator with NaN timestep error = %v, want ErrBadTimestep", err)
	}
}

func TestConcurrentPredictionsShareArena(t *testing.T) {
	arena := floorArena(t)
	initial := State{Location: mgl32.Vec3{50, 50, 1700}, Velocity: mgl32.Vec3{-120, 80, 0}}

	want, err := Predict(arena, initial)
	if err != nil {
		t.Fatalf("Predict error: %v", err)
	}

	const runs = 8
	results := make([][]State, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Predict(arena, initial)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("concurrent run %d diverged from the reference prediction", i)
		}
	}
}
