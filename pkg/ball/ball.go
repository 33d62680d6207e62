// Package ball implements the fixed-step ball trajectory simulator and the
// prediction-sequence API built on top of it.
package ball

import (
	"errors"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ballsim/pkg/bvh"
	"github.com/Faultbox/ballsim/pkg/field"
)

// Simulation defaults. The integrator runs at the game's physics rate.
const (
	TickRate        = 120.0
	DefaultTimestep = float32(1.0 / TickRate)
	DefaultHorizon  = float32(6.0)
)

// Tuning constants calibrated against reference trajectories. Units are
// arena units, seconds, and radians.
const (
	gravity         = -650.0  // along -Z
	dragCoefficient = -0.0305 // per second, opposes velocity
	restitution     = 0.6     // normal velocity kept after a bounce
	slidingFriction = 0.285   // applied to the slip velocity at contact
	frictionRamp    = 2.0     // scales how fast friction saturates with impact
	spinCoupling    = 0.0003  // converts tangential impulse to spin change
	maxSpeed        = 4000.0
	maxSpin         = 6.0
	maxResolutions  = 3    // collision re-tests within a single step
	contactSlop     = 1e-3 // penetration this small counts as resting contact
)

// Simulator configuration errors.
var (
	ErrNoArena     = errors.New("ball: simulator needs an arena with collision geometry")
	ErrBadTimestep = errors.New("ball: timestep must be positive")
)

// State is one sample of the ball's kinematic state.
type State struct {
	Time            float32
	Location        mgl32.Vec3
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

// Simulator advances one ball through an arena at a fixed timestep. Each
// prediction run owns its simulator; the arena is shared read-only.
type Simulator struct {
	arena *field.Arena
	dt    float32
	log   *zap.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTimestep overrides the default 120 Hz step. The step must be a
// positive finite number of seconds.
func WithTimestep(dt float32) Option {
	return func(s *Simulator) { s.dt = dt }
}

// WithLogger routes simulator warnings to the given logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSimulator creates a simulator for the arena.
func NewSimulator(arena *field.Arena, opts ...Option) (*Simulator, error) {
	if arena == nil || arena.Collider == nil {
		return nil, ErrNoArena
	}
	s := &Simulator{arena: arena, dt: DefaultTimestep, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.dt <= 0 || gomath.IsInf(float64(s.dt), 0) || gomath.IsNaN(float64(s.dt)) {
		return nil, ErrBadTimestep
	}
	return s, nil
}

// Timestep returns the fixed step size in seconds.
func (s *Simulator) Timestep() float32 {
	return s.dt
}

// Step advances the state by one fixed timestep in place: semi-implicit
// integration of gravity and drag, then swept collision detection and
// response against the arena.
func (s *Simulator) Step(st *State) {
	dt := s.dt
	r := s.arena.BallRadius

	accel := mgl32.Vec3{0, 0, gravity}.Add(st.Velocity.Mul(dragCoefficient))
	st.Velocity = clampLen(st.Velocity.Add(accel.Mul(dt)), maxSpeed)
	st.AngularVelocity = clampLen(st.AngularVelocity, maxSpin)

	pos := st.Location.Add(st.Velocity.Mul(dt))

	resolved := false
	for i := 0; i < maxResolutions; i++ {
		contact, ok := s.findContact(st.Location, pos, r)
		if !ok {
			resolved = true
			break
		}
		pos = contact.Point.Add(contact.Normal.Mul(r))
		s.bounce(st, contact.Normal)
	}
	if !resolved {
		if c, stuck := s.arena.Collider.CollideSphere(pos, r); stuck && c.Depth > contactSlop {
			s.log.Warn("collision resolution cap reached, accepting residual penetration",
				zap.Float32("time", st.Time),
				zap.Float32("depth", c.Depth),
				zap.Int("cap", maxResolutions))
		}
	}

	st.Location = pos
	st.Time += dt
}

// findContact locates the surface contact for one step. The swept segment
// test runs first so a fast ball cannot tunnel through a wall between two
// endpoint samples; the sphere overlap test covers slow and resting contact.
func (s *Simulator) findContact(from, to mgl32.Vec3, r float32) (bvh.Contact, bool) {
	disp := to.Sub(from)
	if l := disp.Len(); l > r {
		// Extend the swept segment by one radius so the surface is found
		// before the center reaches it.
		extended := to.Add(disp.Mul(r / l))
		if hit, ok := s.arena.Collider.IntersectSegment(from, extended); ok {
			n := hit.Normal
			// Orient the winding normal against the direction of travel.
			if n.Dot(disp) > 0 {
				n = n.Mul(-1)
			}
			return bvh.Contact{Point: hit.Point, Normal: n, Depth: r, Triangles: 1}, true
		}
	}
	c, ok := s.arena.Collider.CollideSphere(to, r)
	if !ok || c.Depth <= contactSlop {
		return bvh.Contact{}, false
	}
	return c, true
}

// bounce applies the contact impulse: the normal component reflects by the
// restitution coefficient, the tangential component and spin couple through
// the slip velocity at the contact patch.
func (s *Simulator) bounce(st *State, n mgl32.Vec3) {
	v := st.Velocity
	vn := v.Dot(n)
	if vn >= 0 {
		// Already separating; keep the positional correction only.
		return
	}

	vPerp := n.Mul(vn)
	vPara := v.Sub(vPerp)
	// Surface velocity of the contact patch due to spin.
	vSpin := n.Cross(st.AngularVelocity).Mul(s.arena.BallRadius)
	slip := vPara.Add(vSpin)

	ratio := float32(0)
	if sl := slip.Len(); sl > 1e-4 {
		ratio = vPerp.Len() / sl
	}

	deltaPerp := vPerp.Mul(-(1 + restitution))
	deltaPara := slip.Mul(-slidingFriction * minf(1, frictionRamp*ratio))

	st.AngularVelocity = clampLen(
		st.AngularVelocity.Add(deltaPara.Cross(n).Mul(spinCoupling*s.arena.BallRadius)),
		maxSpin)
	st.Velocity = clampLen(v.Add(deltaPerp).Add(deltaPara), maxSpeed)
}

func clampLen(v mgl32.Vec3, limit float32) mgl32.Vec3 {
	l := float32(gomath.Sqrt(float64(v.Dot(v))))
	if l > limit {
		return v.Mul(limit / l)
	}
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
