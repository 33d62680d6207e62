package ball

import "github.com/Faultbox/ballsim/pkg/field"

// Predict returns the default six-second prediction for the ball, one state
// per simulation tick. The initial state is copied, never mutated.
func Predict(arena *field.Arena, initial State, opts ...Option) ([]State, error) {
	return PredictDuration(arena, initial, DefaultHorizon, opts...)
}

// PredictDuration returns a prediction capped at the given duration in
// seconds. A non-positive duration yields an empty sequence. Two calls with
// the same inputs produce identical sequences.
func PredictDuration(arena *field.Arena, initial State, seconds float32, opts ...Option) ([]State, error) {
	sim, err := NewSimulator(arena, opts...)
	if err != nil {
		return nil, err
	}

	// Round so a whole number of ticks never loses the last one to
	// float32 division error.
	n := int(seconds/sim.dt + 0.5)
	if n < 0 {
		n = 0
	}

	states := make([]State, 0, n)
	st := initial
	for i := 0; i < n; i++ {
		sim.Step(&st)
		states = append(states, st)
	}
	return states, nil
}
