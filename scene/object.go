package scene

import (
	"math"

	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

// Object is a body placed in the scene. Positions are normalized to [0,1].
// The set of implementations is closed: Rocket, Globe and Emitter.
type Object interface {
	// Position returns the object's normalized coordinates.
	Position() (x, y float64)
	// Simulate advances the object by dt seconds of wall time.
	Simulate(dt float64)
	// ContributeForce adds the object's force to the solver's force fields.
	ContributeForce(s *smoke.Solver)
	// ContributeDensity adds the smoke the object emits over a solver step of dt.
	ContributeDensity(s *smoke.Solver, dt float64)

	reset()
}

// wrap folds v into [0,1).
func wrap(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1 {
		v = 0
	}
	return v
}
