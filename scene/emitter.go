package scene

import smoke "github.com/esimov/ascii-smoke/smoke-solver"

// Emitter is a stationary smoke source.
type Emitter struct {
	x, y float64
	rate float64
}

// NewEmitter places a source at {x, y} emitting rate units per unit of solver time.
func NewEmitter(x, y, rate float64) *Emitter {
	return &Emitter{x: x, y: y, rate: rate}
}

func (e *Emitter) Position() (float64, float64) { return e.x, e.y }

func (e *Emitter) Rate() float64 { return e.rate }

func (e *Emitter) Simulate(float64) {}

func (e *Emitter) ContributeForce(*smoke.Solver) {}

func (e *Emitter) ContributeDensity(s *smoke.Solver, dt float64) {
	i, j := s.Position(e.x, e.y)
	s.Dens().Add(i, j, e.rate*dt)
}

func (e *Emitter) reset() {}
