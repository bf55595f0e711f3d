package scene

import (
	"math"

	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

// Rocket travels with a constant velocity, wrapping around the unit square.
// It leaves smoke in the cell it occupies and pushes the fluid backwards.
type Rocket struct {
	x, y     float64
	vx, vy   float64
	emission float64
	thrust   float64

	x0, y0 float64
}

// NewRocket spawns a rocket at {x, y} moving with velocity {vx, vy} per second.
func NewRocket(x, y, vx, vy, emission, thrust float64) *Rocket {
	x, y = wrap(x), wrap(y)
	return &Rocket{
		x:        x,
		y:        y,
		vx:       vx,
		vy:       vy,
		emission: emission,
		thrust:   thrust,
		x0:       x,
		y0:       y,
	}
}

// Position retrieves the rocket's normalized coordinates.
func (r *Rocket) Position() (float64, float64) { return r.x, r.y }

// Velocity retrieves the rocket's velocity.
func (r *Rocket) Velocity() (float64, float64) { return r.vx, r.vy }

// Emission retrieves the smoke emitted per unit of solver time.
func (r *Rocket) Emission() float64 { return r.emission }

// Thrust retrieves the exhaust force magnitude.
func (r *Rocket) Thrust() float64 { return r.thrust }

// Simulate moves the rocket by its velocity.
func (r *Rocket) Simulate(dt float64) {
	r.x = wrap(r.x + r.vx*dt)
	r.y = wrap(r.y + r.vy*dt)
}

// ContributeForce applies the exhaust opposite to the heading.
func (r *Rocket) ContributeForce(s *smoke.Solver) {
	speed := math.Hypot(r.vx, r.vy)
	if speed == 0 || r.thrust == 0 {
		return
	}
	i, j := s.Position(r.x, r.y)
	s.ForceX().Add(i, j, -r.thrust*r.vx/speed)
	s.ForceY().Add(i, j, -r.thrust*r.vy/speed)
}

func (r *Rocket) ContributeDensity(s *smoke.Solver, dt float64) {
	i, j := s.Position(r.x, r.y)
	s.Dens().Add(i, j, r.emission*dt)
}

func (r *Rocket) reset() {
	r.x, r.y = r.x0, r.y0
}
