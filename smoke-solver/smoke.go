// Package smoke implements a fixed-resolution 2D smoke solver: semi-Lagrangian
// advection, implicit diffusion and pressure projection on a square grid.
package smoke

import "math"

// MaxVelocity caps every velocity component after the body force and the
// pressure projection.
const MaxVelocity = 10.0

const (
	diffuseIterations  = 20
	pressureIterations = 30
)

// Solver owns the grid fields of a smoke simulation. Every field except the
// forces has a scratch twin; each sub-step writes the scratch buffer and then
// the two are exchanged.
type Solver struct {
	n int

	diffuseRate float64
	viscosity   float64
	density     float64

	dens     *Field
	velX     *Field
	velY     *Field
	pressure *Field

	forceX *Field
	forceY *Field

	tmpDens     *Field
	tmpVelX     *Field
	tmpVelY     *Field
	tmpPressure *Field
}

// NewSolver allocates a zeroed solver with n cells per axis.
func NewSolver(n int) *Solver {
	if n < 1 {
		panic("smoke: grid size must be positive")
	}
	return &Solver{
		n:           n,
		density:     1,
		dens:        newField(n),
		velX:        newField(n),
		velY:        newField(n),
		pressure:    newField(n),
		forceX:      newField(n),
		forceY:      newField(n),
		tmpDens:     newField(n),
		tmpVelX:     newField(n),
		tmpVelY:     newField(n),
		tmpPressure: newField(n),
	}
}

// Clone returns a deep copy of the solver. No buffer is shared with s.
func (s *Solver) Clone() *Solver {
	c := *s
	c.dens = s.dens.clone()
	c.velX = s.velX.clone()
	c.velY = s.velY.clone()
	c.pressure = s.pressure.clone()
	c.forceX = s.forceX.clone()
	c.forceY = s.forceY.clone()
	c.tmpDens = s.tmpDens.clone()
	c.tmpVelX = s.tmpVelX.clone()
	c.tmpVelY = s.tmpVelY.clone()
	c.tmpPressure = s.tmpPressure.clone()
	return &c
}

// Size returns the number of cells per axis.
func (s *Solver) Size() int { return s.n }

func (s *Solver) Dens() *Field     { return s.dens }
func (s *Solver) VelX() *Field     { return s.velX }
func (s *Solver) VelY() *Field     { return s.velY }
func (s *Solver) Pressure() *Field { return s.pressure }
func (s *Solver) ForceX() *Field   { return s.forceX }
func (s *Solver) ForceY() *Field   { return s.forceY }

func (s *Solver) DiffuseRate() float64  { return s.diffuseRate }
func (s *Solver) Viscosity() float64    { return s.viscosity }
func (s *Solver) FluidDensity() float64 { return s.density }

// SetDiffuse sets the density diffusion rate. Values are not validated.
func (s *Solver) SetDiffuse(rate float64) *Solver {
	s.diffuseRate = rate
	return s
}

// SetViscosity sets the velocity diffusion rate. Values are not validated.
func (s *Solver) SetViscosity(rate float64) *Solver {
	s.viscosity = rate
	return s
}

// SetDensity sets the fluid density used by the pressure solve.
func (s *Solver) SetDensity(density float64) *Solver {
	s.density = density
	return s
}

// Position maps normalized world coordinates in [0,1]x[0,1] to a grid cell.
// Coordinates outside that range are clamped to the nearest edge cell.
func (s *Solver) Position(x, y float64) (i, j int) {
	return s.cellIndex(x), s.cellIndex(y)
}

func (s *Solver) cellIndex(x float64) int {
	return s.clamp(int(math.Floor(clampFloat(x, 0, 1) * float64(s.n))))
}

// Reset zeroes every field without reallocating.
func (s *Solver) Reset() {
	for _, f := range []*Field{
		s.dens, s.velX, s.velY, s.pressure, s.forceX, s.forceY,
		s.tmpDens, s.tmpVelX, s.tmpVelY, s.tmpPressure,
	} {
		f.zero()
	}
}

// Simulate advances the fields by dt. Each field ends the call in the buffer
// it started in: velocity is swapped four times, density twice.
func (s *Solver) Simulate(dt float64) {
	s.advect(s.tmpVelX, s.velX, dt)
	s.advect(s.tmpVelY, s.velY, dt)
	s.swapVel()

	s.applyForce(s.tmpVelX, s.velX, s.forceX, dt)
	s.applyForce(s.tmpVelY, s.velY, s.forceY, dt)
	s.swapVel()

	s.diffuse(s.tmpVelX, s.velX, s.viscosity, dt)
	s.diffuse(s.tmpVelY, s.velY, s.viscosity, dt)
	s.swapVel()

	s.project()

	s.advect(s.tmpDens, s.dens, dt)
	s.swapDens()

	s.diffuse(s.tmpDens, s.dens, s.diffuseRate, dt)
	s.swapDens()

	s.clampDensity()
}

func (s *Solver) swapVel() {
	s.velX, s.tmpVelX = s.tmpVelX, s.velX
	s.velY, s.tmpVelY = s.tmpVelY, s.velY
}

func (s *Solver) swapDens() {
	s.dens, s.tmpDens = s.tmpDens, s.dens
}

// applyForce integrates the external force into the velocity component.
func (s *Solver) applyForce(u, u0, force *Field, dt float64) {
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			k := u.idx(i, j)
			u.cells[k] = clampVelocity(u0.cells[k] + force.cells[k]*dt)
		}
	}
}

// clampDensity keeps smoke non-negative. Interpolation and diffusion with
// non-negative rates never go below zero; negative rates can.
func (s *Solver) clampDensity() {
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			k := s.dens.idx(i, j)
			if s.dens.cells[k] < 0 {
				s.dens.cells[k] = 0
			}
		}
	}
}

// valid reports whether i is an active grid index.
func (s *Solver) valid(i int) bool {
	return 0 <= i && i < s.n
}

// clamp pins i into [0, n).
func (s *Solver) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= s.n {
		return s.n - 1
	}
	return i
}

func clampVelocity(v float64) float64 {
	return clampFloat(v, -MaxVelocity, MaxVelocity)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
