package scene

import (
	"math"

	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

// Globe is a fixed spinning disc. It stirs the cells it covers with a
// tangential force and emits no smoke.
type Globe struct {
	x, y     float64
	radius   float64
	spin     float64
	strength float64
	angle    float64
}

// NewGlobe places a globe centered at {x, y}. Spin is in radians per second;
// its sign selects the stirring direction.
func NewGlobe(x, y, radius, spin, strength float64) *Globe {
	return &Globe{x: x, y: y, radius: radius, spin: spin, strength: strength}
}

func (g *Globe) Position() (float64, float64) { return g.x, g.y }

func (g *Globe) Radius() float64 { return g.radius }

// Angle is the current rotation, used to draw a marker on the rim.
func (g *Globe) Angle() float64 { return g.angle }

func (g *Globe) Simulate(dt float64) {
	g.angle = math.Mod(g.angle+g.spin*dt, 2*math.Pi)
}

// ContributeForce pushes every covered cell along the circle through its center.
func (g *Globe) ContributeForce(s *smoke.Solver) {
	if g.spin == 0 || g.strength == 0 {
		return
	}
	dir := g.strength
	if g.spin < 0 {
		dir = -dir
	}
	n := float64(s.Size())
	i0, j0 := s.Position(g.x-g.radius, g.y-g.radius)
	i1, j1 := s.Position(g.x+g.radius, g.y+g.radius)
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			dx := (float64(i)+0.5)/n - g.x
			dy := (float64(j)+0.5)/n - g.y
			d := math.Hypot(dx, dy)
			if d == 0 || d > g.radius {
				continue
			}
			s.ForceX().Add(i, j, -dir*dy/d)
			s.ForceY().Add(i, j, dir*dx/d)
		}
	}
}

func (g *Globe) ContributeDensity(*smoke.Solver, float64) {}

func (g *Globe) reset() { g.angle = 0 }
