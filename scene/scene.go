// Package scene drives a smoke solver with moving objects and user input.
package scene

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/esimov/ascii-smoke/config"
	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

// DefaultTimeScale converts elapsed milliseconds into solver time.
const DefaultTimeScale = 100.0

// Scene owns a solver and the objects interacting with it.
// It is not safe for concurrent use; front-ends drive it from one goroutine.
type Scene struct {
	solver    *smoke.Solver
	objects   []Object
	timeScale float64

	forceX, forceY float64

	frame   int
	simTime float64

	pMin, pMax float64
}

// New wraps the solver in an empty scene. A non-positive time scale falls
// back to DefaultTimeScale.
func New(s *smoke.Solver, timeScale float64) *Scene {
	if timeScale <= 0 {
		timeScale = DefaultTimeScale
	}
	return &Scene{solver: s, timeScale: timeScale}
}

// FromConfig builds the solver and every configured object.
func FromConfig(cfg *config.Config) *Scene {
	s := smoke.NewSolver(cfg.Solver.Size).
		SetDiffuse(cfg.Solver.DiffuseRate).
		SetViscosity(cfg.Solver.Viscosity).
		SetDensity(cfg.Solver.Density)

	sc := New(s, cfg.Scene.TimeScale).SetForce(cfg.Scene.ForceX, cfg.Scene.ForceY)
	for _, r := range cfg.Scene.Rockets {
		sc.Add(NewRocket(r.X, r.Y, r.VX, r.VY, r.Emission, r.Thrust))
	}
	for _, g := range cfg.Scene.Globes {
		sc.Add(NewGlobe(g.X, g.Y, g.Radius, g.Spin, g.Strength))
	}
	for _, e := range cfg.Scene.Emitters {
		sc.Add(NewEmitter(e.X, e.Y, e.Rate))
	}
	return sc
}

// SetForce sets the ambient body force applied to every cell each step.
func (sc *Scene) SetForce(fx, fy float64) *Scene {
	sc.forceX, sc.forceY = fx, fy
	return sc
}

// Add places an object in the scene.
func (sc *Scene) Add(o Object) {
	sc.objects = append(sc.objects, o)
}

func (sc *Scene) Objects() []Object     { return sc.objects }
func (sc *Scene) Solver() *smoke.Solver { return sc.solver }
func (sc *Scene) Frame() int            { return sc.frame }
func (sc *Scene) SimTime() float64      { return sc.simTime }
func (sc *Scene) TimeScale() float64    { return sc.timeScale }

// PressureRange returns the lowest and highest pressure seen since the last reset.
func (sc *Scene) PressureRange() (lo, hi float64) {
	return sc.pMin, sc.pMax
}

// SolverStep converts wall time into the solver time step.
func (sc *Scene) SolverStep(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(time.Millisecond) / sc.timeScale
}

// Step advances the objects and the solver by the elapsed wall time.
// Non-positive durations are ignored.
func (sc *Scene) Step(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	dt := sc.SolverStep(elapsed)

	sc.solver.ForceX().Fill(sc.forceX)
	sc.solver.ForceY().Fill(sc.forceY)
	for _, o := range sc.objects {
		o.Simulate(elapsed.Seconds())
		o.ContributeForce(sc.solver)
		o.ContributeDensity(sc.solver, dt)
	}

	sc.solver.Simulate(dt)
	sc.frame++
	sc.simTime += dt
	sc.trackPressure()
}

func (sc *Scene) trackPressure() {
	p := sc.solver.Pressure().Values()
	lo, hi := floats.Min(p), floats.Max(p)
	if sc.frame == 1 {
		sc.pMin, sc.pMax = lo, hi
		return
	}
	if lo < sc.pMin {
		sc.pMin = lo
	}
	if hi > sc.pMax {
		sc.pMax = hi
	}
}

// Inject adds smoke at the normalized position {x, y}. A negative amount
// removes smoke but never below zero.
func (sc *Scene) Inject(x, y, amount float64) {
	i, j := sc.solver.Position(x, y)
	d := sc.solver.Dens()
	v := d.At(i, j) + amount
	if v < 0 {
		v = 0
	}
	d.Set(i, j, v)
}

// Reset clears the fluid and returns every object to its initial state.
func (sc *Scene) Reset() {
	sc.solver.Reset()
	for _, o := range sc.objects {
		o.reset()
	}
	sc.frame = 0
	sc.simTime = 0
	sc.pMin, sc.pMax = 0, 0
}
