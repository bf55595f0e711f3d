// Package telemetry summarizes solver state and records it as CSV.
package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	smoke "github.com/esimov/ascii-smoke/smoke-solver"
)

// Stats is a snapshot of one simulated frame.
type Stats struct {
	Frame   int     `csv:"frame"`
	SimTime float64 `csv:"sim_time"`

	TotalDensity float64 `csv:"total_density"` // Smoke mass over the active grid
	MaxDensity   float64 `csv:"max_density"`

	MaxSpeed      float64 `csv:"max_speed"`
	MaxDivergence float64 `csv:"max_divergence"`

	PressureMin float64 `csv:"pressure_min"`
	PressureMax float64 `csv:"pressure_max"`
}

// Collect computes the statistics of the solver's current fields.
func Collect(frame int, simTime float64, s *smoke.Solver) Stats {
	dens := s.Dens().Values()
	pressure := s.Pressure().Values()

	u, v := s.VelX().Values(), s.VelY().Values()
	speed := make([]float64, len(u))
	for k := range u {
		speed[k] = math.Hypot(u[k], v[k])
	}

	return Stats{
		Frame:         frame,
		SimTime:       simTime,
		TotalDensity:  floats.Sum(dens),
		MaxDensity:    floats.Max(dens),
		MaxSpeed:      floats.Max(speed),
		MaxDivergence: s.MaxDivergence(),
		PressureMin:   floats.Min(pressure),
		PressureMax:   floats.Max(pressure),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("total_density", s.TotalDensity),
		slog.Float64("max_density", s.MaxDensity),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("max_divergence", s.MaxDivergence),
		slog.Float64("pressure_min", s.PressureMin),
		slog.Float64("pressure_max", s.PressureMax),
	)
}
