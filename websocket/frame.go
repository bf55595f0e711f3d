package websocket

import (
	"gonum.org/v1/gonum/floats"

	"github.com/esimov/ascii-smoke/palette"
	"github.com/esimov/ascii-smoke/scene"
)

// Frame is the snapshot sent to every browser client. Cell arrays are
// row-major: cell (i, j) is at index i*Size+j.
type Frame struct {
	Frame    int       `json:"frame"`
	Size     int       `json:"size"`
	Density  []float64 `json:"density"`
	Pressure []float64 `json:"pressure"`
	Colors   []string  `json:"colors"` // Pressure color per cell, #rrggbb
	Alpha    []float64 `json:"alpha"`  // Smoke opacity per cell
	Objects  []Object  `json:"objects"`
}

// Object is a scene object as drawn by the client.
type Object struct {
	Kind  string  `json:"kind"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
	Angle float64 `json:"angle,omitempty"`
}

// Injection is a request from a client to add smoke at a normalized position.
type Injection struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Amount float64 `json:"amount"`
}

// NewFrame captures the current state of the scene.
func NewFrame(sc *scene.Scene, ramp *palette.Ramp) Frame {
	s := sc.Solver()
	dens := s.Dens().Values()
	pressure := s.Pressure().Values()
	lo, hi := sc.PressureRange()
	maxDens := floats.Max(dens)

	f := Frame{
		Frame:    sc.Frame(),
		Size:     s.Size(),
		Density:  dens,
		Pressure: pressure,
		Colors:   make([]string, len(pressure)),
		Alpha:    make([]float64, len(dens)),
	}
	for k := range pressure {
		f.Colors[k] = ramp.At(pressure[k], lo, hi).Hex()
		f.Alpha[k] = palette.Alpha(dens[k], maxDens)
	}

	for _, o := range sc.Objects() {
		x, y := o.Position()
		obj := Object{X: x, Y: y}
		switch o := o.(type) {
		case *scene.Rocket:
			obj.Kind = "rocket"
		case *scene.Globe:
			obj.Kind = "globe"
			obj.Size = o.Radius()
			obj.Angle = o.Angle()
		case *scene.Emitter:
			obj.Kind = "emitter"
		}
		f.Objects = append(f.Objects, obj)
	}
	return f
}
