package smoke

import "math"

// project removes the divergence from the velocity field. The Poisson equation
// laplacian(p) = density*div(u) is relaxed into the pressure field, using the
// scratch pressure buffer for the right-hand side, then the pressure gradient
// is subtracted from every interior face. A zero density leaves the equation
// undefined; the velocity is then only clamped.
func (s *Solver) project() {
	var (
		n = s.n
		u = s.velX
		v = s.velY
		p = s.pressure
	)
	if s.density != 0 {
		s.solvePressure()
	}

	// Face (i, j) of u sits between cells (i-1, j) and (i, j); the faces on
	// the domain border have no neighbor to take a gradient against.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			du := u.at(i, j)
			dv := v.at(i, j)
			if s.density != 0 {
				if i > 0 {
					du -= (p.at(i, j) - p.at(i-1, j)) / s.density
				}
				if j > 0 {
					dv -= (p.at(i, j) - p.at(i, j-1)) / s.density
				}
			}
			s.tmpVelX.cells[s.tmpVelX.idx(i, j)] = clampVelocity(du)
			s.tmpVelY.cells[s.tmpVelY.idx(i, j)] = clampVelocity(dv)
		}
	}
	s.swapVel()
}

func (s *Solver) solvePressure() {
	var (
		n   = s.n
		p   = s.pressure
		rhs = s.tmpPressure
	)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rhs.cells[rhs.idx(i, j)] = s.density * s.divergence(i, j)
			p.cells[p.idx(i, j)] = 0
		}
	}

	for it := 0; it < pressureIterations; it++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum, count := s.neighborSum(p, i, j)
				if count == 0 {
					continue
				}
				p.cells[p.idx(i, j)] = (sum - rhs.at(i, j)) / float64(count)
			}
		}
	}
}

// divergence is the net outflow of cell (i, j) through its four faces.
func (s *Solver) divergence(i, j int) float64 {
	return (s.velX.at(i+1, j) - s.velX.at(i, j)) + (s.velY.at(i, j+1) - s.velY.at(i, j))
}

// MaxDivergence returns the largest absolute divergence across the grid.
func (s *Solver) MaxDivergence() float64 {
	maxDiv := 0.0
	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			if d := math.Abs(s.divergence(i, j)); d > maxDiv {
				maxDiv = d
			}
		}
	}
	return maxDiv
}
