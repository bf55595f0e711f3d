package smoke

import "math"

// advect transports x0 along the current velocity into x. Each cell center is
// traced backward by dt and the source value is sampled bilinearly.
func (s *Solver) advect(x, x0 *Field, dt float64) {
	var (
		i0, i1, j0, j1 int
		cu, cv, px, py float64
		s0, s1, t0, t1 float64
	)
	u, v := s.velX, s.velY
	limit := float64(s.n) + 1

	for i := 0; i < s.n; i++ {
		for j := 0; j < s.n; j++ {
			// Cell-centered velocity from the two bracketing faces.
			cu = (u.at(i, j) + u.at(i+1, j)) / 2
			cv = (v.at(i, j) + v.at(i, j+1)) / 2

			px = clampFloat(float64(i)+0.5-cu*dt, -1, limit)
			py = clampFloat(float64(j)+0.5-cv*dt, -1, limit)

			i0 = int(math.Floor(px - 0.5))
			i1 = i0 + 1
			j0 = int(math.Floor(py - 0.5))
			j1 = j0 + 1

			s1 = px - 0.5 - float64(i0)
			s0 = 1 - s1
			t1 = py - 0.5 - float64(j0)
			t0 = 1 - t1

			x.cells[x.idx(i, j)] = s0*(t0*s.sample(x0, i0, j0)+t1*s.sample(x0, i0, j1)) +
				s1*(t0*s.sample(x0, i1, j0)+t1*s.sample(x0, i1, j1))
		}
	}
}

// sample returns the value of f at (i, j), or zero when the cell lies outside
// the grid. The index is clamped before the read regardless.
func (s *Solver) sample(f *Field, i, j int) float64 {
	if !s.valid(i) || !s.valid(j) {
		return 0
	}
	return f.at(s.clamp(i), s.clamp(j))
}
