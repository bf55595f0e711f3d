package smoke

// diffuse relaxes x toward x0 under coefficient k by solving
// x - k*dt*laplacian(x) = x0 with a fixed number of Gauss-Seidel sweeps.
// Missing neighbors at the border reduce the diagonal (zero-flux boundary).
func (s *Solver) diffuse(x, x0 *Field, k, dt float64) {
	a := k * dt
	n := s.n

	for i := 0; i < n; i++ {
		copy(x.cells[i*x.stride:i*x.stride+n], x0.cells[i*x0.stride:i*x0.stride+n])
	}

	for it := 0; it < diffuseIterations; it++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum, count := s.neighborSum(x, i, j)
				x.cells[x.idx(i, j)] = (x0.at(i, j) + a*sum) / (1 + float64(count)*a)
			}
		}
	}
}

// neighborSum adds the in-bounds 4-neighbors of (i, j) and reports how many
// there were. Order is fixed so relaxation is reproducible.
func (s *Solver) neighborSum(f *Field, i, j int) (sum float64, count int) {
	if i > 0 {
		sum += f.at(i-1, j)
		count++
	}
	if i < s.n-1 {
		sum += f.at(i+1, j)
		count++
	}
	if j > 0 {
		sum += f.at(i, j-1)
		count++
	}
	if j < s.n-1 {
		sum += f.at(i, j+1)
		count++
	}
	return sum, count
}
