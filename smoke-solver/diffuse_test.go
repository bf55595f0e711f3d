package smoke

import (
	"math"
	"testing"
)

func TestDiffusionSmoothsPeak(t *testing.T) {
	s := NewSolver(10).SetDiffuse(1)
	s.Dens().Set(5, 5, 1)

	prevMax, prevSpread := 1.0, 0.0
	for step := 0; step < 6; step++ {
		s.Simulate(0.1)

		maxVal, minVal := math.Inf(-1), math.Inf(1)
		total, moment := 0.0, 0.0
		for i := 0; i < 10; i++ {
			for j := 0; j < 10; j++ {
				v := s.Dens().At(i, j)
				maxVal = math.Max(maxVal, v)
				minVal = math.Min(minVal, v)
				total += v
				moment += v * float64((i-5)*(i-5)+(j-5)*(j-5))
			}
		}
		spread := moment / total

		if maxVal >= prevMax {
			t.Errorf("step %d: max %v did not drop below %v", step, maxVal, prevMax)
		}
		if spread <= prevSpread {
			t.Errorf("step %d: spread %v did not grow past %v", step, spread, prevSpread)
		}
		if minVal < 0 {
			t.Errorf("step %d: negative density %v", step, minVal)
		}
		prevMax, prevSpread = maxVal, spread
	}
}

func TestDiffuseUniformFieldIsSteady(t *testing.T) {
	s := NewSolver(8)
	s.Dens().Fill(2)

	s.diffuse(s.tmpDens, s.dens, 3, 0.5)

	for k, v := range s.tmpDens.Values() {
		if math.Abs(v-2) > 1e-12 {
			t.Fatalf("cell %d = %v, want 2", k, v)
		}
	}
}

func TestDiffuseZeroRateCopies(t *testing.T) {
	s := NewSolver(5)
	s.Dens().Set(1, 3, 4)
	s.Dens().Set(4, 0, 2)

	s.diffuse(s.tmpDens, s.dens, 0, 1)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if s.tmpDens.At(i, j) != s.Dens().At(i, j) {
				t.Fatalf("(%d,%d) = %v, want %v", i, j, s.tmpDens.At(i, j), s.Dens().At(i, j))
			}
		}
	}
}

func TestNeighborSumAtBorders(t *testing.T) {
	s := NewSolver(3)
	s.Dens().Fill(1)
	tests := []struct {
		name      string
		i, j      int
		wantCount int
	}{
		{"corner", 0, 0, 2},
		{"edge", 1, 0, 3},
		{"center", 1, 1, 4},
		{"far corner", 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, count := s.neighborSum(s.Dens(), tt.i, tt.j)
			if count != tt.wantCount || sum != float64(tt.wantCount) {
				t.Errorf("neighborSum(%d, %d) = (%v, %d), want (%d, %d)", tt.i, tt.j, sum, count, tt.wantCount, tt.wantCount)
			}
		})
	}
}
