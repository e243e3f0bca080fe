package poisson

import (
	"math"
	"testing"

	"github.com/enlighter/dedalus/config"
)

// TestSpectralHelmholtzSingleMode checks that a single-mode forcing on a
// 1-D periodic domain produces the exactly scaled single-mode solution:
// with f(x) = cos(2x) and operator (alpha - d^2/dx^2), the solution is
// f(x) / (alpha + 4), since cos(2x) is an eigenfunction of -d^2/dx^2 with
// eigenvalue 4.
func TestSpectralHelmholtzSingleMode(t *testing.T) {
	const alpha = 1.0
	const n = 16

	solver, err := NewSpectralHelmholtz(alpha, []int{n}, []float64{2 * math.Pi}, config.Default())
	if err != nil {
		t.Fatalf("NewSpectralHelmholtz: %v", err)
	}

	rhs := make([]float64, n)
	dx := 2 * math.Pi / n

	for i := range rhs {
		x := float64(i) * dx
		rhs[i] = math.Cos(2 * x)
	}

	dst := make([]float64, n)
	if err := solver.Solve(dst, rhs); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	scale := 1.0 / (alpha + 4)

	for i := range dst {
		x := float64(i) * dx
		want := scale * math.Cos(2*x)

		if math.Abs(dst[i]-want) > 1e-9 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}
}

// TestSpectralHelmholtzSizeMismatch checks that Solve rejects buffers whose
// length doesn't match the solver's grid size.
func TestSpectralHelmholtzSizeMismatch(t *testing.T) {
	solver, err := NewSpectralHelmholtz(1.0, []int{8}, []float64{2 * math.Pi}, config.Default())
	if err != nil {
		t.Fatalf("NewSpectralHelmholtz: %v", err)
	}

	if err := solver.Solve(make([]float64, 3), make([]float64, 8)); err == nil {
		t.Fatal("Solve: expected error for mismatched dst length, got nil")
	}
}

// TestSpectralHelmholtz2D checks a separable 2-D forcing against its known
// solution, exercising the multi-axis eigenvalue assembly.
func TestSpectralHelmholtz2D(t *testing.T) {
	const alpha = 2.0

	sizes := []int{8, 8}
	lengths := []float64{2 * math.Pi, 2 * math.Pi}

	solver, err := NewSpectralHelmholtz(alpha, sizes, lengths, config.Default())
	if err != nil {
		t.Fatalf("NewSpectralHelmholtz: %v", err)
	}

	n := sizes[0] * sizes[1]
	rhs := make([]float64, n)
	dx := lengths[0] / float64(sizes[0])
	dy := lengths[1] / float64(sizes[1])

	for i := 0; i < sizes[0]; i++ {
		for j := 0; j < sizes[1]; j++ {
			x := float64(i) * dx
			y := float64(j) * dy
			rhs[i*sizes[1]+j] = math.Cos(x) * math.Cos(y)
		}
	}

	dst := make([]float64, n)
	if err := solver.Solve(dst, rhs); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	scale := 1.0 / (alpha + 2) // |k|^2 = 1^2 + 1^2 = 2

	for i := 0; i < sizes[0]; i++ {
		for j := 0; j < sizes[1]; j++ {
			x := float64(i) * dx
			y := float64(j) * dy
			want := scale * math.Cos(x) * math.Cos(y)
			got := dst[i*sizes[1]+j]

			if math.Abs(got-want) > 1e-9 {
				t.Errorf("dst[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}
