package basis

import (
	"math"
	"testing"

	"github.com/enlighter/dedalus/config"
)

const tol = 1e-9

// TestChebyshevDifferentiateLinear is scenario S1: N=8 on [-1,1], input
// coefficients [0,1,0,...] (T1 = x). differentiate must yield [1,0,...]
// (the constant function 1).
func TestChebyshevDifferentiateLinear(t *testing.T) {
	cb, err := NewChebyshev([2]float64{-1, 1}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	if _, err := cb.SetDType(Real); err != nil {
		t.Fatalf("SetDType: %v", err)
	}

	cdata := make([]complex128, 8)
	cdata[1] = 1

	out := make([]complex128, 8)
	if err := cb.Differentiate(cdata, out, 0); err != nil {
		t.Fatalf("Differentiate: %v", err)
	}

	want := make([]complex128, 8)
	want[0] = 1

	for i := range out {
		if math.Abs(real(out[i])-real(want[i])) > tol {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

// TestChebyshevRoundTrip checks forward(backward(c)) recovers c to machine
// precision, the basic correctness property any basis transform must hold.
func TestChebyshevRoundTrip(t *testing.T) {
	cb, err := NewChebyshev([2]float64{-1, 1}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	if _, err := cb.SetDType(Real); err != nil {
		t.Fatalf("SetDType: %v", err)
	}

	cdata := []complex128{1, 1, 0.5, 0, -0.25, 0, 0, 0}

	grid := make([]complex128, cb.BaseGridSize())
	if err := cb.Backward(cdata, grid, 0, 1.0); err != nil {
		t.Fatalf("Backward: %v", err)
	}

	back := make([]complex128, cb.CoeffSize())
	if err := cb.Forward(grid, back, 0, 1.0); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	for i := range cdata {
		if math.Abs(real(back[i])-real(cdata[i])) > 1e-8 {
			t.Errorf("round trip mode %d = %v, want %v", i, back[i], cdata[i])
		}
	}
}

// TestChebyshevResizeIdempotence is testable property 4: resizing N to S
// to N is the identity; resizing N to S<N then back zeroes modes S..N-1.
func TestChebyshevResizeIdempotence(t *testing.T) {
	cb, err := NewChebyshev([2]float64{-1, 1}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	if _, err := cb.SetDType(Real); err != nil {
		t.Fatalf("SetDType: %v", err)
	}

	cdata := []complex128{1, 2, 3, 4, 5, 6, 7, 8}

	grid, err := cb.Grid(0.5) // S=4 < N=8
	if err != nil {
		t.Fatalf("Grid(0.5): %v", err)
	}

	gdata := make([]complex128, len(grid))
	if err := cb.Backward(cdata, gdata, 0, 0.5); err != nil {
		t.Fatalf("Backward at scale 0.5: %v", err)
	}

	back := make([]complex128, cb.CoeffSize())
	if err := cb.Forward(gdata, back, 0, 0.5); err != nil {
		t.Fatalf("Forward at scale 0.5: %v", err)
	}

	for i := 0; i < 4; i++ {
		if math.Abs(real(back[i])-real(cdata[i])) > 1e-6 {
			t.Errorf("mode %d = %v, want %v", i, back[i], cdata[i])
		}
	}

	for i := 4; i < 8; i++ {
		if math.Abs(real(back[i])) > 1e-6 {
			t.Errorf("mode %d = %v, want 0 after truncation", i, back[i])
		}
	}
}
