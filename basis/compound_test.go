package basis

import (
	"math"
	"testing"

	"github.com/enlighter/dedalus/config"
)

// TestCompoundIntegrateConstant is scenario S3: two Chebyshev subbases of
// size 4 on [0,1] and [1,2] (coeff_size=8), a constant field of 1 across the
// whole compound domain integrates to 2.0 (the sum of each subinterval's
// length).
func TestCompoundIntegrateConstant(t *testing.T) {
	left, err := NewChebyshev([2]float64{0, 1}, 4, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev left: %v", err)
	}

	right, err := NewChebyshev([2]float64{1, 2}, 4, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev right: %v", err)
	}

	cmp, err := NewCompound([]Basis{left, right})
	if err != nil {
		t.Fatalf("NewCompound: %v", err)
	}

	if _, err := cmp.SetDType(Real); err != nil {
		t.Fatalf("SetDType: %v", err)
	}

	if got := cmp.CoeffSize(); got != 8 {
		t.Fatalf("CoeffSize = %d, want 8", got)
	}

	grid, err := cmp.Grid(1.0)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	gdata := make([]complex128, len(grid))
	for i := range gdata {
		gdata[i] = 1
	}

	cdata := make([]complex128, cmp.CoeffSize())
	if err := cmp.Forward(gdata, cdata, 0, 1.0); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	cint := make([]complex128, cmp.CoeffSize())
	if err := cmp.Integrate(cdata, cint, 0); err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	want := complex(2.0, 0)
	if math.Abs(real(cint[0])-real(want)) > 1e-9 {
		t.Errorf("integral = %v, want %v", cint[0], want)
	}

	for i := 1; i < len(cint); i++ {
		if cint[i] != 0 {
			t.Errorf("mode %d = %v, want 0", i, cint[i])
		}
	}
}

// TestCompoundCoeffStart checks the per-subbasis coefficient offsets used
// to slice the concatenated coefficient vector.
func TestCompoundCoeffStart(t *testing.T) {
	left, err := NewChebyshev([2]float64{0, 1}, 4, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev left: %v", err)
	}

	right, err := NewChebyshev([2]float64{1, 2}, 3, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev right: %v", err)
	}

	cmp, err := NewCompound([]Basis{left, right})
	if err != nil {
		t.Fatalf("NewCompound: %v", err)
	}

	if got := cmp.CoeffStart(0); got != 0 {
		t.Errorf("CoeffStart(0) = %d, want 0", got)
	}

	if got := cmp.CoeffStart(1); got != 4 {
		t.Errorf("CoeffStart(1) = %d, want 4", got)
	}

	if got := cmp.CoeffSize(); got != 7 {
		t.Errorf("CoeffSize = %d, want 7", got)
	}
}

// TestCompoundRejectsNonAdjacentSubbases checks that subbases whose
// intervals don't share a boundary are rejected at construction.
func TestCompoundRejectsNonAdjacentSubbases(t *testing.T) {
	left, err := NewChebyshev([2]float64{0, 1}, 4, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev left: %v", err)
	}

	right, err := NewChebyshev([2]float64{1.5, 2}, 4, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev right: %v", err)
	}

	if _, err := NewCompound([]Basis{left, right}); err == nil {
		t.Fatal("NewCompound: expected error for non-adjacent subbases, got nil")
	}
}
