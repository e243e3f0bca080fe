package domain

import (
	"math"
	"testing"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
	"github.com/enlighter/dedalus/mesh"
)

// TestDomainDTypeThreading checks that New threads each basis's output
// dtype into the next basis's input, matching the original constructor's
// "for b in self.bases: grid_dtype = b.set_transforms(grid_dtype)" loop:
// a real grid feeding a Fourier basis yields complex coefficients, which
// then become the next basis's (Chebyshev) own input dtype.
func TestDomainDTypeThreading(t *testing.T) {
	fr, err := basis.NewFourier([2]float64{0, 2 * math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewFourier: %v", err)
	}

	cb, err := basis.NewChebyshev([2]float64{-1, 1}, 16, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	comm := mesh.NewSimulatedComm(1)

	dom, err := New([]basis.Basis{fr, cb}, basis.Real, nil, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := fr.CoeffSize(); got != 4 {
		t.Errorf("Fourier.CoeffSize() = %d, want 4 (real input: kmax+1)", got)
	}

	if dom.Dim() != 2 {
		t.Errorf("Dim() = %d, want 2", dom.Dim())
	}

	if len(dom.Bases()) != 2 {
		t.Errorf("len(Bases()) = %d, want 2", len(dom.Bases()))
	}
}

// TestDomainGridSlicesLocalPortion checks Grid returns the locally-owned
// slice of the full basis grid at the current distributor layout, matching
// domain.py's grid() start/shape slicing.
func TestDomainGridSlicesLocalPortion(t *testing.T) {
	cb, err := basis.NewChebyshev([2]float64{0, 1}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	comm := mesh.NewSimulatedComm(1)

	dom, err := New([]basis.Basis{cb}, basis.Real, nil, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	full, err := cb.Grid(1.0)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	local, err := dom.Grid(0, []float64{1.0})
	if err != nil {
		t.Fatalf("dom.Grid: %v", err)
	}

	if len(local) != len(full) {
		t.Fatalf("local grid length = %d, want %d (single rank owns the whole axis)", len(local), len(full))
	}

	for i := range full {
		if local[i] != full[i] {
			t.Errorf("local[%d] = %v, want %v", i, local[i], full[i])
		}
	}
}

// TestDomainRejectsEmptyBases checks that New refuses a domain with no
// bases.
func TestDomainRejectsEmptyBases(t *testing.T) {
	comm := mesh.NewSimulatedComm(1)

	if _, err := New(nil, basis.Real, nil, comm, nil, config.Default()); err == nil {
		t.Fatal("New: expected error for empty bases, got nil")
	}
}
