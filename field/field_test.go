package field

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
	"github.com/enlighter/dedalus/domain"
	"github.com/enlighter/dedalus/mesh"
)

// TestFieldRoundTripWithScale is scenario S6: a 2-D Fourier x Chebyshev
// domain, sizes [16,32], dealiasing scale [1.5,1.5]. Setting coefficient
// data, stepping to grid space, and stepping back must recover the
// original coefficients to floating-point precision.
func TestFieldRoundTripWithScale(t *testing.T) {
	fr, err := basis.NewFourier([2]float64{0, 2 * math.Pi}, 16, config.Default())
	if err != nil {
		t.Fatalf("NewFourier: %v", err)
	}

	cb, err := basis.NewChebyshev([2]float64{-1, 1}, 32, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev: %v", err)
	}

	comm := mesh.NewSimulatedComm(1)

	dom, err := domain.New([]basis.Basis{fr, cb}, basis.Complex, nil, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}

	scales := []float64{1.5, 1.5}

	f, err := dom.NewField(scales)
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	defer f.Release()

	n := fr.CoeffSize() * cb.CoeffSize()

	cdata := make([]complex128, n)
	for i := range cdata {
		cdata[i] = complex(math.Sin(float64(i)*0.31), math.Cos(float64(i)*0.17))
	}

	if err := f.Set("c", cdata); err != nil {
		t.Fatalf("Set(c): %v", err)
	}

	if _, err := f.Get("g"); err != nil {
		t.Fatalf("Get(g): %v", err)
	}

	back, err := f.Get("c")
	if err != nil {
		t.Fatalf("Get(c): %v", err)
	}

	var maxErr float64

	for i := range cdata {
		if d := cmplx.Abs(back[i] - cdata[i]); d > maxErr {
			maxErr = d
		}
	}

	if maxErr > 1e-8 {
		t.Errorf("round trip Linf error = %v, want <= 1e-8", maxErr)
	}
}

// TestFieldSetGetMismatchedLength checks that Set rejects data that does
// not match the target layout's size.
func TestFieldSetGetMismatchedLength(t *testing.T) {
	fr, err := basis.NewFourier([2]float64{0, 2 * math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewFourier: %v", err)
	}

	comm := mesh.NewSimulatedComm(1)

	dom, err := domain.New([]basis.Basis{fr}, basis.Real, nil, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}

	f, err := dom.NewField([]float64{1.0})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	defer f.Release()

	if err := f.Set("c", make([]complex128, 1)); err == nil {
		t.Fatal("Set: expected error for mismatched data length, got nil")
	}
}

// TestFieldReleaseResetsToCoeffLayout checks that releasing a field to its
// pool clears its buffer and leaves it in the coefficient layout, ready for
// reuse (mirroring the original's field-cache reclaim behavior).
func TestFieldReleaseResetsToCoeffLayout(t *testing.T) {
	fr, err := basis.NewFourier([2]float64{0, 2 * math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewFourier: %v", err)
	}

	comm := mesh.NewSimulatedComm(1)

	dom, err := domain.New([]basis.Basis{fr}, basis.Real, nil, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("domain.New: %v", err)
	}

	f, err := dom.NewField([]float64{1.0})
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}

	cdata := make([]complex128, fr.CoeffSize())
	cdata[0] = 1

	if err := f.Set("c", cdata); err != nil {
		t.Fatalf("Set(c): %v", err)
	}

	f.Release()

	reused, err := dom.NewField([]float64{1.0})
	if err != nil {
		t.Fatalf("NewField after release: %v", err)
	}

	if reused != f {
		t.Fatal("NewField after Release should return the same field instance from the free list")
	}

	if reused.Layout() != dom.Distributor().CoeffLayout {
		t.Error("reused field should be in the coefficient layout")
	}

	for _, v := range reused.Data() {
		if v != 0 {
			t.Errorf("reused field buffer should be zeroed, got %v", v)
		}
	}
}
