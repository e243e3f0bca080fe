package basis

import (
	"math"
	"testing"

	"github.com/enlighter/dedalus/config"
)

// TestSinCosDifferentiateParityFlip checks that differentiating an
// odd-parity (sine) series yields an even-parity (cosine) series scaled by
// the physical wavenumber, and that differentiating an even-parity series
// drops its k=0 term since a constant has no sine content.
func TestSinCosDifferentiateParityFlip(t *testing.T) {
	sc, err := NewSinCos([2]float64{0, math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewSinCos: %v", err)
	}

	cdata := make([]complex128, 8)
	cdata[1] = 1

	out := make([]complex128, 8)
	if err := sc.DifferentiateMeta(cdata, out, Meta{Parity: Odd}); err != nil {
		t.Fatalf("DifferentiateMeta (odd): %v", err)
	}

	stretch := 2 * math.Pi / math.Pi // length = pi
	want := complex(1*stretch, 0)

	if math.Abs(real(out[1])-real(want)) > tol {
		t.Errorf("d/dx sin mode 1 = %v, want %v", out[1], want)
	}

	for k, v := range out {
		if k == 1 {
			continue
		}

		if math.Abs(real(v)) > tol {
			t.Errorf("d/dx sin mode %d = %v, want 0", k, v)
		}
	}

	if OutputParity(Odd) != Even {
		t.Errorf("OutputParity(Odd) = %v, want Even", OutputParity(Odd))
	}

	cosData := make([]complex128, 8)
	cosData[0] = 1
	cosData[2] = 1

	cosOut := make([]complex128, 8)
	if err := sc.DifferentiateMeta(cosData, cosOut, Meta{Parity: Even}); err != nil {
		t.Fatalf("DifferentiateMeta (even): %v", err)
	}

	if cosOut[0] != 0 {
		t.Errorf("d/dx cos mode 0 = %v, want 0", cosOut[0])
	}

	wantMode2 := complex(-2*stretch, 0)
	if math.Abs(real(cosOut[2])-real(wantMode2)) > tol {
		t.Errorf("d/dx cos mode 2 = %v, want %v", cosOut[2], wantMode2)
	}

	if OutputParity(Even) != Odd {
		t.Errorf("OutputParity(Even) = %v, want Odd", OutputParity(Even))
	}
}

// TestSinCosRoundTrip checks forward(backward(c)) recovers c for both
// parities.
func TestSinCosRoundTrip(t *testing.T) {
	sc, err := NewSinCos([2]float64{0, math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewSinCos: %v", err)
	}

	for _, parity := range []Parity{Even, Odd} {
		cdata := make([]complex128, 8)
		for i := range cdata {
			cdata[i] = complex(float64(i+1)*0.25, 0)
		}

		gdata := make([]complex128, 8)
		if err := sc.BackwardParity(cdata, gdata, 1.0, parity); err != nil {
			t.Fatalf("BackwardParity(%v): %v", parity, err)
		}

		back := make([]complex128, 8)
		if err := sc.ForwardParity(gdata, back, 1.0, parity); err != nil {
			t.Fatalf("ForwardParity(%v): %v", parity, err)
		}

		for i := range cdata {
			if math.Abs(real(back[i])-real(cdata[i])) > 1e-8 {
				t.Errorf("parity %v round trip mode %d = %v, want %v", parity, i, back[i], cdata[i])
			}
		}
	}
}

// TestSinCosIntegrate checks that an odd-parity series integrates to zero
// over a full period, while an even-parity series keeps only its k=0 term
// scaled by the interval length.
func TestSinCosIntegrate(t *testing.T) {
	sc, err := NewSinCos([2]float64{0, math.Pi}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewSinCos: %v", err)
	}

	cdata := make([]complex128, 8)
	cdata[0] = 2
	cdata[3] = 5

	cint := make([]complex128, 8)
	if err := sc.IntegrateMeta(cdata, cint, Meta{Parity: Odd}); err != nil {
		t.Fatalf("IntegrateMeta (odd): %v", err)
	}

	for i, v := range cint {
		if v != 0 {
			t.Errorf("odd-parity integral mode %d = %v, want 0", i, v)
		}
	}

	if err := sc.IntegrateMeta(cdata, cint, Meta{Parity: Even}); err != nil {
		t.Fatalf("IntegrateMeta (even): %v", err)
	}

	want := complex(2*math.Pi, 0)
	if math.Abs(real(cint[0])-real(want)) > tol {
		t.Errorf("even-parity integral mode 0 = %v, want %v", cint[0], want)
	}

	for i := 1; i < len(cint); i++ {
		if cint[i] != 0 {
			t.Errorf("even-parity integral mode %d = %v, want 0", i, cint[i])
		}
	}
}
