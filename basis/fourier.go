package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/enlighter/dedalus/config"
	"github.com/enlighter/dedalus/fftlib"
)

// Fourier is a transverse basis of complex exponentials exp(i*k*x) on a
// periodic interval, always stored with complex coefficients regardless of
// whether the grid data is real or complex.
type Fourier struct {
	interval [2]float64
	baseSize int
	kmax     int

	gridDType DType
	lib       config.Library

	stretch float64 // 2*pi / interval length, maps native wavenumbers to physical ones
}

// NewFourier constructs a Fourier basis of baseSize grid points over interval.
func NewFourier(interval [2]float64, baseSize int, cfg config.Config) (*Fourier, error) {
	if baseSize < 1 {
		return nil, ErrInvalidSize
	}

	length := interval[1] - interval[0]
	if length <= 0 {
		return nil, ErrInvalidSize
	}

	return &Fourier{
		interval: interval,
		baseSize: baseSize,
		kmax:     (baseSize - 1) / 2,
		lib:      cfg.DefaultLibrary,
		stretch:  2 * math.Pi / length,
	}, nil
}

// Grid returns the evenly spaced points x_n = a + n*(b-a)/N, n=0..N-1.
func (b *Fourier) Grid(scale float64) ([]float64, error) {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return nil, err
	}

	length := b.interval[1] - b.interval[0]
	out := make([]float64, n)

	for i := range n {
		out[i] = b.interval[0] + length*float64(i)/float64(n)
	}

	return out, nil
}

func (b *Fourier) SetDType(gridDType DType) (DType, error) {
	b.gridDType = gridDType

	return Complex, nil
}

// CoeffSize returns 2*kmax+1 for complex grid data, kmax+1 for real grid
// data (only non-negative wavenumbers are stored).
func (b *Fourier) CoeffSize() int {
	if b.gridDType == Real {
		return b.kmax + 1
	}

	return 2*b.kmax + 1
}

func (b *Fourier) BaseGridSize() int    { return b.baseSize }
func (b *Fourier) Interval() [2]float64 { return b.interval }

// wavenumber returns the physical wavenumber for native coefficient index k
// in a complex-coefficient layout of size 2*kmax+1: indices 0..kmax hold
// k=0..kmax, indices kmax+1..2*kmax hold k=-kmax..-1.
func (b *Fourier) wavenumber(index int) int {
	if index <= b.kmax {
		return index
	}

	return index - (2*b.kmax + 1)
}

func (b *Fourier) Forward(gdata, cdata []complex128, axis int, scale float64) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	if len(gdata) != n {
		return &SizeError{Op: "Fourier.Forward gdata", Got: len(gdata), Expected: n}
	}

	cx, err := fftlib.NewComplex1D(b.lib, n)
	if err != nil {
		return err
	}

	raw := make([]complex128, n)
	if err := cx.Forward(raw, gdata); err != nil {
		return err
	}

	scaleFactor := complex(1.0/float64(n), 0)
	for i := range raw {
		raw[i] *= scaleFactor
	}

	return b.resizeCoeffs(raw, cdata)
}

func (b *Fourier) Backward(cdata, gdata []complex128, axis int, scale float64) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	raw := make([]complex128, n)
	if err := b.expandCoeffs(cdata, raw); err != nil {
		return err
	}

	// Forward stores coefficients divided by n and the inverse FFT divides
	// by n again, so undo one of the two.
	for i := range raw {
		raw[i] *= complex(float64(n), 0)
	}

	cx, err := fftlib.NewComplex1D(b.lib, n)
	if err != nil {
		return err
	}

	if len(gdata) != n {
		return &SizeError{Op: "Fourier.Backward gdata", Got: len(gdata), Expected: n}
	}

	return cx.Backward(gdata, raw)
}

// resizeCoeffs converts a full-size complex-FFT-ordered spectrum (length n,
// index i holds wavenumber i for i<=n/2, wavenumber i-n otherwise) into the
// basis's native storage, truncating to kmax and dropping the Nyquist mode
// when n is even.
func (b *Fourier) resizeCoeffs(raw []complex128, cdata []complex128) error {
	n := len(raw)

	if b.gridDType == Real {
		if len(cdata) != b.kmax+1 {
			return &SizeError{Op: "Fourier.resizeCoeffs (real)", Got: len(cdata), Expected: b.kmax + 1}
		}

		for k := 0; k <= b.kmax; k++ {
			if k < n {
				cdata[k] = raw[k]
			} else {
				cdata[k] = 0
			}
		}

		return nil
	}

	if len(cdata) != 2*b.kmax+1 {
		return &SizeError{Op: "Fourier.resizeCoeffs (complex)", Got: len(cdata), Expected: 2*b.kmax + 1}
	}

	for i := range cdata {
		cdata[i] = 0
	}

	for k := 0; k <= b.kmax && k < n; k++ {
		cdata[k] = raw[k]
	}

	for k := 1; k <= b.kmax; k++ {
		src := n - k
		if src >= 0 && src < n && src > b.kmax {
			cdata[2*b.kmax+1-k] = raw[src]
		}
	}

	return nil
}

// expandCoeffs is the inverse of resizeCoeffs: it builds a full-size
// complex-FFT-ordered spectrum from the basis's native coefficient storage,
// zero-padding any wavenumber above kmax.
func (b *Fourier) expandCoeffs(cdata []complex128, raw []complex128) error {
	n := len(raw)

	for i := range raw {
		raw[i] = 0
	}

	if b.gridDType == Real {
		if len(cdata) != b.kmax+1 {
			return &SizeError{Op: "Fourier.expandCoeffs (real)", Got: len(cdata), Expected: b.kmax + 1}
		}

		for k := 0; k <= b.kmax && k < n; k++ {
			raw[k] = cdata[k]
			if k > 0 {
				src := n - k
				if src >= 0 && src < n {
					raw[src] = complexConj(cdata[k])
				}
			}
		}

		return nil
	}

	if len(cdata) != 2*b.kmax+1 {
		return &SizeError{Op: "Fourier.expandCoeffs (complex)", Got: len(cdata), Expected: 2*b.kmax + 1}
	}

	for k := 0; k <= b.kmax && k < n; k++ {
		raw[k] = cdata[k]
	}

	for k := 1; k <= b.kmax; k++ {
		dst := n - k
		if dst >= 0 && dst < n && dst > b.kmax {
			raw[dst] = cdata[2*b.kmax+1-k]
		}
	}

	return nil
}

func complexConj(v complex128) complex128 {
	return complex(real(v), -imag(v))
}

// Differentiate multiplies each coefficient by i*k_n*stretch.
func (b *Fourier) Differentiate(cdata, cderiv []complex128, axis int) error {
	if len(cdata) != len(cderiv) {
		return ErrSizeMismatch
	}

	for idx := range cdata {
		var k int
		if b.gridDType == Real {
			k = idx
		} else {
			k = b.wavenumber(idx)
		}

		phys := float64(k) * b.stretch
		cderiv[idx] = cdata[idx] * complex(0, phys)
	}

	return nil
}

// Integrate keeps only the k=0 mode, scaled by the interval length (the
// mean value times the domain length).
func (b *Fourier) Integrate(cdata, cint []complex128, axis int) error {
	for i := range cint {
		cint[i] = 0
	}

	length := b.interval[1] - b.interval[0]
	cint[0] = cdata[0] * complex(length, 0)

	return nil
}

// Interpolate contracts the coefficients with InterpVector(position). When
// the grid dtype is real it keeps only the real part of that sum, which
// adds the implicit -k conjugate of every stored k>0 mode.
func (b *Fourier) Interpolate(cdata, cint []complex128, position float64, axis int) error {
	vec, err := b.InterpVector(position)
	if err != nil {
		return err
	}

	var sum complex128
	for k, v := range vec {
		sum += v * cdata[k]
	}

	if b.gridDType == Real {
		sum = complex(real(sum), 0)
	}

	for i := range cint {
		cint[i] = 0
	}

	cint[0] = sum

	return nil
}

// IntegVector returns the coefficient-space integration vector: the domain
// length at k=0, zero elsewhere.
func (b *Fourier) IntegVector() []complex128 {
	out := make([]complex128, b.CoeffSize())
	out[0] = complex(b.interval[1]-b.interval[0], 0)

	return out
}

// InterpVector returns exp(i*k_n*(x-a)) for every stored mode. For real
// grid data the k>0 weights are doubled (each stored mode stands for both
// +k and -k) and the k=0 weight stays 1, so the real part of the
// contraction with the coefficients is the value at x.
func (b *Fourier) InterpVector(position float64) ([]complex128, error) {
	if position < b.interval[0]-1e-9 || position > b.interval[1]+1e-9 {
		return nil, ErrOutsideInterval
	}

	rel := position - b.interval[0]
	n := b.CoeffSize()
	out := make([]complex128, n)

	for idx := range n {
		var k int
		if b.gridDType == Real {
			k = idx
		} else {
			k = b.wavenumber(idx)
		}

		phase := float64(k) * b.stretch * rel
		w := complex(math.Cos(phase), math.Sin(phase))

		if b.gridDType == Real && idx == 0 {
			w *= 1
		} else if b.gridDType == Real {
			w *= 2
		}

		out[idx] = w
	}

	return out, nil
}

// LeftVector returns the evaluation vector at Interval()[0].
func (b *Fourier) LeftVector() []complex128 {
	v, _ := b.InterpVector(b.interval[0])

	return v
}

// RightVector returns the evaluation vector approaching Interval()[1] from
// inside the periodic domain (identical to LeftVector since the basis is
// periodic: f(a) == f(b)).
func (b *Fourier) RightVector() []complex128 {
	return b.LeftVector()
}

// Pre returns the identity matrix: the complex exponential series is its
// own explicit (evaluation) basis.
func (b *Fourier) Pre() *mat.Dense {
	n := b.CoeffSize()
	m := mat.NewDense(n, n, nil)

	for i := range n {
		m.Set(i, i, 1)
	}

	return m
}

// Mult is not supported for Fourier: multiplication by x is not a finite
// band operation in a periodic complex-exponential series (x is not
// periodic), so callers needing polynomial multiplication should use a
// Chebyshev or Compound basis instead.
func (b *Fourier) Mult(p int) *mat.Dense {
	n := b.CoeffSize()

	return mat.NewDense(n, n, nil)
}

// Diff returns a diagonal matrix built from Differentiate on unit vectors.
// mat.Dense holds real entries only, and each diagonal entry i*k_n*stretch
// is purely imaginary; Diff stores its real part, which is zero, so the
// result is the zero matrix.
func (b *Fourier) Diff() *mat.Dense {
	n := b.CoeffSize()
	m := mat.NewDense(n, n, nil)

	e := make([]complex128, n)
	out := make([]complex128, n)

	for col := range n {
		for i := range e {
			e[i] = 0
		}

		e[col] = 1

		_ = b.Differentiate(e, out, 0)
		m.Set(col, col, real(out[col]))
	}

	return m
}

// HilbertTransform multiplies each nonzero-wavenumber coefficient by
// -i*sign(k), a supplemented operation from the original implementation not
// carried in the basis.py distillation but useful for e.g. envelope
// detection of transverse series.
func (b *Fourier) HilbertTransform(cdata, cout []complex128) error {
	if len(cdata) != len(cout) {
		return ErrSizeMismatch
	}

	for idx := range cdata {
		var k int
		if b.gridDType == Real {
			k = idx
		} else {
			k = b.wavenumber(idx)
		}

		switch {
		case k > 0:
			cout[idx] = cdata[idx] * complex(0, -1)
		case k < 0:
			cout[idx] = cdata[idx] * complex(0, 1)
		default:
			cout[idx] = 0
		}
	}

	return nil
}
