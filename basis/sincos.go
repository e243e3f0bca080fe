package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/enlighter/dedalus/config"
)

// Parity selects which half of a transverse SinCos series a basis models:
// an all-cosine series (Even) or an all-sine series (Odd).
type Parity int

const (
	// Even models a cosine-only series, coeff_size real wavenumbers 0..N-1.
	Even Parity = 1
	// Odd models a sine-only series, coeff_size real wavenumbers 0..N-1.
	Odd Parity = -1
)

// SinCos is a transverse basis modeling a single parity series (all-cosine
// or all-sine) over a periodic interval. Forward/Backward dispatch to a
// type-II discrete cosine or sine transform depending on Parity.
//
// Differentiate resolves the original implementation's duplicated
// definition (the first of which silently dropped the parity flip):
// DifferentiateMeta reads parity from the meta argument passed to it,
// zeroes the n=0 term when producing an odd-parity result, and flips the
// output parity, since d/dx of a cosine series is a sine series and vice
// versa. Differentiate applies DifferentiateMeta with even parity.
type SinCos struct {
	interval [2]float64
	baseSize int

	gridDType DType
	lib       config.Library

	stretch float64
}

// Meta describes the parity of a field living in a SinCos layout; it is
// threaded explicitly through Differentiate rather than stored globally.
type Meta struct {
	Parity Parity
}

// NewSinCos constructs a SinCos basis of baseSize wavenumbers over interval.
func NewSinCos(interval [2]float64, baseSize int, cfg config.Config) (*SinCos, error) {
	if baseSize < 1 {
		return nil, ErrInvalidSize
	}

	length := interval[1] - interval[0]
	if length <= 0 {
		return nil, ErrInvalidSize
	}

	return &SinCos{
		interval: interval,
		baseSize: baseSize,
		lib:      cfg.DefaultLibrary,
		stretch:  2 * math.Pi / length,
	}, nil
}

func (b *SinCos) Grid(scale float64) ([]float64, error) {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return nil, err
	}

	length := b.interval[1] - b.interval[0]
	out := make([]float64, n)

	for i := range n {
		out[i] = b.interval[0] + length*(float64(i)+0.5)/float64(n)
	}

	return out, nil
}

func (b *SinCos) SetDType(gridDType DType) (DType, error) {
	b.gridDType = gridDType

	return gridDType, nil
}

func (b *SinCos) CoeffSize() int        { return b.baseSize }
func (b *SinCos) BaseGridSize() int     { return b.baseSize }
func (b *SinCos) Interval() [2]float64  { return b.interval }

func (b *SinCos) backend(parity Parity, n int) (dct2Backend, dst2Backend, error) {
	if parity == Even {
		dct, err := newDCT2Backend(b.lib, n)

		return dct, nil, err
	}

	dst, err := newDST2Backend(b.lib, n)

	return nil, dst, err
}

// ForwardParity transforms grid data to coefficients of the given parity.
// (SinCos needs the parity to select cosine vs sine series; it is supplied
// out-of-band here because the Basis interface's Forward has no meta
// parameter — Field threads Meta.Parity through this method instead.)
func (b *SinCos) ForwardParity(gdata, cdata []complex128, scale float64, parity Parity) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	if len(gdata) != n || len(cdata) != n {
		return &SizeError{Op: "SinCos.Forward", Got: len(gdata), Expected: n}
	}

	dct, dst, err := b.backend(parity, n)
	if err != nil {
		return err
	}

	real0 := make([]float64, n)
	imag0 := make([]float64, n)

	for i, v := range gdata {
		real0[i] = real(v)
		imag0[i] = imag(v)
	}

	if parity == Even {
		if err := dct.Forward(real0, real0); err != nil {
			return err
		}

		if err := dct.Forward(imag0, imag0); err != nil {
			return err
		}
	} else {
		if err := dst.Forward(real0, real0); err != nil {
			return err
		}

		if err := dst.Forward(imag0, imag0); err != nil {
			return err
		}
	}

	for i := range n {
		cdata[i] = complex(real0[i], imag0[i])
	}

	return nil
}

// BackwardParity is the inverse of ForwardParity.
func (b *SinCos) BackwardParity(cdata, gdata []complex128, scale float64, parity Parity) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	if len(gdata) != n || len(cdata) != n {
		return &SizeError{Op: "SinCos.Backward", Got: len(gdata), Expected: n}
	}

	dct, dst, err := b.backend(parity, n)
	if err != nil {
		return err
	}

	real0 := make([]float64, n)
	imag0 := make([]float64, n)

	for i, v := range cdata {
		real0[i] = real(v)
		imag0[i] = imag(v)
	}

	if parity == Even {
		if err := dct.Inverse(real0, real0); err != nil {
			return err
		}

		if err := dct.Inverse(imag0, imag0); err != nil {
			return err
		}
	} else {
		if err := dst.Inverse(real0, real0); err != nil {
			return err
		}

		if err := dst.Inverse(imag0, imag0); err != nil {
			return err
		}
	}

	for i := range n {
		gdata[i] = complex(real0[i], imag0[i])
	}

	return nil
}

// Forward implements Basis.Forward by defaulting to even (cosine) parity;
// callers that need explicit parity tracking should use ForwardParity.
func (b *SinCos) Forward(gdata, cdata []complex128, axis int, scale float64) error {
	return b.ForwardParity(gdata, cdata, scale, Even)
}

// Backward implements Basis.Backward by defaulting to even (cosine) parity;
// callers that need explicit parity tracking should use BackwardParity.
func (b *SinCos) Backward(cdata, gdata []complex128, axis int, scale float64) error {
	return b.BackwardParity(cdata, gdata, scale, Even)
}

// Differentiate implements Basis.Differentiate by calling DifferentiateMeta
// with even (cosine) parity, since the Basis interface carries no meta
// argument: it multiplies by the physical wavenumber with the sign of
// d/dx cos(kx), zeroes the n=0 term, and yields odd-parity coefficients.
func (b *SinCos) Differentiate(cdata, cderiv []complex128, axis int) error {
	return b.DifferentiateMeta(cdata, cderiv, Meta{Parity: Even})
}

// DifferentiateMeta differentiates with the input parity read from meta
// (never a package-level or undefined variable), and the output parity is
// the opposite one.
func (b *SinCos) DifferentiateMeta(cdata, cderiv []complex128, meta Meta) error {
	n := b.baseSize
	if len(cdata) != n || len(cderiv) != n {
		return &SizeError{Op: "SinCos.Differentiate", Got: len(cdata), Expected: n}
	}

	if meta.Parity == Odd {
		// d/dx sin(kx) = k*cos(kx): output is even-parity.
		for k := range n {
			cderiv[k] = cdata[k] * complex(float64(k)*b.stretch, 0)
		}
	} else {
		// d/dx cos(kx) = -k*sin(kx): output is odd-parity; the k=0 term of
		// a cosine series is a constant, whose derivative carries no sine
		// content, so it is dropped.
		cderiv[0] = 0

		for k := 1; k < n; k++ {
			cderiv[k] = cdata[k] * complex(-float64(k)*b.stretch, 0)
		}
	}

	return nil
}

// OutputParity returns the parity Differentiate produces given an input
// parity.
func OutputParity(p Parity) Parity {
	return -p
}

// Integrate keeps only the k=0 mode of a cosine series (the mean times the
// domain length); a sine series integrates to exactly zero over a full
// period.
func (b *SinCos) Integrate(cdata, cint []complex128, axis int) error {
	return b.IntegrateMeta(cdata, cint, Meta{Parity: Even})
}

// IntegrateMeta is Integrate with the parity supplied explicitly.
func (b *SinCos) IntegrateMeta(cdata, cint []complex128, meta Meta) error {
	for i := range cint {
		cint[i] = 0
	}

	if meta.Parity == Odd {
		return nil
	}

	length := b.interval[1] - b.interval[0]
	cint[0] = cdata[0] * complex(length, 0)

	return nil
}

// Interpolate evaluates the series (cosine or sine, depending on parity) at
// a physical position.
func (b *SinCos) Interpolate(cdata, cint []complex128, position float64, axis int) error {
	return b.InterpolateMeta(cdata, cint, position, Meta{Parity: Even})
}

// InterpolateMeta is Interpolate with the parity supplied explicitly.
func (b *SinCos) InterpolateMeta(cdata, cint []complex128, position float64, meta Meta) error {
	vec, err := b.interpVectorParity(position, meta.Parity)
	if err != nil {
		return err
	}

	var sum complex128
	for k, v := range vec {
		sum += v * cdata[k]
	}

	for i := range cint {
		cint[i] = 0
	}

	cint[0] = sum

	return nil
}

func (b *SinCos) interpVectorParity(position float64, parity Parity) ([]complex128, error) {
	if position < b.interval[0]-1e-9 || position > b.interval[1]+1e-9 {
		return nil, ErrOutsideInterval
	}

	rel := position - b.interval[0]
	n := b.baseSize
	out := make([]complex128, n)

	for k := range n {
		phase := float64(k) * b.stretch * rel

		if parity == Even {
			out[k] = complex(math.Cos(phase), 0)
		} else {
			out[k] = complex(math.Sin(phase), 0)
		}
	}

	return out, nil
}

// IntegVector returns the coefficient-space integration vector for a
// cosine series (domain length at k=0, zero elsewhere).
func (b *SinCos) IntegVector() []complex128 {
	out := make([]complex128, b.baseSize)
	out[0] = complex(b.interval[1]-b.interval[0], 0)

	return out
}

// InterpVector returns cos(k*x) for every mode (the even-parity vector);
// use interpVectorParity directly for the odd-parity vector.
func (b *SinCos) InterpVector(position float64) ([]complex128, error) {
	return b.interpVectorParity(position, Even)
}

// LeftVector returns the evaluation vector at Interval()[0] for a cosine
// series (cos(0)=1 for every mode); a sine series vanishes identically at
// the left endpoint.
func (b *SinCos) LeftVector() []complex128 {
	out := make([]complex128, b.baseSize)
	for i := range out {
		out[i] = 1
	}

	return out
}

// RightVector returns the evaluation vector at Interval()[1].
func (b *SinCos) RightVector() []complex128 {
	v, _ := b.interpVectorParity(b.interval[1], Even)

	return v
}

// Pre returns the identity matrix.
func (b *SinCos) Pre() *mat.Dense {
	n := b.baseSize
	m := mat.NewDense(n, n, nil)

	for i := range n {
		m.Set(i, i, 1)
	}

	return m
}

// Mult is not supported for SinCos: as with Fourier, multiplication by the
// physical coordinate is not a finite band operation in a transverse
// trigonometric series.
func (b *SinCos) Mult(p int) *mat.Dense {
	n := b.baseSize

	return mat.NewDense(n, n, nil)
}

// Diff returns the dense matrix form of DifferentiateMeta for a cosine
// (even-parity) input.
func (b *SinCos) Diff() *mat.Dense {
	n := b.baseSize
	m := mat.NewDense(n, n, nil)

	e := make([]complex128, n)
	out := make([]complex128, n)

	for col := range n {
		for i := range e {
			e[i] = 0
		}

		e[col] = 1

		_ = b.DifferentiateMeta(e, out, Meta{Parity: Even})

		for row := range n {
			if out[row] != 0 {
				m.Set(row, col, real(out[row]))
			}
		}
	}

	return m
}
