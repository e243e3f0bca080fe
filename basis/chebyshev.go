package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/enlighter/dedalus/config"
)

// Chebyshev is an implicit basis over Chebyshev polynomials T_n(x) on a
// finite interval, transformed via a type-II discrete cosine transform on
// the roots grid x_k = -cos(pi*(k+1/2)/N).
type Chebyshev struct {
	interval [2]float64
	baseSize int

	gridDType  DType
	coeffDType DType

	lib config.Library
	dct dct2Backend

	stretch float64 // (b-a)/2, maps the canonical [-1,1] root grid onto Interval()
}

// NewChebyshev constructs a Chebyshev basis of baseSize modes over interval.
func NewChebyshev(interval [2]float64, baseSize int, cfg config.Config) (*Chebyshev, error) {
	if baseSize < 1 {
		return nil, ErrInvalidSize
	}

	dct, err := newDCT2Backend(cfg.DefaultLibrary, baseSize)
	if err != nil {
		return nil, err
	}

	return &Chebyshev{
		interval: interval,
		baseSize: baseSize,
		lib:      cfg.DefaultLibrary,
		dct:      dct,
		stretch:  (interval[1] - interval[0]) / 2,
	}, nil
}

// Grid returns the physical roots grid at the given scale.
func (b *Chebyshev) Grid(scale float64) ([]float64, error) {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for k := range n {
		xi := -math.Cos(math.Pi * (float64(k) + 0.5) / float64(n))
		out[k] = b.problemCoord(xi)
	}

	return out, nil
}

// problemCoord maps the canonical [-1,1] coordinate onto Interval().
func (b *Chebyshev) problemCoord(xi float64) float64 {
	mid := (b.interval[1] + b.interval[0]) / 2

	return mid + b.stretch*xi
}

func (b *Chebyshev) SetDType(gridDType DType) (DType, error) {
	b.gridDType = gridDType
	b.coeffDType = gridDType

	return b.coeffDType, nil
}

func (b *Chebyshev) CoeffSize() int     { return b.baseSize }
func (b *Chebyshev) BaseGridSize() int  { return b.baseSize }
func (b *Chebyshev) Interval() [2]float64 { return b.interval }

// resizeEnd pads with zeros or truncates at the end, matching the original's
// _resize_coeffs (Chebyshev coefficients decay towards high n, so extra
// modes are simply dropped/zeroed).
func resizeEnd(dst, src []complex128) {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func (b *Chebyshev) Forward(gdata, cdata []complex128, axis int, scale float64) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	if len(gdata) != n {
		return &SizeError{Op: "Chebyshev.Forward gdata", Got: len(gdata), Expected: n}
	}

	real0 := make([]float64, n)
	imag0 := make([]float64, n)

	for i, v := range gdata {
		real0[i] = real(v)
		imag0[i] = imag(v)
	}

	dctPlan := b.dct
	if n != b.baseSize {
		dctPlan, err = newDCT2Backend(b.lib, n)
		if err != nil {
			return err
		}
	}

	if err := dctPlan.Forward(real0, real0); err != nil {
		return err
	}

	if err := dctPlan.Forward(imag0, imag0); err != nil {
		return err
	}

	raw := make([]complex128, n)
	scaleFactor := 2.0 / float64(n)

	for k := range n {
		s := scaleFactor
		if k == 0 {
			s *= 0.5
		}
		if k%2 == 1 {
			s = -s
		}

		raw[k] = complex(real0[k]*s, imag0[k]*s)
	}

	if len(cdata) != b.baseSize {
		return &SizeError{Op: "Chebyshev.Forward cdata", Got: len(cdata), Expected: b.baseSize}
	}

	resizeEnd(cdata, raw)

	return nil
}

func (b *Chebyshev) Backward(cdata, gdata []complex128, axis int, scale float64) error {
	n, err := gridSize(b.baseSize, scale)
	if err != nil {
		return err
	}

	if len(cdata) != b.baseSize {
		return &SizeError{Op: "Chebyshev.Backward cdata", Got: len(cdata), Expected: b.baseSize}
	}

	raw := make([]complex128, n)
	resizeEnd(raw, cdata)

	real0 := make([]float64, n)
	imag0 := make([]float64, n)

	for k := range n {
		s := float64(n) / 2
		if k == 0 {
			s = float64(n)
		}
		if k%2 == 1 {
			s = -s
		}

		real0[k] = real(raw[k]) * s
		imag0[k] = imag(raw[k]) * s
	}

	dctPlan := b.dct
	if n != b.baseSize {
		dctPlan, err = newDCT2Backend(b.lib, n)
		if err != nil {
			return err
		}
	}

	if err := dctPlan.Inverse(real0, real0); err != nil {
		return err
	}

	if err := dctPlan.Inverse(imag0, imag0); err != nil {
		return err
	}

	if len(gdata) != n {
		return &SizeError{Op: "Chebyshev.Backward gdata", Got: len(gdata), Expected: n}
	}

	for i := range n {
		gdata[i] = complex(real0[i], imag0[i])
	}

	return nil
}

// Differentiate applies the recursion b[N]=0, b[N-1]=2N*a[N],
// b[i] = 2(i+1)a[i+1] + b[i+2], b[0] = a[1] + b[2]/2, then divides by the
// interval's half-width to account for the coordinate stretch.
func (b *Chebyshev) Differentiate(cdata, cderiv []complex128, axis int) error {
	n := b.baseSize
	if len(cdata) != n || len(cderiv) != n {
		return &SizeError{Op: "Chebyshev.Differentiate", Got: len(cdata), Expected: n}
	}

	out := make([]complex128, n)
	if n >= 1 {
		out[n-1] = 0
	}
	if n >= 2 {
		out[n-2] = complex(2*float64(n-1), 0) * cdata[n-1]
	}

	for i := n - 3; i >= 0; i-- {
		out[i] = complex(2*float64(i+1), 0)*cdata[i+1] + out[i+2]
	}

	if n >= 2 {
		out[0] = cdata[1] + out[2]/2
	} else if n == 1 {
		out[0] = 0
	}

	for i := range out {
		cderiv[i] = out[i] / complex(b.stretch, 0)
	}

	return nil
}

// Integrate computes 2/(1-n^2) for even n (0 for odd n), scaled by the
// interval stretch, and writes the sum into mode 0 of cint.
func (b *Chebyshev) Integrate(cdata, cint []complex128, axis int) error {
	n := b.baseSize
	if len(cdata) != n || len(cint) != n {
		return &SizeError{Op: "Chebyshev.Integrate", Got: len(cdata), Expected: n}
	}

	var sum complex128
	for k, v := range b.IntegVector() {
		sum += complex(v, 0) * cdata[k]
	}

	for i := range cint {
		cint[i] = 0
	}

	cint[0] = sum

	return nil
}

// Interpolate evaluates sum_n c_n cos(n*acos(xi)) at the physical position.
func (b *Chebyshev) Interpolate(cdata, cint []complex128, position float64, axis int) error {
	vec, err := b.InterpVector(position)
	if err != nil {
		return err
	}

	var sum complex128
	for k, v := range vec {
		sum += complex(v, 0) * cdata[k]
	}

	for i := range cint {
		cint[i] = 0
	}

	cint[0] = sum

	return nil
}

// IntegVector returns 2/(1-n^2) for even n scaled by the interval stretch.
func (b *Chebyshev) IntegVector() []complex128 {
	n := b.baseSize
	out := make([]complex128, n)

	for k := range n {
		if k%2 == 1 {
			continue
		}

		v := 2.0 / (1 - float64(k*k)) * b.stretch
		out[k] = complex(v, 0)
	}

	return out
}

// InterpVector returns cos(n*acos(xi)) for the canonical coordinate xi
// corresponding to position.
func (b *Chebyshev) InterpVector(position float64) ([]complex128, error) {
	if position < min(b.interval[0], b.interval[1])-1e-9 ||
		position > max(b.interval[0], b.interval[1])+1e-9 {
		return nil, ErrOutsideInterval
	}

	mid := (b.interval[1] + b.interval[0]) / 2
	xi := (position - mid) / b.stretch
	xi = clamp(xi, -1, 1)

	n := b.baseSize
	out := make([]complex128, n)
	theta := math.Acos(xi)

	for k := range n {
		out[k] = complex(math.Cos(float64(k)*theta), 0)
	}

	return out, nil
}

// LeftVector returns cos(n*pi) = (-1)^n, the evaluation vector at x=-1.
func (b *Chebyshev) LeftVector() []complex128 {
	out := make([]complex128, b.baseSize)
	for k := range out {
		if k%2 == 0 {
			out[k] = 1
		} else {
			out[k] = -1
		}
	}

	return out
}

// RightVector returns cos(0) = 1 for every mode, the evaluation vector at x=1.
func (b *Chebyshev) RightVector() []complex128 {
	out := make([]complex128, b.baseSize)
	for k := range out {
		out[k] = 1
	}

	return out
}

// Pre returns the identity basis-change matrix: Chebyshev T_n is already
// the implicit basis used for evaluation, so no change of basis is needed.
func (b *Chebyshev) Pre() *mat.Dense {
	n := b.baseSize
	m := mat.NewDense(n, n, nil)
	for i := range n {
		m.Set(i, i, 1)
	}

	return m
}

// Mult returns the coefficient-space matrix for multiplication by T_1^p,
// built from the three-term recurrence T_1*T_n = (T_{n+1}+T_{n-1})/2.
func (b *Chebyshev) Mult(p int) *mat.Dense {
	n := b.baseSize
	m := mat.NewDense(n, n, nil)

	for i := range n {
		m.Set(i, i, 1)
	}

	single := mat.NewDense(n, n, nil)
	for row := range n {
		if row+1 < n {
			w := 0.5
			if row == 0 {
				w = 1.0
			}

			single.Set(row+1, row, single.At(row+1, row)+w)
		}

		if row-1 >= 0 {
			single.Set(row-1, row, single.At(row-1, row)+0.5)
		} else if row == 1 {
			single.Set(0, row, single.At(0, row)+0.5)
		}
	}

	for range p {
		var next mat.Dense

		next.Mul(single, m)
		m = &next
	}

	return m
}

// Diff returns the dense matrix form of Differentiate.
func (b *Chebyshev) Diff() *mat.Dense {
	n := b.baseSize
	m := mat.NewDense(n, n, nil)

	for col := 0; col < n; col++ {
		e := make([]complex128, n)
		e[col] = 1

		out := make([]complex128, n)
		_ = b.Differentiate(e, out, 0)

		for row := range n {
			m.Set(row, col, real(out[row]))
		}
	}

	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
