package basis

import (
	"math"

	"github.com/enlighter/dedalus/config"
	"github.com/enlighter/dedalus/fftlib"
	"github.com/enlighter/dedalus/r2r"
)

// dct2Backend performs a type-II discrete cosine transform of fixed length,
// giving Chebyshev and even-parity SinCos series a choice of engine: the
// fftw backend reuses r2r.DCT2Plan's cached algo-fft plan, while the scipy
// backend re-derives the same even-extension formula on top of a stateless
// gonum complex FFT, matching the original's lighter-weight scipy path.
type dct2Backend interface {
	Len() int
	Forward(dst, src []float64) error
	Inverse(dst, src []float64) error
}

func newDCT2Backend(lib config.Library, n int) (dct2Backend, error) {
	switch lib {
	case config.LibraryScipy:
		return newScipyDCT2(n)
	default:
		return r2r.NewDCT2Plan(n)
	}
}

// scipyDCT2 implements DCT-II via the even-extension-into-FFT technique
// (the same technique r2r.DCT2Plan documents), but driven by the stateless
// scipy-style complex FFT backend instead of a cached algo-fft plan.
type scipyDCT2 struct {
	n         int
	extendedN int
	cx        fftlib.Complex1D
	phase     []complex128
	in        []complex128
	out       []complex128
}

func newScipyDCT2(n int) (*scipyDCT2, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}

	extendedN := 2 * n

	cx, err := fftlib.NewComplex1D(config.LibraryScipy, extendedN)
	if err != nil {
		return nil, err
	}

	phase := make([]complex128, n)
	den := 2.0 * float64(n)

	for k := range n {
		angle := -math.Pi * float64(k) / den
		phase[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	return &scipyDCT2{
		n:         n,
		extendedN: extendedN,
		cx:        cx,
		phase:     phase,
		in:        make([]complex128, extendedN),
		out:       make([]complex128, extendedN),
	}, nil
}

func (p *scipyDCT2) Len() int { return p.n }

func (p *scipyDCT2) Forward(dst, src []float64) error {
	if len(dst) != p.n || len(src) != p.n {
		return ErrSizeMismatch
	}

	for i := range p.extendedN {
		p.in[i] = 0
	}

	for i := range p.n {
		p.in[i] = complex(src[i], 0)
		p.in[p.extendedN-1-i] = complex(src[i], 0)
	}

	if err := p.cx.Forward(p.out, p.in); err != nil {
		return err
	}

	for k := range p.n {
		shifted := p.out[k] * p.phase[k]
		dst[k] = real(shifted) / 2.0
	}

	return nil
}

func (p *scipyDCT2) Inverse(dst, src []float64) error {
	if len(dst) != p.n || len(src) != p.n {
		return ErrSizeMismatch
	}

	srcData := src
	if &src[0] == &dst[0] {
		srcData = make([]float64, p.n)
		copy(srcData, src)
	}

	for n := range p.n {
		sum := 0.0
		for k := range p.n {
			weight := 2.0 / float64(p.n)
			if k == 0 {
				weight = 1.0 / float64(p.n)
			}

			sum += (srcData[k] * weight) * r2r.DCT2Coefficient(n, k, p.n)
		}

		dst[n] = sum
	}

	return nil
}

// dst2Backend performs a type-II discrete sine transform of fixed length,
// used for odd-parity SinCos series, with the same fftw/scipy choice as
// dct2Backend.
type dst2Backend interface {
	Len() int
	Forward(dst, src []float64) error
	Inverse(dst, src []float64) error
}

func newDST2Backend(lib config.Library, n int) (dst2Backend, error) {
	switch lib {
	case config.LibraryScipy:
		return newScipyDST2(n)
	default:
		return r2r.NewDST2Plan(n)
	}
}

type scipyDST2 struct {
	n         int
	extendedN int
	cx        fftlib.Complex1D
	phase     []complex128
	in        []complex128
	out       []complex128
}

func newScipyDST2(n int) (*scipyDST2, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}

	extendedN := 2 * n

	cx, err := fftlib.NewComplex1D(config.LibraryScipy, extendedN)
	if err != nil {
		return nil, err
	}

	phase := make([]complex128, n)
	den := 2.0 * float64(n)

	for k := range n {
		angle := -math.Pi * float64(k+1) / den
		phase[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	return &scipyDST2{
		n:         n,
		extendedN: extendedN,
		cx:        cx,
		phase:     phase,
		in:        make([]complex128, extendedN),
		out:       make([]complex128, extendedN),
	}, nil
}

func (p *scipyDST2) Len() int { return p.n }

func (p *scipyDST2) Forward(dst, src []float64) error {
	if len(dst) != p.n || len(src) != p.n {
		return ErrSizeMismatch
	}

	for i := range p.extendedN {
		p.in[i] = 0
	}

	for i := range p.n {
		p.in[i] = complex(src[i], 0)
		p.in[p.extendedN-1-i] = complex(-src[i], 0)
	}

	if err := p.cx.Forward(p.out, p.in); err != nil {
		return err
	}

	for k := range p.n {
		shifted := p.out[k+1] * p.phase[k]
		dst[k] = -imag(shifted) / 2.0
	}

	return nil
}

func (p *scipyDST2) Inverse(dst, src []float64) error {
	if len(dst) != p.n || len(src) != p.n {
		return ErrSizeMismatch
	}

	srcData := src
	if &src[0] == &dst[0] {
		srcData = make([]float64, p.n)
		copy(srcData, src)
	}

	for n := range p.n {
		sum := 0.0
		for k := range p.n {
			weight := 2.0 / float64(p.n)
			if k == p.n-1 {
				weight = 1.0 / float64(p.n)
			}

			sum += (srcData[k] * weight) * r2r.DST2Coefficient(n, k, p.n)
		}

		dst[n] = sum
	}

	return nil
}
