// Package fftlib wraps the two transform backends a Basis can select
// between: a plan-caching "fftw" backend built on algo-fft (the same
// library the r2r kernels use), and a stateless "scipy" backend built on
// gonum/fourier. Bases ask for a Complex1D of a given size and never
// touch the underlying complex FFT library directly, so the
// library selection in config.Config is the only place the choice is made.
package fftlib

import (
	"fmt"
	"sync"
	"unsafe"

	algofft "github.com/MeKo-Christian/algo-fft"
	"golang.org/x/sys/cpu"
	"gonum.org/v1/gonum/fourier"

	"github.com/enlighter/dedalus/config"
)

// Complex1D performs forward/backward complex FFTs of a fixed length.
type Complex1D interface {
	Len() int
	Forward(dst, src []complex128) error
	Backward(dst, src []complex128) error
}

// NewComplex1D returns a Complex1D backend for length n, selecting the
// implementation named by lib.
func NewComplex1D(lib config.Library, n int) (Complex1D, error) {
	switch lib {
	case config.LibraryFFTW:
		return newFFTWComplex1D(n)
	case config.LibraryScipy:
		return newScipyComplex1D(n)
	default:
		return nil, fmt.Errorf("fftlib: unknown library %v", lib)
	}
}

// fftwComplex1D caches one algo-fft plan per size, reused across calls the
// way FFTW's planner amortizes setup cost across repeated transforms.
type fftwComplex1D struct {
	n    int
	plan *algofft.Plan[complex128]
}

var (
	fftwPlanCacheMu sync.Mutex
	fftwPlanCache   = map[int]*algofft.Plan[complex128]{}
)

func newFFTWComplex1D(n int) (*fftwComplex1D, error) {
	if n < 1 {
		return nil, fmt.Errorf("fftlib: invalid size %d", n)
	}

	fftwPlanCacheMu.Lock()
	plan, ok := fftwPlanCache[n]
	fftwPlanCacheMu.Unlock()

	if !ok {
		var err error
		plan, err = algofft.NewPlan64(n)
		if err != nil {
			return nil, fmt.Errorf("fftlib: creating plan: %w", err)
		}

		fftwPlanCacheMu.Lock()
		fftwPlanCache[n] = plan
		fftwPlanCacheMu.Unlock()
	}

	return &fftwComplex1D{n: n, plan: plan}, nil
}

func (p *fftwComplex1D) Len() int { return p.n }

func (p *fftwComplex1D) Forward(dst, src []complex128) error {
	return p.plan.Forward(dst, src)
}

func (p *fftwComplex1D) Backward(dst, src []complex128) error {
	return p.plan.Inverse(dst, src)
}

// scipyComplex1D builds a fresh gonum CmplxFFT on every call, matching the
// original's scipy backend which keeps no persistent plan between calls.
type scipyComplex1D struct {
	n int
}

func newScipyComplex1D(n int) (*scipyComplex1D, error) {
	if n < 1 {
		return nil, fmt.Errorf("fftlib: invalid size %d", n)
	}

	return &scipyComplex1D{n: n}, nil
}

func (p *scipyComplex1D) Len() int { return p.n }

func (p *scipyComplex1D) Forward(dst, src []complex128) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("fftlib: size mismatch")
	}

	fft := fourier.NewCmplxFFT(p.n)
	out := fft.FFT(nil, src)
	copy(dst, out)

	return nil
}

func (p *scipyComplex1D) Backward(dst, src []complex128) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("fftlib: size mismatch")
	}

	fft := fourier.NewCmplxFFT(p.n)
	out := fft.IFFT(nil, src)

	scale := 1.0 / float64(p.n)
	for i, v := range out {
		dst[i] = v * complex(scale, 0)
	}

	return nil
}

// CreateArray returns a scratch buffer of n complex128 elements whose
// backing array is padded to a whole number of cache lines, sized from the
// host's cache line width. The start address is whatever the Go allocator
// returns; CreateArray does not align it to a cache line.
func CreateArray(n int) []complex128 {
	var pad cpu.CacheLinePad

	lineElems := int(unsafe.Sizeof(pad)) / 16
	if lineElems < 1 {
		lineElems = 1
	}

	padded := ((n + lineElems - 1) / lineElems) * lineElems
	buf := make([]complex128, padded)

	return buf[:n]
}
