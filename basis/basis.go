// Package basis implements the spectral bases (Chebyshev, Fourier, SinCos,
// Compound) that convert between grid space and coefficient space along a
// single axis. Grid and coefficient data travel uniformly as []complex128
// inside the engine; a DType tag records which half of the complex lane
// carries meaningful data, mirroring the grid_dtype/coeff_dtype duality of
// the original numpy implementation.
package basis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DType tags whether a buffer's meaningful values are real (imaginary part
// always zero) or genuinely complex.
type DType int

const (
	// Real indicates the imaginary part of every element is zero.
	Real DType = iota
	// Complex indicates both real and imaginary parts carry data.
	Complex
)

func (d DType) String() string {
	switch d {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidSize is returned when a requested grid or coefficient size
	// is not representable by a basis (non-positive, or a scaled grid size
	// that rounds to zero), or an interval has no positive length.
	ErrInvalidSize = errors.New("basis: invalid size")

	// ErrSizeMismatch is returned when a buffer's length doesn't match the
	// size a basis operation expects.
	ErrSizeMismatch = errors.New("basis: buffer size mismatch")

	// ErrUnsupportedDType is returned when a basis cannot represent the
	// requested grid dtype (e.g. a Compound basis whose subbases disagree).
	ErrUnsupportedDType = errors.New("basis: unsupported dtype")

	// ErrOutsideInterval is returned by Interpolate when the requested
	// position falls outside every covered subinterval.
	ErrOutsideInterval = errors.New("basis: position outside interval")
)

// SizeError reports a size validation failure with both the observed and
// expected values.
type SizeError struct {
	Op       string
	Got      int
	Expected int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("basis: %s: got size %d, expected %d", e.Op, e.Got, e.Expected)
}

func (e *SizeError) Unwrap() error { return ErrSizeMismatch }

// Basis converts a single axis of field data between grid space (point
// values on a physical grid) and coefficient space (expansion coefficients
// in the basis's native series).
type Basis interface {
	// Grid returns the physical grid points at the given scale (1.0 is the
	// basis's natural resolution; >1.0 dealiases onto a finer grid).
	Grid(scale float64) ([]float64, error)

	// SetDType fixes the grid dtype this basis will be used with and
	// returns the coefficient dtype it implies.
	SetDType(gridDType DType) (coeffDType DType, err error)

	// CoeffSize returns the number of coefficients at the basis's native
	// resolution.
	CoeffSize() int

	// BaseGridSize returns the number of grid points at scale 1.0.
	BaseGridSize() int

	// Interval returns the physical [start, end) interval this basis covers.
	Interval() [2]float64

	// Forward transforms grid data to coefficient data along axis.
	Forward(gdata, cdata []complex128, axis int, scale float64) error

	// Backward transforms coefficient data to grid data along axis.
	Backward(cdata, gdata []complex128, axis int, scale float64) error

	// Differentiate computes the coefficients of d/dx applied to cdata.
	Differentiate(cdata, cderiv []complex128, axis int) error

	// Integrate computes the definite integral over the basis interval,
	// written into mode 0 of cint (all other modes are zeroed).
	Integrate(cdata, cint []complex128, axis int) error

	// Interpolate evaluates the series at a single physical position.
	Interpolate(cdata, cint []complex128, position float64, axis int) error

	// Pre returns the basis-change matrix from the implicit basis to the
	// explicit (evaluation) basis.
	Pre() *mat.Dense

	// Mult returns the matrix implementing multiplication by the p-th power
	// of the basis's natural coordinate, in coefficient space.
	Mult(p int) *mat.Dense

	// Diff returns the coefficient-space differentiation matrix.
	Diff() *mat.Dense

	// LeftVector returns the coefficient-space evaluation vector at the
	// left endpoint of Interval().
	LeftVector() []complex128

	// RightVector returns the coefficient-space evaluation vector at the
	// right endpoint of Interval().
	RightVector() []complex128

	// IntegVector returns the coefficient-space integration vector.
	IntegVector() []complex128

	// InterpVector returns the coefficient-space evaluation vector at an
	// arbitrary physical position.
	InterpVector(position float64) ([]complex128, error)
}

// gridSize validates that scale*baseSize rounds to a positive integer,
// mirroring the original's grid_size(scale) integrality check.
func gridSize(baseSize int, scale float64) (int, error) {
	size := int(float64(baseSize)*scale + 0.5)
	if size <= 0 {
		return 0, ErrInvalidSize
	}

	return size, nil
}
