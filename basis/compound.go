package basis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Compound concatenates an ordered list of adjacent subbases (each covering
// a contiguous subinterval) into a single basis whose coefficient space is
// the concatenation of the subbases' coefficient spaces.
//
// coeff_start is implemented only as a method (per the resolution of the
// original implementation's dual method/container usage of coeff_start):
// CoeffStart(index) returns the offset of subbasis index's coefficients
// within the compound coefficient vector.
type Compound struct {
	subbases []Basis

	gridDType  DType
	coeffDType DType
}

// NewCompound constructs a Compound basis from adjacent subbases. Subbases
// must be given in left-to-right order and must share a common boundary
// between every adjacent pair (Interval()[1] of subbases[i] equals
// Interval()[0] of subbases[i+1]).
func NewCompound(subbases []Basis) (*Compound, error) {
	if len(subbases) < 2 {
		return nil, fmt.Errorf("basis: Compound requires at least 2 subbases")
	}

	for i := 1; i < len(subbases); i++ {
		prevRight := subbases[i-1].Interval()[1]
		nextLeft := subbases[i].Interval()[0]

		if prevRight != nextLeft {
			return nil, fmt.Errorf("basis: Compound subbases %d and %d are not adjacent (%v != %v)",
				i-1, i, prevRight, nextLeft)
		}
	}

	return &Compound{subbases: subbases}, nil
}

// CoeffStart returns the coefficient offset of the given subbasis index.
func (b *Compound) CoeffStart(index int) int {
	start := 0
	for i := range index {
		start += b.subbases[i].CoeffSize()
	}

	return start
}

func (b *Compound) Grid(scale float64) ([]float64, error) {
	var out []float64

	for _, sub := range b.subbases {
		g, err := sub.Grid(scale)
		if err != nil {
			return nil, err
		}

		out = append(out, g...)
	}

	return out, nil
}

func (b *Compound) SetDType(gridDType DType) (DType, error) {
	b.gridDType = gridDType

	var coeffDType DType

	for i, sub := range b.subbases {
		ct, err := sub.SetDType(gridDType)
		if err != nil {
			return 0, err
		}

		if i == 0 {
			coeffDType = ct
		} else if ct != coeffDType {
			return 0, fmt.Errorf("%w: Compound subbases disagree on coefficient dtype", ErrUnsupportedDType)
		}
	}

	b.coeffDType = coeffDType

	return coeffDType, nil
}

func (b *Compound) CoeffSize() int {
	total := 0
	for _, sub := range b.subbases {
		total += sub.CoeffSize()
	}

	return total
}

func (b *Compound) BaseGridSize() int {
	total := 0
	for _, sub := range b.subbases {
		total += sub.BaseGridSize()
	}

	return total
}

func (b *Compound) Interval() [2]float64 {
	return [2]float64{b.subbases[0].Interval()[0], b.subbases[len(b.subbases)-1].Interval()[1]}
}

// gridSlices returns, for each subbasis, the [start,end) range of grid
// points it occupies at the given scale.
func (b *Compound) gridSlices(scale float64) ([][2]int, error) {
	slices := make([][2]int, len(b.subbases))
	start := 0

	for i, sub := range b.subbases {
		n, err := gridSize(sub.BaseGridSize(), scale)
		if err != nil {
			return nil, err
		}

		slices[i] = [2]int{start, start + n}
		start += n
	}

	return slices, nil
}

func (b *Compound) Forward(gdata, cdata []complex128, axis int, scale float64) error {
	gslices, err := b.gridSlices(scale)
	if err != nil {
		return err
	}

	for i, sub := range b.subbases {
		gs := gslices[i]
		cs0, cs1 := b.CoeffStart(i), b.CoeffStart(i)+sub.CoeffSize()

		if err := sub.Forward(gdata[gs[0]:gs[1]], cdata[cs0:cs1], axis, scale); err != nil {
			return fmt.Errorf("compound subbasis %d forward: %w", i, err)
		}
	}

	return nil
}

func (b *Compound) Backward(cdata, gdata []complex128, axis int, scale float64) error {
	gslices, err := b.gridSlices(scale)
	if err != nil {
		return err
	}

	for i, sub := range b.subbases {
		gs := gslices[i]
		cs0, cs1 := b.CoeffStart(i), b.CoeffStart(i)+sub.CoeffSize()

		if err := sub.Backward(cdata[cs0:cs1], gdata[gs[0]:gs[1]], axis, scale); err != nil {
			return fmt.Errorf("compound subbasis %d backward: %w", i, err)
		}
	}

	return nil
}

// Differentiate is block-diagonal: each subbasis differentiates its own
// coefficient block independently.
func (b *Compound) Differentiate(cdata, cderiv []complex128, axis int) error {
	for i, sub := range b.subbases {
		cs0, cs1 := b.CoeffStart(i), b.CoeffStart(i)+sub.CoeffSize()

		if err := sub.Differentiate(cdata[cs0:cs1], cderiv[cs0:cs1], axis); err != nil {
			return fmt.Errorf("compound subbasis %d differentiate: %w", i, err)
		}
	}

	return nil
}

// Integrate sums each subbasis's integral over its own subinterval into
// mode 0 of the compound coefficient vector.
func (b *Compound) Integrate(cdata, cint []complex128, axis int) error {
	for i := range cint {
		cint[i] = 0
	}

	var total complex128

	for i, sub := range b.subbases {
		cs0, cs1 := b.CoeffStart(i), b.CoeffStart(i)+sub.CoeffSize()

		tmp := make([]complex128, sub.CoeffSize())
		if err := sub.Integrate(cdata[cs0:cs1], tmp, axis); err != nil {
			return fmt.Errorf("compound subbasis %d integrate: %w", i, err)
		}

		total += tmp[0]
	}

	cint[0] = total

	return nil
}

// Interpolate picks the first subbasis whose interval contains position and
// evaluates within it.
func (b *Compound) Interpolate(cdata, cint []complex128, position float64, axis int) error {
	for i, sub := range b.subbases {
		iv := sub.Interval()
		if position < iv[0]-1e-9 || position > iv[1]+1e-9 {
			continue
		}

		cs0, cs1 := b.CoeffStart(i), b.CoeffStart(i)+sub.CoeffSize()

		tmp := make([]complex128, sub.CoeffSize())
		if err := sub.Interpolate(cdata[cs0:cs1], tmp, position, axis); err != nil {
			return err
		}

		for j := range cint {
			cint[j] = 0
		}

		cint[0] = tmp[0]

		return nil
	}

	return ErrOutsideInterval
}

// LeftVector is nonzero only in the first subbasis's block (only the first
// subbasis contributes to the compound's left endpoint).
func (b *Compound) LeftVector() []complex128 {
	out := make([]complex128, b.CoeffSize())
	copy(out[b.CoeffStart(0):], b.subbases[0].LeftVector())

	return out
}

// RightVector is nonzero only in the last subbasis's block (only the last
// subbasis contributes to the compound's right endpoint).
func (b *Compound) RightVector() []complex128 {
	out := make([]complex128, b.CoeffSize())
	last := len(b.subbases) - 1
	copy(out[b.CoeffStart(last):], b.subbases[last].RightVector())

	return out
}

// IntegVector concatenates each subbasis's integration vector.
func (b *Compound) IntegVector() []complex128 {
	out := make([]complex128, b.CoeffSize())

	for i, sub := range b.subbases {
		copy(out[b.CoeffStart(i):], sub.IntegVector())
	}

	return out
}

// InterpVector picks the first subbasis whose interval contains position
// and returns its evaluation vector placed at the corresponding block
// offset within the compound coefficient space.
func (b *Compound) InterpVector(position float64) ([]complex128, error) {
	for i, sub := range b.subbases {
		iv := sub.Interval()
		if position < iv[0]-1e-9 || position > iv[1]+1e-9 {
			continue
		}

		v, err := sub.InterpVector(position)
		if err != nil {
			return nil, err
		}

		out := make([]complex128, b.CoeffSize())
		copy(out[b.CoeffStart(i):], v)

		return out, nil
	}

	return nil, ErrOutsideInterval
}

// Pre returns the block-diagonal concatenation of each subbasis's Pre matrix.
func (b *Compound) Pre() *mat.Dense {
	return b.blockDiag(func(sub Basis) *mat.Dense { return sub.Pre() })
}

// Diff returns the block-diagonal concatenation of each subbasis's Diff matrix.
func (b *Compound) Diff() *mat.Dense {
	return b.blockDiag(func(sub Basis) *mat.Dense { return sub.Diff() })
}

// Mult returns the block-diagonal concatenation of each subbasis's Mult(p) matrix.
func (b *Compound) Mult(p int) *mat.Dense {
	return b.blockDiag(func(sub Basis) *mat.Dense { return sub.Mult(p) })
}

func (b *Compound) blockDiag(f func(Basis) *mat.Dense) *mat.Dense {
	n := b.CoeffSize()
	out := mat.NewDense(n, n, nil)

	for i, sub := range b.subbases {
		block := f(sub)
		start := b.CoeffStart(i)
		r, c := block.Dims()

		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				out.Set(start+row, start+col, block.At(row, col))
			}
		}
	}

	return out
}

// Match builds the continuity constraint matrix: one row per interior seam
// between subbasis i and subbasis i+1, holding subbasis i's RightVector in
// its coefficient columns minus subbasis i+1's LeftVector in its own,
// enforcing that the left subbasis's value at its right endpoint equals
// the right subbasis's value at its left endpoint.
func (b *Compound) Match() *mat.Dense {
	numSeams := len(b.subbases) - 1
	n := b.CoeffSize()
	out := mat.NewDense(numSeams, n, nil)

	for seam := 0; seam < numSeams; seam++ {
		left := b.subbases[seam]
		right := b.subbases[seam+1]

		leftStart := b.CoeffStart(seam)
		rightStart := b.CoeffStart(seam + 1)

		rv := left.RightVector()
		for j, v := range rv {
			out.Set(seam, leftStart+j, real(v))
		}

		lv := right.LeftVector()
		for j, v := range lv {
			out.Set(seam, rightStart+j, out.At(seam, rightStart+j)-real(v))
		}
	}

	return out
}
