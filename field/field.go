// Package field implements the Field buffer and layout-navigation protocol:
// a single reinterpretable buffer that walks the precomputed layout graph
// on demand, advancing toward grid space via Transform/Transpose paths and
// retreating toward coefficient space the same way.
package field

import (
	"errors"
	"fmt"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/grid"
	"github.com/enlighter/dedalus/mesh"
)

var (
	// ErrUnknownLayout is returned by Get/Set when given a layout reference
	// the distributor does not recognize.
	ErrUnknownLayout = errors.New("field: unknown layout reference")

	// ErrAxisAssumption is returned by RequireLocal when asked to localize
	// an axis deeper than the mesh rank, which the layout graph guarantees
	// is already local by construction.
	ErrAxisAssumption = errors.New("field: assumption that deep axes are always local has failed")

	// ErrMultiRankTranspose is returned when a Transpose path's moving mesh
	// axis spans more than one simulated rank: a lone Field only holds its
	// own rank's data, so moving bytes between ranks requires every
	// participating rank's Field, which only a higher-level multi-rank
	// coordinator (not part of this package) can supply. The single-rank
	// (mesh rank 0, i.e. no distributed axes) configuration — the one the
	// worked Poisson/Helmholtz consumer runs under — never hits this path,
	// since it has no Transpose steps at all.
	ErrMultiRankTranspose = errors.New("field: multi-rank transpose requires a multi-rank field coordinator")
)

// Pool is the subset of a Domain a Field needs: its ordered basis list and
// a way to return itself to the free list on Release. Field depends only
// on this interface, not the domain package, so domain can depend on field
// without an import cycle.
type Pool interface {
	Bases() []basis.Basis
	Dim() int
	Distributor() *mesh.Distributor
	CollectField(f *Field)
}

// Field owns one reinterpretable buffer, tracks its current Layout, and
// exposes the navigation protocol used to move between coefficient and
// grid space along any axis.
type Field struct {
	pool   Pool
	scales []float64

	buffer []complex128 // worst-case sized backing storage (Distributor.BufferSize)
	data   []complex128 // current view: buffer[:layout.BufferSize(scales)]
	shape  grid.NDShape
	layout *mesh.Layout
}

// New allocates a field over pool, starting in the distributor's grid
// layout (mirroring Field.__init__'s initial self.layout = grid_layout).
func New(pool Pool, scales []float64) (*Field, error) {
	dist := pool.Distributor()

	size, err := dist.BufferSize(scales)
	if err != nil {
		return nil, err
	}

	f := &Field{
		pool:   pool,
		scales: scales,
		buffer: make([]complex128, size),
	}

	if err := f.setLayout(dist.GridLayout); err != nil {
		return nil, err
	}

	return f, nil
}

// Reset clears the buffer and moves the field to the distributor's
// coefficient layout, the state a reclaimed field is handed back in
// (mirroring Domain._collect_field). Callers returning a field to a Pool's
// free list should call Reset before making it available for reuse.
func (f *Field) Reset() error {
	for i := range f.buffer {
		f.buffer[i] = 0
	}

	return f.setLayout(f.pool.Distributor().CoeffLayout)
}

// Release returns the field to its pool's free list.
func (f *Field) Release() {
	f.pool.CollectField(f)
}

// Layout returns the field's current layout.
func (f *Field) Layout() *mesh.Layout { return f.layout }

// Data returns the field's current typed view. Do not retain across a
// Get/Set/navigation call: the slice is reassigned whenever the layout
// changes.
func (f *Field) Data() []complex128 { return f.data }

// Shape returns the local shape backing the current view.
func (f *Field) Shape() grid.NDShape { return f.shape }

// setLayout reinterprets the backing buffer as (shape, dtype) for the
// given layout. This is the zero-copy half of navigation: the bytes in
// buffer are assumed already correct for layout (a prior Transform/
// Transpose step, or a fresh allocation) -- setLayout only recomputes the
// shape/dtype metadata of the view, exactly mirroring field.py's
// layout.setter / view_data.
func (f *Field) setLayout(layout *mesh.Layout) error {
	shape, err := layout.LocalShape(f.scales)
	if err != nil {
		return err
	}

	size := grid.NDShape(shape).Size()
	if size > len(f.buffer) {
		return fmt.Errorf("field: layout %d requires %d elements, buffer holds %d", layout.Index, size, len(f.buffer))
	}

	f.layout = layout
	f.shape = shape
	f.data = f.buffer[:size]

	return nil
}

// Get walks the field to the named layout and returns its typed view.
func (f *Field) Get(ref string) ([]complex128, error) {
	target, err := f.pool.Distributor().LayoutByRef(ref)
	if err != nil {
		return nil, ErrUnknownLayout
	}

	if err := f.navigateTo(target); err != nil {
		return nil, err
	}

	return f.data, nil
}

// Set forcibly sets the field's layout (reinterpreting the buffer) and
// copies data in, without walking the intervening path steps.
func (f *Field) Set(ref string, data []complex128) error {
	target, err := f.pool.Distributor().LayoutByRef(ref)
	if err != nil {
		return ErrUnknownLayout
	}

	if err := f.setLayout(target); err != nil {
		return err
	}

	if len(data) != len(f.data) {
		return fmt.Errorf("field: Set data length %d does not match layout size %d", len(data), len(f.data))
	}

	copy(f.data, data)

	return nil
}

// RequireGridSpace advances the field until grid_space[axis] (or, with no
// axis given, every axis) is true.
func (f *Field) RequireGridSpace(axis int) error {
	if axis < 0 {
		for !allTrue(f.layout.GridSpace) {
			if err := f.advance(); err != nil {
				return err
			}
		}

		return nil
	}

	for !f.layout.GridSpace[axis] {
		if err := f.advance(); err != nil {
			return err
		}
	}

	return nil
}

// RequireCoeffSpace retreats the field until grid_space[axis] (or, with no
// axis given, every axis) is false.
func (f *Field) RequireCoeffSpace(axis int) error {
	if axis < 0 {
		for anyTrue(f.layout.GridSpace) {
			if err := f.retreat(); err != nil {
				return err
			}
		}

		return nil
	}

	for f.layout.GridSpace[axis] {
		if err := f.retreat(); err != nil {
			return err
		}
	}

	return nil
}

// RequireLocal advances or retreats the field until axis is local,
// matching field.py's require_local: axis 0 can only become local by
// moving toward grid space, axis R (the last distributed axis) only by
// moving toward coefficient space; deeper axes are always local by
// construction of the layout graph.
func (f *Field) RequireLocal(axis int) error {
	dim := f.pool.Dim()
	if axis < 0 {
		axis += dim
	}

	for !f.layout.Local[axis] {
		switch axis {
		case 0:
			if err := f.advance(); err != nil {
				return err
			}
		case f.pool.Distributor().Mesh.Rank():
			if err := f.retreat(); err != nil {
				return err
			}
		default:
			return ErrAxisAssumption
		}
	}

	return nil
}

// navigateTo walks the field toward target along the precomputed path
// list, one step at a time: paths[current.Index] moving forward (toward
// grid), paths[current.Index-1] moving backward (toward coeff).
func (f *Field) navigateTo(target *mesh.Layout) error {
	for f.layout.Index < target.Index {
		if err := f.advance(); err != nil {
			return err
		}
	}

	for f.layout.Index > target.Index {
		if err := f.retreat(); err != nil {
			return err
		}
	}

	return nil
}

// advance moves the field one layout toward grid space via the path
// leaving the current layout.
func (f *Field) advance() error {
	path := f.pool.Distributor().Paths[f.layout.Index]
	return f.step(path, true)
}

// retreat moves the field one layout toward coefficient space via the
// path entering the current layout.
func (f *Field) retreat() error {
	path := f.pool.Distributor().Paths[f.layout.Index-1]
	return f.step(path, false)
}

func (f *Field) step(path mesh.Path, forward bool) error {
	switch p := path.(type) {
	case *mesh.Transform:
		return f.applyTransform(p, forward)
	case *mesh.Transpose:
		return f.applyTranspose(p, forward)
	default:
		return fmt.Errorf("field: unrecognized path type %T", path)
	}
}

// applyTransform performs the local (no-communication) basis transform for
// one axis, looping per-line with grid.NDLineIterator -- the basis package
// only operates on a single line at a time (see basis.Basis).
func (f *Field) applyTransform(p *mesh.Transform, forward bool) error {
	var (
		from, to *mesh.Layout
	)

	if forward {
		from, to = p.From(), p.To()
	} else {
		from, to = p.To(), p.From()
	}

	shapeIn, err := from.LocalShape(f.scales)
	if err != nil {
		return err
	}

	shapeOut, err := to.LocalShape(f.scales)
	if err != nil {
		return err
	}

	outSize := grid.NDShape(shapeOut).Size()
	if hasZero(shapeIn) || hasZero(shapeOut) {
		out := f.buffer[:outSize]
		for i := range out {
			out[i] = 0
		}

		return f.setLayout(to)
	}

	axis := p.Axis()
	b := p.Basis()

	out := make([]complex128, outSize)

	itIn := grid.NewNDLineIterator(shapeIn, axis)
	itOut := grid.NewNDLineIterator(shapeOut, axis)

	for itIn.Next() && itOut.Next() {
		lineIn := extractLine(f.data, itIn.StartIndex(), itIn.LineStride(), itIn.LineLength())
		lineOut := make([]complex128, itOut.LineLength())

		var err error
		if forward {
			err = b.Backward(lineIn, lineOut, axis, f.scaleOf(axis))
		} else {
			err = b.Forward(lineIn, lineOut, axis, f.scaleOf(axis))
		}

		if err != nil {
			return err
		}

		writeLine(out, itOut.StartIndex(), itOut.LineStride(), lineOut)
	}

	copy(f.buffer[:outSize], out)

	return f.setLayout(to)
}

// applyTranspose performs the collective MPI-style block transpose along
// one mesh axis. A lone Field only ever has its own rank's data, so this
// only supports the degenerate single-rank sub-communicator (the
// configuration the worked Poisson/Helmholtz consumer runs under, which
// builds its Distributor with an empty mesh and so never builds a
// Transpose path at all); a genuine multi-rank transpose requires a
// coordinator holding every participating rank's Field, which is out of
// this package's scope (see ErrMultiRankTranspose).
func (f *Field) applyTranspose(p *mesh.Transpose, forward bool) error {
	to := p.To()
	if !forward {
		to = p.From()
	}

	shapeIn, err := (func() (grid.NDShape, error) {
		if forward {
			return p.From().LocalShape(f.scales)
		}

		return p.To().LocalShape(f.scales)
	})()
	if err != nil {
		return err
	}

	if hasZero(shapeIn) {
		return f.setLayout(to)
	}

	var (
		rankData [][]complex128
		err2     error
	)

	mine := append([]complex128(nil), f.data...)

	if forward {
		rankData, err2 = p.Increment([][]complex128{mine})
	} else {
		rankData, err2 = p.Decrement([][]complex128{mine})
	}

	if err2 != nil {
		return err2
	}

	if len(rankData) != 1 {
		return ErrMultiRankTranspose
	}

	shapeOut, err := to.LocalShape(f.scales)
	if err != nil {
		return err
	}

	size := grid.NDShape(shapeOut).Size()
	if len(rankData[0]) < size {
		return fmt.Errorf("field: transpose returned %d elements, layout needs %d", len(rankData[0]), size)
	}

	copy(f.buffer[:size], rankData[0][:size])

	return f.setLayout(to)
}

func (f *Field) scaleOf(axis int) float64 {
	if axis < len(f.scales) {
		return f.scales[axis]
	}

	return 1.0
}

// Differentiate computes d/dx along axis, writing the result into out
// (which is left in the same layout as the receiver).
func (f *Field) Differentiate(axis int, out *Field) error {
	if err := f.RequireLocal(axis); err != nil {
		return err
	}

	if err := f.RequireCoeffSpace(axis); err != nil {
		return err
	}

	if err := out.setLayout(f.layout); err != nil {
		return err
	}

	shape := f.shape
	b := f.pool.Bases()[axis]

	it := grid.NewNDLineIterator(shape, axis)
	for it.Next() {
		lineIn := extractLine(f.data, it.StartIndex(), it.LineStride(), it.LineLength())
		lineOut := make([]complex128, it.LineLength())

		if err := b.Differentiate(lineIn, lineOut, axis); err != nil {
			return err
		}

		writeLine(out.data, it.StartIndex(), it.LineStride(), lineOut)
	}

	return nil
}

// Integrate integrates the field's coefficients over the given axes
// (every axis, if none given), returning the resulting coefficient array
// with each integrated axis collapsed so only mode 0 is populated along
// it. When every axis of the field is integrated, the total is the single
// element at the all-zero coordinate.
func (f *Field) Integrate(axes ...int) ([]complex128, error) {
	cdata, err := f.Get("c")
	if err != nil {
		return nil, err
	}

	shape := f.shape.Clone()
	data := append([]complex128(nil), cdata...)

	if axes == nil {
		axes = make([]int, f.pool.Dim())
		for i := range axes {
			axes[i] = i
		}
	}

	sorted := append([]int(nil), axes...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	for _, axis := range sorted {
		b := f.pool.Bases()[axis]

		out := make([]complex128, len(data))

		it := grid.NewNDLineIterator(shape, axis)
		for it.Next() {
			lineIn := extractLine(data, it.StartIndex(), it.LineStride(), it.LineLength())
			lineOut := make([]complex128, it.LineLength())

			if err := b.Integrate(lineIn, lineOut, axis); err != nil {
				return nil, err
			}

			writeLine(out, it.StartIndex(), it.LineStride(), lineOut)
		}

		data = out
	}

	return data, nil
}

func extractLine(buf []complex128, start, stride, length int) []complex128 {
	line := make([]complex128, length)
	for i := 0; i < length; i++ {
		line[i] = buf[start+i*stride]
	}

	return line
}

func writeLine(buf []complex128, start, stride int, line []complex128) {
	for i, v := range line {
		buf[start+i*stride] = v
	}
}

func hasZero(shape grid.NDShape) bool {
	for _, n := range shape {
		if n == 0 {
			return true
		}
	}

	return false
}

func allTrue(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return false
		}
	}

	return true
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}

	return false
}
