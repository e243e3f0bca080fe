package mesh

import (
	"github.com/enlighter/dedalus/basis"
)

// Layout describes one transform/distribution state of the layout graph:
// which axes are local versus distributed over the process mesh, which
// axes are currently in grid space versus coefficient space, and the
// element dtype in that state. All size-dependent methods take `scales`,
// the per-axis dealiasing scale factors.
type Layout struct {
	Index int

	domainDim int
	baseShape []int // coefficient-space base grid size per axis (CoeffSize of each basis)
	bases     []basis.Basis

	mesh      *Mesh
	extMesh   []int // mesh size extended to domain dimension (1 on local axes)
	extCoords []int // this layout's target rank's coords extended to domain dimension

	Local     []bool
	GridSpace []bool
	DType     basis.DType
}

// newLayout builds a Layout for the given local/grid_space/dtype state.
// coords is the target rank's Cartesian mesh coordinates.
func newLayout(domainDim int, baseShape []int, bases []basis.Basis, m *Mesh, coords []int, local, gridSpace []bool, dtype basis.DType) *Layout {
	extMesh := make([]int, domainDim)
	extCoords := make([]int, domainDim)

	for i := range extMesh {
		extMesh[i] = 1
	}

	meshAxis := 0

	for d := 0; d < domainDim; d++ {
		if !local[d] {
			extMesh[d] = m.Dims()[meshAxis]
			extCoords[d] = coords[meshAxis]
			meshAxis++
		}
	}

	return &Layout{
		domainDim: domainDim,
		baseShape: baseShape,
		bases:     bases,
		mesh:      m,
		extMesh:   extMesh,
		extCoords: extCoords,
		Local:     append([]bool(nil), local...),
		GridSpace: append([]bool(nil), gridSpace...),
		DType:     dtype,
	}
}

// GlobalShape computes the global data shape at the given scales: the
// coefficient-space size on every axis still in coefficient space, the
// scaled grid size on every axis already in grid space.
func (l *Layout) GlobalShape(scales []float64) ([]int, error) {
	out := make([]int, l.domainDim)

	for d := range out {
		if l.GridSpace[d] {
			n, err := gridSizeAt(l.bases[d], scales[d])
			if err != nil {
				return nil, err
			}

			out[d] = n
		} else {
			out[d] = l.baseShape[d]
		}
	}

	return out, nil
}

func gridSizeAt(b basis.Basis, scale float64) (int, error) {
	g, err := b.Grid(scale)
	if err != nil {
		return 0, err
	}

	return len(g), nil
}

// Blocks computes the FFTW-standard block size per axis: ceil(global/extMesh).
func (l *Layout) Blocks(scales []float64) ([]int, error) {
	global, err := l.GlobalShape(scales)
	if err != nil {
		return nil, err
	}

	out := make([]int, l.domainDim)
	for d := range out {
		out[d] = ceilDiv(global[d], l.extMesh[d])
	}

	return out, nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}

	return (a + b - 1) / b
}

// Start computes the starting global coordinate of this layout's local
// block on every axis: extCoords * blocks.
func (l *Layout) Start(scales []float64) ([]int, error) {
	blocks, err := l.Blocks(scales)
	if err != nil {
		return nil, err
	}

	out := make([]int, l.domainDim)
	for d := range out {
		out[d] = l.extCoords[d] * blocks[d]
	}

	return out, nil
}

// LocalShape computes the local data shape, handling the final
// partial/empty block on axes that don't divide evenly into the mesh.
func (l *Layout) LocalShape(scales []float64) ([]int, error) {
	global, err := l.GlobalShape(scales)
	if err != nil {
		return nil, err
	}

	blocks, err := l.Blocks(scales)
	if err != nil {
		return nil, err
	}

	out := make([]int, l.domainDim)

	for d := range out {
		if blocks[d] == 0 {
			out[d] = 0
			continue
		}

		cut := global[d] / blocks[d]

		switch {
		case l.extCoords[d] == cut:
			out[d] = global[d] - cut*blocks[d]
		case l.extCoords[d] > cut:
			out[d] = 0
		default:
			out[d] = blocks[d]
		}
	}

	return out, nil
}

// Slice is a half-open [Start, Start+Length) range along one axis.
type Slice struct {
	Start  int
	Length int
}

// Slices computes, per axis, the slice selecting this layout's local
// portion of the global data.
func (l *Layout) Slices(scales []float64) ([]Slice, error) {
	start, err := l.Start(scales)
	if err != nil {
		return nil, err
	}

	shape, err := l.LocalShape(scales)
	if err != nil {
		return nil, err
	}

	out := make([]Slice, l.domainDim)
	for d := range out {
		out[d] = Slice{Start: start[d], Length: shape[d]}
	}

	return out, nil
}

// BufferSize computes the number of complex128 elements needed to store
// this layout's local data at the given scales (the storage type is
// always complex128 inside the engine — see basis.DType).
func (l *Layout) BufferSize(scales []float64) (int, error) {
	shape, err := l.LocalShape(scales)
	if err != nil {
		return 0, err
	}

	size := 1
	for _, n := range shape {
		size *= n
	}

	return size, nil
}
