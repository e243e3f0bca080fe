package mesh

import (
	"fmt"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
)

// Path is either a *Transform or a *Transpose step between two adjacent
// layouts in the graph.
type Path interface {
	Axis() int
	From() *Layout
	To() *Layout
}

// Distributor builds and owns the R+D+1-layout graph for a domain's bases
// and the R+D paths (D transforms, R transposes) between adjacent layouts,
// following the same backwards-axis-scan construction as the original's
// Distributor._build_layouts.
type Distributor struct {
	Mesh   *Mesh
	Comm   Communicator
	Coords []int

	Layouts []*Layout
	Paths   []Path

	CoeffLayout *Layout
	GridLayout  *Layout

	cfg config.Config
}

// NewDistributor builds the layout graph for the given ordered bases (one
// per domain axis) and mesh dimensions. coeffDTypes and gridDTypes are the
// per-axis dtypes Domain already established by calling SetDType on each
// basis in axis order — Distributor never calls SetDType itself, matching
// the original where the distributor only reads domain.bases[*].grid_dtype/
// coeff_dtype, attributes domain's own constructor loop already set. coords
// selects which simulated rank's local views this Distributor computes
// (defaulting to the all-zero rank when nil); every Distributor instance
// models exactly one rank's perspective, matching one Field buffer per
// rank in the original.
func NewDistributor(bases []basis.Basis, coeffDTypes, gridDTypes []basis.DType, meshDims []int, comm Communicator, coords []int, cfg config.Config) (*Distributor, error) {
	dim := len(bases)

	m, err := NewMesh(meshDims, dim, comm.Size())
	if err != nil {
		return nil, err
	}

	if coords == nil {
		coords = make([]int, m.Rank())
	}

	baseShape := make([]int, dim)
	for d, b := range bases {
		baseShape[d] = b.CoeffSize()
	}

	dist := &Distributor{
		Mesh:   m,
		Comm:   comm,
		Coords: coords,
		cfg:    cfg,
	}

	if err := dist.buildLayouts(dim, baseShape, bases, coeffDTypes, gridDTypes); err != nil {
		return nil, err
	}

	return dist, nil
}

func (d *Distributor) buildLayouts(dim int, baseShape []int, bases []basis.Basis, coeffDTypes, gridDTypes []basis.DType) error {
	R := d.Mesh.Rank()

	local := make([]bool, dim)
	gridSpace := make([]bool, dim)

	for i := 0; i < R; i++ {
		local[i] = false
	}

	for i := R; i < dim; i++ {
		local[i] = true
	}

	dtype := coeffDTypes[dim-1]

	layout0 := newLayout(dim, baseShape, bases, d.Mesh, d.Coords, local, gridSpace, dtype)
	layout0.Index = 0

	d.Layouts = []*Layout{layout0}
	d.Paths = nil

	for i := 1; i <= R+dim; i++ {
		var (
			layoutI *Layout
			pathI   Path
		)

		for axis := dim - 1; axis >= 0; axis-- {
			if gridSpace[axis] {
				continue
			}

			if local[axis] {
				gridSpace[axis] = true
				gdtype := gridDTypes[axis]

				layoutI = newLayout(dim, baseShape, bases, d.Mesh, d.Coords, local, gridSpace, gdtype)
				pathI = &Transform{
					layout0: d.Layouts[len(d.Layouts)-1],
					layout1: layoutI,
					axis:    axis,
					basis:   bases[axis],
					cfg:     d.cfg,
				}
			} else {
				local[axis] = true
				local[axis+1] = false

				layoutI = newLayout(dim, baseShape, bases, d.Mesh, d.Coords, local, gridSpace, layoutI0DType(d, axis))

				sub := d.Comm.Sub(d.Mesh, meshAxisFor(local, axis), d.Coords)
				pathI = &Transpose{
					layout0: d.Layouts[len(d.Layouts)-1],
					layout1: layoutI,
					axis:    axis,
					comm:    sub,
					cfg:     d.cfg,
				}
			}

			break
		}

		if layoutI == nil {
			return fmt.Errorf("mesh: failed to build layout %d", i)
		}

		layoutI.Index = i
		d.Layouts = append(d.Layouts, layoutI)
		d.Paths = append(d.Paths, pathI)
	}

	d.CoeffLayout = d.Layouts[0]
	d.GridLayout = d.Layouts[len(d.Layouts)-1]

	return nil
}

// layoutI0DType carries forward the previous layout's dtype for a
// Transpose step, which changes locality but never dtype.
func layoutI0DType(d *Distributor, axis int) basis.DType {
	return d.Layouts[len(d.Layouts)-1].DType
}

// meshAxisFor returns which mesh axis (0..R-1) governs domain axis `axis`,
// counting how many of the preceding distributed axes there are.
func meshAxisFor(local []bool, axis int) int {
	count := 0

	for d := 0; d < axis; d++ {
		if !local[d] {
			count++
		}
	}

	return count
}

// BufferSize returns the maximum local buffer size (in complex128 elements)
// required across every layout at the given scales, matching
// Distributor.buffer_size.
func (d *Distributor) BufferSize(scales []float64) (int, error) {
	max := 0

	for _, l := range d.Layouts {
		size, err := l.BufferSize(scales)
		if err != nil {
			return 0, err
		}

		if size > max {
			max = size
		}
	}

	return max, nil
}

// LayoutByRef dereferences a string layout reference ("c"/"coeff" or
// "g"/"grid") to the corresponding Layout.
func (d *Distributor) LayoutByRef(ref string) (*Layout, error) {
	switch ref {
	case "c", "coeff":
		return d.CoeffLayout, nil
	case "g", "grid":
		return d.GridLayout, nil
	default:
		return nil, fmt.Errorf("mesh: unknown layout reference %q", ref)
	}
}
