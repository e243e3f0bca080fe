// Package domain ties an ordered list of spectral bases to a process mesh,
// threading each basis's dtype left-to-right exactly as the original
// domain constructor does, and owns the one Distributor and field free
// list that result.
package domain

import (
	"fmt"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
	"github.com/enlighter/dedalus/field"
	"github.com/enlighter/dedalus/mesh"
)

// Domain is a thin holder: the ordered basis list, the distributor it
// builds from them, and a field free list amortizing allocation across
// New/Collect calls.
type Domain struct {
	bases []basis.Basis
	dist  *mesh.Distributor

	fieldCache []*field.Field
}

// New threads dtype through the bases in axis order (a basis may turn
// real input into complex output, which then feeds the next basis),
// builds the distributor over meshDims and comm, and returns the Domain.
// gridDType is the grid dtype fed into the first basis (np.complex128's
// role in the original constructor's default).
func New(bases []basis.Basis, gridDType basis.DType, meshDims []int, comm mesh.Communicator, coords []int, cfg config.Config) (*Domain, error) {
	if len(bases) == 0 {
		return nil, fmt.Errorf("domain: at least one basis is required")
	}

	gridDTypes := make([]basis.DType, len(bases))
	coeffDTypes := make([]basis.DType, len(bases))

	dtype := gridDType
	for d, b := range bases {
		gridDTypes[d] = dtype

		cd, err := b.SetDType(dtype)
		if err != nil {
			return nil, fmt.Errorf("domain: basis %d SetDType: %w", d, err)
		}

		coeffDTypes[d] = cd
		dtype = cd
	}

	dist, err := mesh.NewDistributor(bases, coeffDTypes, gridDTypes, meshDims, comm, coords, cfg)
	if err != nil {
		return nil, fmt.Errorf("domain: %w", err)
	}

	return &Domain{bases: bases, dist: dist}, nil
}

// Bases returns the domain's ordered basis list.
func (d *Domain) Bases() []basis.Basis { return d.bases }

// Dim returns the domain's dimension (len(bases)).
func (d *Domain) Dim() int { return len(d.bases) }

// Distributor returns the domain's distributor.
func (d *Domain) Distributor() *mesh.Distributor { return d.dist }

// NewField returns a free field from the pool, allocating one if the pool
// is empty.
func (d *Domain) NewField(scales []float64) (*field.Field, error) {
	if n := len(d.fieldCache); n > 0 {
		f := d.fieldCache[n-1]
		d.fieldCache = d.fieldCache[:n-1]

		return f, nil
	}

	return field.New(d, scales)
}

// CollectField clears f's buffer, returns it to the distributor's
// coefficient layout, and adds it to the free list.
func (d *Domain) CollectField(f *field.Field) {
	if err := f.Reset(); err != nil {
		return
	}

	d.fieldCache = append(d.fieldCache, f)
}

// Grid returns the locally-owned slice of the scaled basis grid along
// axis, reshaped as a per-axis vector the caller broadcasts against the
// other axes, matching domain.py's grid().
func (d *Domain) Grid(axis int, scales []float64) ([]float64, error) {
	layout := d.dist.GridLayout

	start, err := layout.Start(scales)
	if err != nil {
		return nil, err
	}

	shape, err := layout.LocalShape(scales)
	if err != nil {
		return nil, err
	}

	scale := 1.0
	if axis < len(scales) {
		scale = scales[axis]
	}

	full, err := d.bases[axis].Grid(scale)
	if err != nil {
		return nil, err
	}

	s, n := start[axis], shape[axis]
	if s+n > len(full) {
		return nil, fmt.Errorf("domain: grid slice [%d:%d] exceeds basis grid of length %d", s, s+n, len(full))
	}

	return full[s : s+n], nil
}
