// Package mesh implements the distributed layout graph: the Mesh of
// simulated MPI ranks, the Layout objects describing each transform/
// distribution state, and the Distributor that builds the R+D+1-layout
// graph and the Transform/Transpose paths between adjacent layouts.
package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrMeshTooWide is returned when the mesh has as many or more
	// dimensions than the domain it distributes.
	ErrMeshTooWide = errors.New("mesh: mesh dimension must be lower than domain dimension")

	// ErrMeshSizeMismatch is returned when the mesh's process count doesn't
	// match the communicator's size.
	ErrMeshSizeMismatch = errors.New("mesh: process count does not match mesh")
)

// Mesh is an R-dimensional process mesh distributing an R-dimensional slab
// of a D-dimensional domain (R < D) across a communicator's ranks.
type Mesh struct {
	dims []int // squeezed: every entry > 1
}

// NewMesh validates and constructs a mesh from raw dimensions, squeezing
// out any axis of size <=1 exactly as the original implementation's
// "i for i in mesh if i>1" filter does.
func NewMesh(dims []int, domainDim int, commSize int) (*Mesh, error) {
	squeezed := make([]int, 0, len(dims))
	for _, d := range dims {
		if d > 1 {
			squeezed = append(squeezed, d)
		}
	}

	if len(squeezed) >= domainDim {
		return nil, ErrMeshTooWide
	}

	size := 1
	for _, d := range squeezed {
		size *= d
	}

	if size != commSize {
		return nil, fmt.Errorf("%w: process count %d, mesh product %d", ErrMeshSizeMismatch, commSize, size)
	}

	return &Mesh{dims: squeezed}, nil
}

// Rank returns the number of mesh axes (R).
func (m *Mesh) Rank() int { return len(m.dims) }

// Dims returns the squeezed mesh dimensions.
func (m *Mesh) Dims() []int { return append([]int(nil), m.dims...) }

// Size returns the total number of ranks in the mesh (product of dims).
func (m *Mesh) Size() int {
	size := 1
	for _, d := range m.dims {
		size *= d
	}

	return size
}

// CoordsOf returns the Cartesian coordinates of a rank in row-major order,
// matching MPI_Cart_coords for a communicator created without periodicity.
func (m *Mesh) CoordsOf(rank int) []int {
	coords := make([]int, len(m.dims))

	for i := len(m.dims) - 1; i >= 0; i-- {
		coords[i] = rank % m.dims[i]
		rank /= m.dims[i]
	}

	return coords
}

// RankOf returns the rank for a set of Cartesian coordinates, the inverse
// of CoordsOf.
func (m *Mesh) RankOf(coords []int) int {
	rank := 0
	for i, c := range m.dims {
		rank = rank*c + coords[i]
	}

	return rank
}
