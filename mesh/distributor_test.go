package mesh

import (
	"testing"

	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
)

func threeAxisBases(t *testing.T) []basis.Basis {
	t.Helper()

	sizes := []int{4, 4, 4}
	bases := make([]basis.Basis, len(sizes))

	for i, n := range sizes {
		b, err := basis.NewChebyshev([2]float64{-1, 1}, n, config.Default())
		if err != nil {
			t.Fatalf("NewChebyshev axis %d: %v", i, err)
		}

		if _, err := b.SetDType(basis.Real); err != nil {
			t.Fatalf("SetDType axis %d: %v", i, err)
		}

		bases[i] = b
	}

	return bases
}

// TestDistributorLayoutGraphShape is scenario S4 (D=3, R=1, mesh=[4]):
// the backward axis scan bubbles the single already-local dimension (axis
// 1, the first axis past the distributed prefix) up to axis 0, transforming
// each axis to grid space along the way and transposing once to swap which
// axis the mesh distributes. With D=3 and R=1 there are D+R+1=5 layouts and
// D+R=4 paths.
func TestDistributorLayoutGraphShape(t *testing.T) {
	bases := threeAxisBases(t)
	dtypes := make([]basis.DType, len(bases))

	for i := range dtypes {
		dtypes[i] = basis.Real
	}

	comm := NewSimulatedComm(4)

	dist, err := NewDistributor(bases, dtypes, dtypes, []int{4}, comm, nil, config.Default())
	if err != nil {
		t.Fatalf("NewDistributor: %v", err)
	}

	if got := len(dist.Layouts); got != 5 {
		t.Fatalf("len(Layouts) = %d, want 5", got)
	}

	if got := len(dist.Paths); got != 4 {
		t.Fatalf("len(Paths) = %d, want 4", got)
	}

	wantLayouts := []struct {
		local     []bool
		gridSpace []bool
	}{
		{[]bool{false, true, true}, []bool{false, false, false}},
		{[]bool{false, true, true}, []bool{false, false, true}},
		{[]bool{false, true, true}, []bool{false, true, true}},
		{[]bool{true, false, true}, []bool{false, true, true}},
		{[]bool{true, false, true}, []bool{true, true, true}},
	}

	for i, want := range wantLayouts {
		got := dist.Layouts[i]

		for d := range want.local {
			if got.Local[d] != want.local[d] {
				t.Errorf("layout %d Local[%d] = %v, want %v", i, d, got.Local[d], want.local[d])
			}

			if got.GridSpace[d] != want.gridSpace[d] {
				t.Errorf("layout %d GridSpace[%d] = %v, want %v", i, d, got.GridSpace[d], want.gridSpace[d])
			}
		}

		if got.Index != i {
			t.Errorf("layout %d Index = %d, want %d", i, got.Index, i)
		}
	}

	wantPaths := []struct {
		kind string
		axis int
	}{
		{"transform", 2},
		{"transform", 1},
		{"transpose", 0},
		{"transform", 0},
	}

	for i, want := range wantPaths {
		p := dist.Paths[i]

		switch p.(type) {
		case *Transform:
			if want.kind != "transform" {
				t.Errorf("path %d = Transform, want %s", i, want.kind)
			}
		case *Transpose:
			if want.kind != "transpose" {
				t.Errorf("path %d = Transpose, want %s", i, want.kind)
			}
		default:
			t.Errorf("path %d has unexpected type %T", i, p)
		}

		if p.Axis() != want.axis {
			t.Errorf("path %d Axis() = %d, want %d", i, p.Axis(), want.axis)
		}
	}

	if dist.CoeffLayout != dist.Layouts[0] {
		t.Error("CoeffLayout should be Layouts[0]")
	}

	if dist.GridLayout != dist.Layouts[len(dist.Layouts)-1] {
		t.Error("GridLayout should be the last layout")
	}
}

// TestDistributorShapeOnCutRank is scenario S5: global coeff shape [9,8],
// mesh=[4] on axis 0. blocks = ceil(9/4) = 3, so the even cut falls at
// rank 3 (9 = 3*3): ranks 0..2 hold a full block of 3, rank 3 holds the
// empty remainder.
func TestDistributorShapeOnCutRank(t *testing.T) {
	cb0, err := basis.NewChebyshev([2]float64{-1, 1}, 9, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev axis 0: %v", err)
	}

	if _, err := cb0.SetDType(basis.Real); err != nil {
		t.Fatalf("SetDType axis 0: %v", err)
	}

	cb1, err := basis.NewChebyshev([2]float64{-1, 1}, 8, config.Default())
	if err != nil {
		t.Fatalf("NewChebyshev axis 1: %v", err)
	}

	if _, err := cb1.SetDType(basis.Real); err != nil {
		t.Fatalf("SetDType axis 1: %v", err)
	}

	bases := []basis.Basis{cb0, cb1}
	dtypes := []basis.DType{basis.Real, basis.Real}

	wantShapes := [][]int{
		{3, 8},
		{3, 8},
		{3, 8},
		{0, 8},
	}

	for rank, want := range wantShapes {
		comm := NewSimulatedComm(4)

		dist, err := NewDistributor(bases, dtypes, dtypes, []int{4}, comm, []int{rank}, config.Default())
		if err != nil {
			t.Fatalf("NewDistributor rank %d: %v", rank, err)
		}

		shape, err := dist.CoeffLayout.LocalShape([]float64{1, 1})
		if err != nil {
			t.Fatalf("LocalShape rank %d: %v", rank, err)
		}

		for d := range want {
			if shape[d] != want[d] {
				t.Errorf("rank %d LocalShape[%d] = %d, want %d", rank, d, shape[d], want[d])
			}
		}
	}
}
