package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/enlighter/dedalus/config"
)

// Transpose directs a collective redistribution between two layouts that
// differ by which of two adjacent axes (axis, axis+1) is distributed over
// the process mesh: in layout0, axis is distributed and axis+1 is local; in
// layout1, axis is local and axis+1 is distributed. It runs over the
// sub-communicator isolating the ranks that vary along the moving mesh
// axis, mirroring Transpose.comm_sub = comm_cart.Sub(remain_dims).
//
// Because SimulatedComm models every rank of the process mesh within one OS
// process rather than one process per rank, a single Transpose call takes
// every participating rank's local data at once (see Increment/Decrement)
// instead of a lone rank's view — there is no separate process per rank
// that could call Alltoall independently of the others.
type Transpose struct {
	layout0 *Layout
	layout1 *Layout
	axis    int
	comm    Communicator
	cfg     config.Config
}

func (t *Transpose) Axis() int     { return t.axis }
func (t *Transpose) From() *Layout { return t.layout0 }
func (t *Transpose) To() *Layout   { return t.layout1 }

// Increment performs the gather: given every participating rank's local
// data while axis is distributed (layout0), it returns every rank's local
// data once axis+1 becomes distributed instead (layout1).
func (t *Transpose) Increment(rankData [][]complex128) ([][]complex128, error) {
	return t.exchange(rankData)
}

// Decrement performs the scatter, the data-movement inverse of Increment:
// the same all-to-all shuffle undoes itself when applied to the result of
// Increment, since the transpose of a transpose is the identity.
func (t *Transpose) Decrement(rankData [][]complex128) ([][]complex128, error) {
	return t.exchange(rankData)
}

// exchange divides each rank's buffer into Size() equal chunks (the
// standard FFTW-MPI-transpose shape, where every rank sends one chunk to
// every other rank including itself) and routes them through the
// communicator's Alltoall. Reassembling axis-correct local blocks from the
// returned chunks, accounting for partial/uneven final blocks, is the
// field layer's job: Transpose only guarantees that recv[j] collects, in
// rank order, exactly what every rank sent to rank j.
func (t *Transpose) exchange(rankData [][]complex128) ([][]complex128, error) {
	n := t.comm.Size()

	if len(rankData) != n {
		return nil, fmt.Errorf("mesh: transpose expected data for %d ranks, got %d", n, len(rankData))
	}

	send := make([][][]byte, n)

	for i, data := range rankData {
		chunks, err := chunkEvenly(data, n)
		if err != nil {
			return nil, fmt.Errorf("mesh: transpose rank %d: %w", i, err)
		}

		send[i] = chunks
	}

	recv, err := t.comm.Alltoall(send)
	if err != nil {
		return nil, err
	}

	out := make([][]complex128, n)

	for j := range out {
		var flat []complex128

		for i := 0; i < n; i++ {
			flat = append(flat, bytesToComplex128(recv[j][i])...)
		}

		out[j] = flat
	}

	return out, nil
}

// chunkEvenly splits data into n contiguous, (as close to) equal-sized
// byte-encoded chunks. A buffer whose length doesn't divide evenly by n
// gives its earliest chunks one extra element: a contiguous block split
// with no padding.
func chunkEvenly(data []complex128, n int) ([][]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mesh: transpose chunk count must be positive, got %d", n)
	}

	chunks := make([][]byte, n)

	base := len(data) / n
	rem := len(data) % n

	start := 0

	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}

		chunks[i] = complex128ToBytes(data[start : start+size])
		start += size
	}

	return chunks, nil
}

func complex128ToBytes(data []complex128) []byte {
	buf := make([]byte, len(data)*16)

	for i, c := range data {
		binary.LittleEndian.PutUint64(buf[i*16:], math.Float64bits(real(c)))
		binary.LittleEndian.PutUint64(buf[i*16+8:], math.Float64bits(imag(c)))
	}

	return buf
}

func bytesToComplex128(buf []byte) []complex128 {
	n := len(buf) / 16
	out := make([]complex128, n)

	for i := 0; i < n; i++ {
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16:]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[i*16+8:]))
		out[i] = complex(re, im)
	}

	return out
}
