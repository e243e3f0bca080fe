package mesh

import "sync"

// Communicator models the small slice of MPI that the distributor and
// transpose paths need: a Cartesian communicator over a set of ranks, with
// collective Alltoall exchange and a Sub operation that isolates the ranks
// varying along one mesh axis while holding the others fixed (mirroring
// comm_cart.Sub(remain_dims)).
//
// No Go MPI binding exists anywhere in the reference corpus, so
// Communicator is backed by SimulatedComm: every rank runs as a goroutine
// for the duration of a single collective call, writing into a shared,
// mutex-guarded result table, so N ranks of the process mesh are
// simulated within one OS process. Every call site is written against
// this interface, so a real MPI-backed Communicator is a drop-in
// replacement, never a parallel code path.
type Communicator interface {
	// Size returns the number of ranks in the communicator.
	Size() int

	// Barrier blocks until every rank has called Barrier.
	Barrier()

	// Alltoall exchanges data between every pair of ranks: send[i][j] is
	// the payload rank i sends to rank j. It returns recv where
	// recv[j][i] == send[i][j], i.e. recv[j] collects everything rank j
	// received.
	Alltoall(send [][][]byte) ([][][]byte, error)

	// Sub returns a sub-communicator over the ranks that vary only along
	// mesh axis `axis`, holding every other axis fixed at baseCoords. This
	// mirrors comm_cart.Sub(remain_dims) used to build the per-transpose
	// subgrid communicator.
	Sub(mesh *Mesh, axis int, baseCoords []int) Communicator
}

// SimulatedComm is an in-process Communicator simulating Size() ranks. It
// holds no per-rank state between calls: every collective is a single,
// self-contained barrier-synchronized exchange.
type SimulatedComm struct {
	size int
}

// NewSimulatedComm returns a Communicator simulating the given number of
// ranks.
func NewSimulatedComm(size int) *SimulatedComm {
	if size < 1 {
		size = 1
	}

	return &SimulatedComm{size: size}
}

func (c *SimulatedComm) Size() int { return c.size }

// Barrier is a no-op for SimulatedComm: since every collective call is
// already a single synchronous fan-out/fan-in (see Alltoall), there is no
// persistent rank state for a bare Barrier to synchronize.
func (c *SimulatedComm) Barrier() {}

// Alltoall spawns one goroutine per sending rank, each of which writes its
// messages directly into the appropriate slot of the result table under a
// mutex, then waits on a WaitGroup for every goroutine to finish before
// returning.
func (c *SimulatedComm) Alltoall(send [][][]byte) ([][][]byte, error) {
	n := c.size
	recv := make([][][]byte, n)

	for j := range recv {
		recv[j] = make([][]byte, n)
	}

	var mu sync.Mutex

	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			for j := 0; j < n; j++ {
				if i < len(send) && j < len(send[i]) {
					payload := send[i][j]

					mu.Lock()
					recv[j][i] = payload
					mu.Unlock()
				}
			}
		}(i)
	}

	wg.Wait()

	return recv, nil
}

// Sub returns a SimulatedComm over exactly the ranks sharing baseCoords on
// every axis but `axis`; its size is mesh.Dims()[axis].
func (c *SimulatedComm) Sub(m *Mesh, axis int, baseCoords []int) Communicator {
	return NewSimulatedComm(m.Dims()[axis])
}
