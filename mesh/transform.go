package mesh

import (
	"github.com/enlighter/dedalus/basis"
	"github.com/enlighter/dedalus/config"
)

// Transform directs the local (single-rank, no communication) basis
// transform between two adjacent layouts that differ by one axis moving
// from coefficient space to grid space. It only ever applies to an axis
// that is local in both layouts, which is why it never needs the
// Communicator; the per-line looping over the field's other axes is done
// by the field package, which calls Basis directly using this path's Axis
// and Basis accessors.
type Transform struct {
	layout0 *Layout
	layout1 *Layout
	axis    int
	basis   basis.Basis
	cfg     config.Config
}

func (t *Transform) Axis() int        { return t.axis }
func (t *Transform) From() *Layout    { return t.layout0 }
func (t *Transform) To() *Layout      { return t.layout1 }
func (t *Transform) Basis() basis.Basis { return t.basis }
func (t *Transform) Config() config.Config { return t.cfg }
