package exec

import (
	"github.com/minidb-go/minidb/internal/buffer"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
)

// Delete pulls tuples from a child scan, soft-deleting each one and
// counting how many were removed. The dispatcher reads Count after driving
// it to exhaustion.
type Delete struct {
	child  Node
	bufmrg *buffer.Manager
	rel    *storage.Relation
	Count  int
}

// NewDelete wraps a child scan, deleting every tuple it produces.
func NewDelete(child Node, bufmrg *buffer.Manager, rel *storage.Relation) *Delete {
	return &Delete{child: child, bufmrg: bufmrg, rel: rel}
}

func (d *Delete) Open() error {
	d.Count = 0
	return d.child.Open()
}

func (d *Delete) Next() (*tuple.Slot, bool, error) {
	for {
		slot, ok, err := d.child.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		if err := d.bufmrg.HeapDelete(d.rel, slot.Self); err != nil {
			return nil, false, err
		}
		d.Count++
	}
}

func (d *Delete) Close() error { return d.child.Close() }
