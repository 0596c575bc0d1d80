package exec

import (
	"github.com/minidb-go/minidb/internal/buffer"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
)

// Insert is driven once per statement row: on the first Next() it calls
// heap_insert and returns the inserted slot.
type Insert struct {
	bufmrg *buffer.Manager
	rel    *storage.Relation
	slot   *tuple.Slot
	done   bool
}

// NewInsert builds an Insert node that will append slot to rel.
func NewInsert(bufmrg *buffer.Manager, rel *storage.Relation, slot *tuple.Slot) *Insert {
	return &Insert{bufmrg: bufmrg, rel: rel, slot: slot}
}

func (i *Insert) Open() error {
	i.done = false
	return nil
}

func (i *Insert) Next() (*tuple.Slot, bool, error) {
	if i.done {
		return nil, false, nil
	}
	i.done = true
	if err := i.bufmrg.HeapInsert(i.rel, i.slot); err != nil {
		return nil, false, err
	}
	return i.slot, true, nil
}

func (i *Insert) Close() error { return nil }
