// Package exec implements the pull-based plan-node tree: sequential scan,
// sort, count aggregate, insert, and delete, composed by the dispatcher
// from a parsed statement.
package exec

import "github.com/minidb-go/minidb/internal/tuple"

// Node is the uniform pull interface every plan node implements. Next
// returns (nil, false, nil) at end of stream, mirroring the reference
// implementation's exec() -> Option<&TupleSlot>; a non-nil error is the Go
// idiom for the fatal paths the reference expressed as panics.
type Node interface {
	Open() error
	Next() (*tuple.Slot, bool, error)
	Close() error
}

func cloneSlot(s *tuple.Slot) *tuple.Slot {
	data := make([]byte, len(s.Data))
	copy(data, s.Data)
	return &tuple.Slot{Desc: s.Desc, Data: data, Self: s.Self}
}
