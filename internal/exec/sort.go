package exec

import (
	"sort"

	"github.com/minidb-go/minidb/internal/tuple"
)

// Sort materialises its child's full output, sorts it ascending and stably
// by the lexicographic string value of one column, then streams the
// sorted rows.
type Sort struct {
	child    Node
	colIndex int
	rows     []*tuple.Slot
	pos      int
}

// NewSort wraps child, sorting ascending by the named column of desc.
func NewSort(child Node, desc tuple.Desc, colName string) (*Sort, error) {
	idx, err := desc.IndexFromName(colName)
	if err != nil {
		return nil, err
	}
	return &Sort{child: child, colIndex: idx}, nil
}

func (s *Sort) Open() error {
	if err := s.child.Open(); err != nil {
		return err
	}
	s.rows = nil
	for {
		slot, ok, err := s.child.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		s.rows = append(s.rows, cloneSlot(slot))
	}

	var sortErr error
	sort.SliceStable(s.rows, func(i, j int) bool {
		si, err := s.rows[i].GetColumnString(s.colIndex)
		if err != nil {
			sortErr = err
			return false
		}
		sj, err := s.rows[j].GetColumnString(s.colIndex)
		if err != nil {
			sortErr = err
			return false
		}
		return si < sj
	})
	if sortErr != nil {
		return sortErr
	}

	s.pos = 0
	return nil
}

func (s *Sort) Next() (*tuple.Slot, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	slot := s.rows[s.pos]
	s.pos++
	return slot, true, nil
}

func (s *Sort) Close() error { return s.child.Close() }
