package exec

import (
	"github.com/minidb-go/minidb/internal/buffer"
	"github.com/minidb-go/minidb/internal/page"
	"github.com/minidb-go/minidb/internal/sqlstmt"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
)

// SeqScan walks a relation block by block, offset by offset, in physical
// order, skipping soft-deleted tuples and applying an optional WHERE
// predicate.
type SeqScan struct {
	bufmrg *buffer.Manager
	rel    *storage.Relation
	desc   tuple.Desc
	where  sqlstmt.Expr

	nblocks  uint32
	cblock   uint32
	inited   bool
	finished bool
	scanSlot *tuple.Slot
}

// NewSeqScan returns a scan over rel using desc as the tuple layout and an
// optional where predicate (nil means always true).
func NewSeqScan(bufmrg *buffer.Manager, rel *storage.Relation, desc tuple.Desc, where sqlstmt.Expr) *SeqScan {
	return &SeqScan{bufmrg: bufmrg, rel: rel, desc: desc, where: where}
}

func (s *SeqScan) Open() error {
	nblocks, err := s.rel.Mdnblocks()
	if err != nil {
		return err
	}
	s.nblocks = nblocks
	s.inited = false
	s.finished = false
	s.scanSlot = tuple.NewSlot(s.desc)
	return nil
}

func (s *SeqScan) Close() error { return nil }

func (s *SeqScan) loadCandidate(block uint32, offset uint16) error {
	idx, err := s.bufmrg.ReadBuffer(s.rel, block)
	if err != nil {
		return err
	}
	body, err := s.bufmrg.Page(idx).GetEntry(offset)
	if err != nil {
		return err
	}
	return s.scanSlot.LoadFromPage(body, tuple.TID{Block: block, Offset: offset})
}

// heapGetNext advances to the next live tuple, or sets s.finished when the
// relation is exhausted. Mirrors heapgettup/heap_getnext in the original.
func (s *SeqScan) heapGetNext() error {
	var lineoff uint16
	if !s.inited {
		s.cblock = 0
		s.inited = true
		lineoff = page.FirstOffsetNumber
	} else {
		lineoff = s.scanSlot.Self.Offset + 1
	}

	idx, err := s.bufmrg.ReadBuffer(s.rel, s.cblock)
	if err != nil {
		return err
	}
	lines := s.bufmrg.Page(idx).MaxOffsetNumber()

	for {
		for lineoff < lines {
			if err := s.loadCandidate(s.cblock, lineoff); err != nil {
				return err
			}
			if s.scanSlot.IsSoftDeleted() {
				lineoff++
				continue
			}
			return nil
		}

		if s.cblock+1 >= s.nblocks {
			s.finished = true
			return nil
		}

		s.cblock++
		lineoff = page.FirstOffsetNumber
		idx, err = s.bufmrg.ReadBuffer(s.rel, s.cblock)
		if err != nil {
			return err
		}
		lines = s.bufmrg.Page(idx).MaxOffsetNumber()
	}
}

func (s *SeqScan) Next() (*tuple.Slot, bool, error) {
	for {
		if err := s.heapGetNext(); err != nil {
			return nil, false, err
		}
		if s.finished {
			return nil, false, nil
		}
		ok, err := EvalPredicate(s.scanSlot, s.where)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return s.scanSlot, true, nil
		}
	}
}
