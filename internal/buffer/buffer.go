// Package buffer implements the buffer manager: an append-only, in-memory
// page cache keyed by (relation, block), with tuple-level heap_insert and
// heap_delete built on top of it.
package buffer

import (
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"github.com/pkg/errors"

	"github.com/minidb-go/minidb/internal/page"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
	"github.com/minidb-go/minidb/logger"
)

// Tag identifies one cached page by the relation file node and block
// number it was read from.
type Tag struct {
	Node  storage.RelFileNode
	Block uint32
}

// hashBucket is a diagnostics-only bucket id for a tag, independent of the
// map lookup used for correctness. Logged at debug level so a pool's access
// pattern can be eyeballed without walking the full hash map.
func hashBucket(tag Tag) uint64 {
	var b [12]byte
	binary.LittleEndian.PutUint32(b[0:4], tag.Node.DbOid)
	binary.LittleEndian.PutUint32(b[4:8], tag.Node.TableOid)
	binary.LittleEndian.PutUint32(b[8:12], tag.Block)
	return xxhash.Checksum64(b[:]) % 64
}

type descriptor struct {
	tag   Tag
	dirty bool
	valid bool
}

// Manager owns a storage manager and an append-only pool of page buffers.
// It never evicts: the working set simply grows for the lifetime of a
// statement, per the reference implementation's documented limitation.
type Manager struct {
	storage     *storage.Manager
	pages       []*page.Page
	descriptors []descriptor
	hash        map[Tag]int
}

// NewManager returns an empty buffer manager backed by sm.
func NewManager(sm *storage.Manager) *Manager {
	return &Manager{storage: sm, hash: make(map[Tag]int)}
}

// Page returns the cached page buffer at index idx.
func (m *Manager) Page(idx int) *page.Page { return m.pages[idx] }

func (m *Manager) markDirty(idx int) { m.descriptors[idx].dirty = true }

// ReadBuffer returns the index of the cached page for (rel, block),
// reading it from storage on first access.
func (m *Manager) ReadBuffer(rel *storage.Relation, block uint32) (int, error) {
	tag := Tag{Node: rel.Node(), Block: block}
	if idx, ok := m.hash[tag]; ok {
		return idx, nil
	}

	p, err := rel.Mdread(block)
	if err != nil {
		return 0, err
	}
	idx := len(m.pages)
	m.pages = append(m.pages, p)
	m.descriptors = append(m.descriptors, descriptor{tag: tag, valid: true})
	m.hash[tag] = idx
	logger.Debugf("buffer: read block %d of relation %+v into slot %d (bucket %d)", block, tag.Node, idx, hashBucket(tag))
	return idx, nil
}

// ReadBufferNewPage extends rel by one initialised, empty block and returns
// both the index of its cached page and the new block's number.
func (m *Manager) ReadBufferNewPage(rel *storage.Relation) (int, uint32, error) {
	block, err := rel.Mdnblocks()
	if err != nil {
		return 0, 0, err
	}

	p := page.New()
	if err := rel.Mdextend(block, p); err != nil {
		return 0, 0, err
	}

	tag := Tag{Node: rel.Node(), Block: block}
	idx := len(m.pages)
	m.pages = append(m.pages, p)
	m.descriptors = append(m.descriptors, descriptor{tag: tag, valid: true, dirty: true})
	m.hash[tag] = idx
	logger.Debugf("buffer: extended relation %+v with block %d into slot %d (bucket %d)", tag.Node, block, idx, hashBucket(tag))
	return idx, block, nil
}

// HeapInsert appends slot's packed header+body bytes into rel's current
// target block, falling forward to a freshly extended block if it does not
// fit. It never rescans earlier pages for space. On success slot.Self is
// set to the tuple's new TID.
func (m *Manager) HeapInsert(rel *storage.Relation, slot *tuple.Slot) error {
	length := uint16(len(slot.Data))
	if int(length) > page.MaxTupleSize {
		return errors.Errorf("buffer: tuple of %d bytes exceeds max tuple size %d", length, page.MaxTupleSize)
	}

	target := rel.TargBlock
	if target == storage.InvalidBlockNumber {
		nblocks, err := rel.Mdnblocks()
		if err != nil {
			return err
		}
		if nblocks == 0 {
			target = 0
		} else {
			target = nblocks - 1
		}
	}

	idx, err := m.ReadBuffer(rel, target)
	if err != nil {
		return err
	}

	if m.pages[idx].FreeSpace() >= length {
		off, err := m.pages[idx].AddTuple(slot.Data)
		if err != nil {
			return err
		}
		rel.TargBlock = target
		m.markDirty(idx)
		slot.Self = tuple.TID{Block: target, Offset: off}
		return nil
	}

	newIdx, newBlock, err := m.ReadBufferNewPage(rel)
	if err != nil {
		return err
	}
	off, err := m.pages[newIdx].AddTuple(slot.Data)
	if err != nil {
		return err
	}
	rel.TargBlock = newBlock
	m.markDirty(newIdx)
	slot.Self = tuple.TID{Block: newBlock, Offset: off}
	return nil
}

// HeapDelete soft-deletes the tuple at tid: the line pointer, length, and
// body are left untouched; only the HEAP_KEYS_UPDATED header bit is set.
func (m *Manager) HeapDelete(rel *storage.Relation, tid tuple.TID) error {
	idx, err := m.ReadBuffer(rel, tid.Block)
	if err != nil {
		return err
	}
	body, err := m.pages[idx].EntryPointer(tid.Offset)
	if err != nil {
		return err
	}
	if len(body) < tuple.HeaderSize {
		return errors.Errorf("buffer: tuple at %+v is smaller than a tuple header", tid)
	}
	infomask2 := binary.LittleEndian.Uint16(body[0:2])
	binary.LittleEndian.PutUint16(body[0:2], infomask2|tuple.HeapKeysUpdated)
	m.markDirty(idx)
	return nil
}

// Flush writes every cached page back to its home block, regardless of its
// dirty bit, matching the reference implementation's flush-all teardown.
func (m *Manager) Flush() error {
	for i, d := range m.descriptors {
		rel := m.storage.Open(d.tag.Node)
		if err := rel.Mdwrite(d.tag.Block, m.pages[i]); err != nil {
			return err
		}
	}
	return nil
}
