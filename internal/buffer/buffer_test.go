package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minidb-go/minidb/internal/pathlayout"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
)

func idAgeDesc() tuple.Desc {
	return tuple.Desc{
		{Name: "id", Type: tuple.IntegerType, ByteLen: 4},
		{Name: "age", Type: tuple.IntegerType, ByteLen: 4},
	}
}

func newTestManager(t *testing.T) (*Manager, *storage.Relation) {
	t.Helper()
	dir := t.TempDir()
	sm := storage.NewManager(pathlayout.New(dir))
	bm := NewManager(sm)
	rel := sm.Open(storage.RelFileNode{DbOid: 10000, TableOid: 10001})
	return bm, rel
}

func newSlot(t *testing.T, id, age int32) *tuple.Slot {
	t.Helper()
	s := tuple.NewSlot(idAgeDesc())
	require.NoError(t, s.SetColumnInt32(0, id))
	require.NoError(t, s.SetColumnInt32(1, age))
	return s
}

func TestHeapInsertThenReadBack(t *testing.T) {
	bm, rel := newTestManager(t)

	s := newSlot(t, 1, 10)
	require.NoError(t, bm.HeapInsert(rel, s))
	assert.Equal(t, uint32(0), s.Self.Block)
	assert.Equal(t, uint16(0), s.Self.Offset)

	idx, err := bm.ReadBuffer(rel, s.Self.Block)
	require.NoError(t, err)

	body, err := bm.Page(idx).GetEntry(s.Self.Offset)
	require.NoError(t, err)

	readBack := tuple.NewSlot(idAgeDesc())
	require.NoError(t, readBack.LoadFromPage(body, s.Self))
	v0, _ := readBack.GetColumnInt32(0)
	v1, _ := readBack.GetColumnInt32(1)
	assert.Equal(t, int32(1), v0)
	assert.Equal(t, int32(10), v1)
}

func TestHeapInsertFallsForwardWhenPageFull(t *testing.T) {
	bm, rel := newTestManager(t)

	var lastTID tuple.TID
	// Each tuple is 4 (header) + 8 (id+age) = 12 bytes, plus a 4 byte
	// ItemId; insert until the first page overflows onto a second block.
	for i := int32(0); i < 700; i++ {
		s := newSlot(t, i, i*10)
		require.NoError(t, bm.HeapInsert(rel, s))
		lastTID = s.Self
	}

	assert.Greater(t, lastTID.Block, uint32(0))
}

func TestHeapInsertRejectsOversizedTuple(t *testing.T) {
	bm, rel := newTestManager(t)

	desc := tuple.Desc{{Name: "huge", Type: tuple.IntegerType, ByteLen: 8192}}
	s := tuple.NewSlot(desc)

	err := bm.HeapInsert(rel, s)
	assert.Error(t, err)
}

func TestHeapDeleteIsSoftAndPreservesSlot(t *testing.T) {
	bm, rel := newTestManager(t)

	s := newSlot(t, 1, 10)
	require.NoError(t, bm.HeapInsert(rel, s))

	idx, err := bm.ReadBuffer(rel, s.Self.Block)
	require.NoError(t, err)
	before := bm.Page(idx).MaxOffsetNumber()
	item, err := bm.Page(idx).GetItem(s.Self.Offset)
	require.NoError(t, err)

	require.NoError(t, bm.HeapDelete(rel, s.Self))

	after := bm.Page(idx).MaxOffsetNumber()
	assert.Equal(t, before, after)

	itemAfter, err := bm.Page(idx).GetItem(s.Self.Offset)
	require.NoError(t, err)
	assert.Equal(t, item, itemAfter)

	body, err := bm.Page(idx).GetEntry(s.Self.Offset)
	require.NoError(t, err)
	readBack := tuple.NewSlot(idAgeDesc())
	require.NoError(t, readBack.LoadFromPage(body, s.Self))
	assert.True(t, readBack.IsSoftDeleted())
}

func TestFlushWritesEveryPage(t *testing.T) {
	bm, rel := newTestManager(t)

	s := newSlot(t, 1, 10)
	require.NoError(t, bm.HeapInsert(rel, s))
	require.NoError(t, bm.Flush())

	n, err := rel.Mdnblocks()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)
}
