package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDPacking(t *testing.T) {
	id := NewItemID(256, 3, 100)
	assert.Equal(t, uint16(256), id.Off())
	assert.Equal(t, uint8(3), id.Flags())
	assert.Equal(t, uint16(100), id.Len())

	// Packing must not be sensitive to whatever bits previously occupied
	// the word.
	id2 := ItemID(0xffffffff).withOff(256).withFlags(3).withLen(100)
	assert.Equal(t, uint16(256), id2.Off())
	assert.Equal(t, uint8(3), id2.Flags())
	assert.Equal(t, uint16(100), id2.Len())
}

func TestItemIDRoundTrip(t *testing.T) {
	for off := uint16(0); off < (1 << 15); off += 4093 {
		for flags := uint8(0); flags < 4; flags++ {
			for length := uint16(0); length < (1 << 15); length += 4093 {
				id := NewItemID(off, flags, length)
				assert.Equal(t, off, id.Off())
				assert.Equal(t, flags, id.Flags())
				assert.Equal(t, length, id.Len())
			}
		}
	}
}

func TestNewPageIsEmpty(t *testing.T) {
	p := New()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, uint16(BlockSize), p.pdUpper())
	assert.Equal(t, uint16(0), p.MaxOffsetNumber())
	assert.Equal(t, uint16(BlockSize-HeaderSize-ItemIDSize), p.FreeSpace())
}

func TestAddTuple(t *testing.T) {
	p := New()

	entry1 := []byte{1, 2, 3}
	entry2 := []byte{3, 2, 1, 0}

	off1, err := p.AddTuple(entry1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), off1)
	assert.Equal(t, uint16(HeaderSize+ItemIDSize), p.pdLower())
	assert.Equal(t, uint16(BlockSize-3), p.pdUpper())
	assert.False(t, p.IsEmpty())
	assert.Equal(t, uint16(1), p.MaxOffsetNumber())

	item0, err := p.GetItem(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), item0.Len())

	got1, err := p.GetEntry(0)
	require.NoError(t, err)
	assert.Equal(t, entry1, got1)

	off2, err := p.AddTuple(entry2)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), off2)
	assert.Equal(t, uint16(HeaderSize+ItemIDSize*2), p.pdLower())
	assert.Equal(t, uint16(BlockSize-3-4), p.pdUpper())
	assert.Equal(t, uint16(2), p.MaxOffsetNumber())

	got2, err := p.GetEntry(1)
	require.NoError(t, err)
	assert.Equal(t, entry2, got2)
}

func TestAddTupleExactFreeSpaceSucceeds(t *testing.T) {
	p := New()
	free := p.FreeSpace()
	bytes := make([]byte, free)
	for i := range bytes {
		bytes[i] = byte(i)
	}
	_, err := p.AddTuple(bytes)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), p.FreeSpace())
}

func TestAddTupleOverflowFails(t *testing.T) {
	p := New()
	free := p.FreeSpace()
	bytes := make([]byte, free+1)
	before := p.pdUpper()
	_, err := p.AddTuple(bytes)
	assert.Error(t, err)
	assert.Equal(t, before, p.pdUpper())
}

func TestGetEntryOutOfRangeFails(t *testing.T) {
	p := New()
	_, err := p.GetEntry(0)
	assert.Error(t, err)
}

func TestStructuralInvariants(t *testing.T) {
	p := New()
	for i := 0; i < 20; i++ {
		_, err := p.AddTuple([]byte{byte(i), byte(i + 1)})
		require.NoError(t, err)

		assert.LessOrEqual(t, uint16(HeaderSize), p.pdLower())
		assert.LessOrEqual(t, p.pdLower(), p.pdUpper())
		assert.LessOrEqual(t, p.pdUpper(), uint16(BlockSize))
		assert.Equal(t, (p.pdLower()-HeaderSize)/ItemIDSize, p.MaxOffsetNumber())
	}
}
