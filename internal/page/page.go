// Package page implements the slotted-page format used by every heap file:
// a line-pointer directory that grows up from the header, and tuple bodies
// that grow down from the end of the block, meeting in a free-space gap.
package page

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// BlockSize is the fixed size, in bytes, of every page in a heap file.
const BlockSize = 8192

// HeaderSize is the byte size of the page header (pd_lower, pd_upper).
const HeaderSize = 4

// ItemIDSize is the byte size of one packed line-pointer record.
const ItemIDSize = 4

// FirstOffsetNumber is the 0-based index of the first slot on a page.
const FirstOffsetNumber = 0

// ItemID is a packed 32-bit line pointer: 15 bits of byte offset, 2 bits of
// flags, 15 bits of length.
type ItemID uint32

// NewItemID packs (off, flags, len) into a single line pointer.
func NewItemID(off uint16, flags uint8, length uint16) ItemID {
	var id ItemID
	id = id.withOff(off)
	id = id.withFlags(flags)
	id = id.withLen(length)
	return id
}

func (id ItemID) Off() uint16   { return uint16((uint32(id) & 0xfffe0000) >> 17) }
func (id ItemID) Flags() uint8  { return uint8((uint32(id) & 0x00018000) >> 15) }
func (id ItemID) Len() uint16   { return uint16(uint32(id) & 0x00007fff) }

func (id ItemID) withOff(off uint16) ItemID {
	return ItemID((uint32(id) &^ 0xfffe0000) | (uint32(off) << 17))
}

func (id ItemID) withFlags(flags uint8) ItemID {
	return ItemID((uint32(id) &^ 0x00018000) | (uint32(flags&0x3) << 15))
}

func (id ItemID) withLen(length uint16) ItemID {
	return ItemID((uint32(id) &^ 0x00007fff) | uint32(length&0x7fff))
}

// Page is the in-memory image of one block: a fixed BlockSize byte buffer
// with a header view at the front, a line-pointer array following it, and
// tuple bodies addressed from the back.
type Page struct {
	Data [BlockSize]byte
}

// New returns a freshly initialised, empty page (pd_lower = HeaderSize,
// pd_upper = BlockSize).
func New() *Page {
	p := &Page{}
	p.Init()
	return p
}

// Init resets the header to describe an empty page. New calls it for every
// freshly allocated page; a page read back as all-zero bytes is not
// re-initialised and reports no free space.
func (p *Page) Init() {
	p.setPdLower(HeaderSize)
	p.setPdUpper(BlockSize)
}

func (p *Page) pdLower() uint16 { return binary.LittleEndian.Uint16(p.Data[0:2]) }
func (p *Page) pdUpper() uint16 { return binary.LittleEndian.Uint16(p.Data[2:4]) }

func (p *Page) setPdLower(v uint16) { binary.LittleEndian.PutUint16(p.Data[0:2], v) }
func (p *Page) setPdUpper(v uint16) { binary.LittleEndian.PutUint16(p.Data[2:4], v) }

// IsEmpty reports whether no item has ever been added to the page.
func (p *Page) IsEmpty() bool {
	return p.pdLower() <= HeaderSize
}

// MaxOffsetNumber returns the number of ItemIds currently in the directory.
func (p *Page) MaxOffsetNumber() uint16 {
	lower := p.pdLower()
	if lower <= HeaderSize {
		return 0
	}
	return (lower - HeaderSize) / ItemIDSize
}

// FreeSpace returns the usable gap between the line-pointer directory and
// the tuple area, reserving room for the ItemId a new insert would append.
func (p *Page) FreeSpace() uint16 {
	lower, upper := p.pdLower(), p.pdUpper()
	if upper < lower+ItemIDSize {
		return 0
	}
	return upper - lower - ItemIDSize
}

// AddTuple appends bytes as a new item, returning the 0-based offset number
// assigned to it. Fails if there is not enough free space.
func (p *Page) AddTuple(bytes []byte) (uint16, error) {
	n := uint16(len(bytes))
	if n > p.FreeSpace() {
		return 0, errors.Errorf("page: does not have enough space for %d bytes (free space %d)", n, p.FreeSpace())
	}

	lower, upper := p.pdLower(), p.pdUpper()
	newUpper := upper - n
	copy(p.Data[newUpper:upper], bytes)

	item := NewItemID(newUpper, 0, n)
	binary.LittleEndian.PutUint32(p.Data[lower:lower+ItemIDSize], uint32(item))

	offsetNumber := (lower - HeaderSize) / ItemIDSize
	p.setPdUpper(newUpper)
	p.setPdLower(lower + ItemIDSize)
	return offsetNumber, nil
}

// GetItem returns a copy of the ItemId at the given 0-based slot.
func (p *Page) GetItem(off uint16) (ItemID, error) {
	if off >= p.MaxOffsetNumber() {
		return 0, errors.Errorf("page: offset %d out of range (max offset %d)", off, p.MaxOffsetNumber())
	}
	start := HeaderSize + ItemIDSize*int(off)
	return ItemID(binary.LittleEndian.Uint32(p.Data[start : start+ItemIDSize])), nil
}

// SetItem overwrites the ItemId at the given 0-based slot in place.
func (p *Page) SetItem(off uint16, item ItemID) error {
	if off >= p.MaxOffsetNumber() {
		return errors.Errorf("page: offset %d out of range (max offset %d)", off, p.MaxOffsetNumber())
	}
	start := HeaderSize + ItemIDSize*int(off)
	binary.LittleEndian.PutUint32(p.Data[start:start+ItemIDSize], uint32(item))
	return nil
}

// EntryPointer returns the byte window holding the tuple body for slot off.
func (p *Page) EntryPointer(off uint16) ([]byte, error) {
	item, err := p.GetItem(off)
	if err != nil {
		return nil, err
	}
	start := item.Off()
	end := start + item.Len()
	return p.Data[start:end], nil
}

// GetEntry copies out the tuple body bytes for slot off.
func (p *Page) GetEntry(off uint16) ([]byte, error) {
	b, err := p.EntryPointer(off)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// MaxTupleSize is the size limit HeapInsert checks every entry against
// (BlockSize - HeaderSize). An entry must also fit FreeSpace, which on an
// empty page is ItemIDSize smaller than this limit.
const MaxTupleSize = BlockSize - HeaderSize
