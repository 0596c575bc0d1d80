// Package tuple implements the in-memory tuple slot: a typed column
// descriptor paired with the packed header+body bytes that are copied to and
// from page-resident storage.
package tuple

import (
	"encoding/binary"
	"strconv"

	"github.com/pkg/errors"
)

// HeaderSize is the byte size of a heap tuple header (t_infomask2 + t_infomask).
const HeaderSize = 4

// HeapKeysUpdated, set in t_infomask2, marks a tuple as soft-deleted.
const HeapKeysUpdated uint16 = 0x2000

// ColumnType enumerates the supported column types. The core only ever uses
// a single 32-bit signed integer type.
type ColumnType int

const (
	// IntegerType is a little-endian 32-bit signed integer, 4 bytes.
	IntegerType ColumnType = 1
)

// Column describes one attribute of a tuple descriptor.
type Column struct {
	Name     string
	Type     ColumnType
	ByteLen  uint16
}

// Desc is an ordered list of columns; the byte layout of every tuple body in
// a relation follows this order.
type Desc []Column

// BodyLen returns the sum of every column's byte length.
func (d Desc) BodyLen() uint16 {
	var total uint16
	for _, c := range d {
		total += c.ByteLen
	}
	return total
}

// IndexFromName returns the 0-based position of the named column.
func (d Desc) IndexFromName(name string) (int, error) {
	for i, c := range d {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("tuple: no such column %q", name)
}

func (d Desc) offsetOf(i int) uint16 {
	var off uint16
	for j := 0; j < i; j++ {
		off += d[j].ByteLen
	}
	return off
}

// TID (ItemPointerData) is the stable (block, offset) identity of a tuple.
type TID struct {
	Block  uint32
	Offset uint16
}

// InvalidBlockNumber is the sentinel marking "no block selected".
const InvalidBlockNumber uint32 = 0xFFFFFFFF

// Slot is an in-memory pair of a tuple descriptor and its packed header+body
// bytes, along with the TID it was last loaded from (if any).
type Slot struct {
	Desc Desc
	Data []byte // HeaderSize + Desc.BodyLen() bytes
	Self TID
}

// NewSlot allocates a zeroed slot sized for desc.
func NewSlot(desc Desc) *Slot {
	return &Slot{
		Desc: desc,
		Data: make([]byte, HeaderSize+int(desc.BodyLen())),
	}
}

func (s *Slot) body() []byte { return s.Data[HeaderSize:] }

// Infomask2 returns the t_infomask2 header field.
func (s *Slot) Infomask2() uint16 {
	return binary.LittleEndian.Uint16(s.Data[0:2])
}

// SetInfomask2 overwrites the t_infomask2 header field.
func (s *Slot) SetInfomask2(v uint16) {
	binary.LittleEndian.PutUint16(s.Data[0:2], v)
}

// IsSoftDeleted reports whether HEAP_KEYS_UPDATED is set.
func (s *Slot) IsSoftDeleted() bool {
	return s.Infomask2()&HeapKeysUpdated != 0
}

// MarkSoftDeleted sets HEAP_KEYS_UPDATED on the in-memory header.
func (s *Slot) MarkSoftDeleted() {
	s.SetInfomask2(s.Infomask2() | HeapKeysUpdated)
}

// SetColumnInt32 writes a little-endian int32 into the column at index i.
func (s *Slot) SetColumnInt32(i int, v int32) error {
	if i < 0 || i >= len(s.Desc) {
		return errors.Errorf("tuple: column index %d out of range", i)
	}
	off := s.Desc.offsetOf(i)
	body := s.body()
	binary.LittleEndian.PutUint32(body[off:off+4], uint32(v))
	return nil
}

// GetColumnInt32 decodes the column at index i as a little-endian int32.
func (s *Slot) GetColumnInt32(i int) (int32, error) {
	if i < 0 || i >= len(s.Desc) {
		return 0, errors.Errorf("tuple: column index %d out of range", i)
	}
	off := s.Desc.offsetOf(i)
	body := s.body()
	return int32(binary.LittleEndian.Uint32(body[off : off+4])), nil
}

// GetColumnString renders the column at index i as its canonical decimal
// string, the sole form expression evaluation compares.
func (s *Slot) GetColumnString(i int) (string, error) {
	v, err := s.GetColumnInt32(i)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

// LoadFromPage copies header+body bytes from a page-resident tuple body into
// the slot and records the TID it came from.
func (s *Slot) LoadFromPage(src []byte, tid TID) error {
	if len(src) != len(s.Data) {
		return errors.Errorf("tuple: expected %d bytes, got %d", len(s.Data), len(src))
	}
	copy(s.Data, src)
	s.Self = tid
	return nil
}

// StoreToPage copies the slot's header+body bytes back into page-resident
// storage in place.
func (s *Slot) StoreToPage(dst []byte) error {
	if len(dst) != len(s.Data) {
		return errors.Errorf("tuple: expected %d bytes, got %d", len(s.Data), len(dst))
	}
	copy(dst, s.Data)
	return nil
}

// UpdateTuple validates that keys match the descriptor's column names
// one-for-one (in order), parses each value per its column type, and sets
// every column.
func (s *Slot) UpdateTuple(keys []string, values []string) error {
	if len(keys) != len(s.Desc) {
		return errors.Errorf("tuple: expected %d columns, got %d keys", len(s.Desc), len(keys))
	}
	if len(values) != len(s.Desc) {
		return errors.Errorf("tuple: expected %d columns, got %d values", len(s.Desc), len(values))
	}
	for i, k := range keys {
		if k != s.Desc[i].Name {
			return errors.Errorf("tuple: column mismatch at position %d: expected %q, got %q", i, s.Desc[i].Name, k)
		}
	}
	for i, v := range values {
		switch s.Desc[i].Type {
		case IntegerType:
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return errors.Wrapf(err, "tuple: value %q is not a valid integer for column %q", v, s.Desc[i].Name)
			}
			if err := s.SetColumnInt32(i, int32(n)); err != nil {
				return err
			}
		default:
			return errors.Errorf("tuple: unsupported column type %d", s.Desc[i].Type)
		}
	}
	return nil
}
