package catalog

import (
	"strconv"

	"github.com/pkg/errors"
)

// AttributeName is the fixed catalog name holding column records.
const AttributeName = "mini_attribute"

// IntegerTypeTag is the type_tag value for a 32-bit signed integer column.
const IntegerTypeTag = 1

// AttributeRecord is one line of mini_attribute:
// "<name>,<db_oid>,<table_oid>,<type_tag>,<byte_len>".
type AttributeRecord struct {
	Name     string
	DbOid    uint32
	TableOid uint32
	TypeTag  int
	ByteLen  uint16
}

type attributeRecordCodec struct{}

func (attributeRecordCodec) Parse(line string) (AttributeRecord, error) {
	fields, err := splitFields(line, 5)
	if err != nil {
		return AttributeRecord{}, err
	}
	dbOid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return AttributeRecord{}, errors.Wrapf(err, "mini_attribute: invalid db oid %q", fields[1])
	}
	tableOid, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return AttributeRecord{}, errors.Wrapf(err, "mini_attribute: invalid table oid %q", fields[2])
	}
	typeTag, err := strconv.Atoi(fields[3])
	if err != nil {
		return AttributeRecord{}, errors.Wrapf(err, "mini_attribute: invalid type tag %q", fields[3])
	}
	byteLen, err := strconv.ParseUint(fields[4], 10, 16)
	if err != nil {
		return AttributeRecord{}, errors.Wrapf(err, "mini_attribute: invalid byte length %q", fields[4])
	}
	return AttributeRecord{
		Name:     fields[0],
		DbOid:    uint32(dbOid),
		TableOid: uint32(tableOid),
		TypeTag:  typeTag,
		ByteLen:  uint16(byteLen),
	}, nil
}

func (attributeRecordCodec) Format(r AttributeRecord) string {
	return r.Name + "," +
		strconv.FormatUint(uint64(r.DbOid), 10) + "," +
		strconv.FormatUint(uint64(r.TableOid), 10) + "," +
		strconv.Itoa(r.TypeTag) + "," +
		strconv.FormatUint(uint64(r.ByteLen), 10)
}

// LoadAttributes opens the mini_attribute catalog.
func LoadAttributes(path string) (*Store[AttributeRecord], error) {
	return Load(path, attributeRecordCodec{})
}
