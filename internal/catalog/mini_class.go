package catalog

import (
	"strconv"

	"github.com/pkg/errors"
)

// ClassName is the fixed catalog name holding table records.
const ClassName = "mini_class"

// ClassRecord is one line of mini_class: "<table_oid>,<name>,<db_oid>".
type ClassRecord struct {
	Oid   uint32
	Name  string
	DbOid uint32
}

type classRecordCodec struct{}

func (classRecordCodec) Parse(line string) (ClassRecord, error) {
	fields, err := splitFields(line, 3)
	if err != nil {
		return ClassRecord{}, err
	}
	oid, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return ClassRecord{}, errors.Wrapf(err, "mini_class: invalid table oid %q", fields[0])
	}
	dbOid, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return ClassRecord{}, errors.Wrapf(err, "mini_class: invalid db oid %q", fields[2])
	}
	return ClassRecord{Oid: uint32(oid), Name: fields[1], DbOid: uint32(dbOid)}, nil
}

func (classRecordCodec) Format(r ClassRecord) string {
	return strconv.FormatUint(uint64(r.Oid), 10) + "," + r.Name + "," + strconv.FormatUint(uint64(r.DbOid), 10)
}

// LoadClasses opens the mini_class catalog.
func LoadClasses(path string) (*Store[ClassRecord], error) {
	return Load(path, classRecordCodec{})
}
