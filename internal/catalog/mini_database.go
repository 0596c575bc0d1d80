package catalog

import (
	"strconv"

	"github.com/pkg/errors"
)

// DatabaseName is the fixed catalog name holding database records.
const DatabaseName = "mini_database"

// DatabaseRecord is one line of mini_database: "<db_oid>,<name>".
type DatabaseRecord struct {
	Oid  uint32
	Name string
}

type databaseRecordCodec struct{}

func (databaseRecordCodec) Parse(line string) (DatabaseRecord, error) {
	fields, err := splitFields(line, 2)
	if err != nil {
		return DatabaseRecord{}, err
	}
	oid, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return DatabaseRecord{}, errors.Wrapf(err, "mini_database: invalid oid %q", fields[0])
	}
	return DatabaseRecord{Oid: uint32(oid), Name: fields[1]}, nil
}

func (databaseRecordCodec) Format(r DatabaseRecord) string {
	return strconv.FormatUint(uint64(r.Oid), 10) + "," + r.Name
}

// LoadDatabases opens the mini_database catalog.
func LoadDatabases(path string) (*Store[DatabaseRecord], error) {
	return Load(path, databaseRecordCodec{})
}
