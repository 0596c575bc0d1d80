package catalog

import (
	"os"

	"github.com/pkg/errors"

	"github.com/minidb-go/minidb/internal/pathlayout"
)

// Manager bundles the three catalogs and resolves names against them. It is
// constructed fresh for every command — no catalog handle outlives a
// statement.
type Manager struct {
	layout     *pathlayout.Layout
	Databases  *Store[DatabaseRecord]
	Classes    *Store[ClassRecord]
	Attributes *Store[AttributeRecord]
}

// CreateInitialFiles writes empty mini_database, mini_class and
// mini_attribute catalog files if they do not already exist.
func CreateInitialFiles(layout *pathlayout.Layout) error {
	for _, name := range []string{DatabaseName, ClassName, AttributeName} {
		dir := layout.SystemCatalogDir(name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "catalog: create %s", dir)
		}
		path := layout.SystemCatalogFile(name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "catalog: stat %s", path)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return errors.Wrapf(err, "catalog: create %s", path)
		}
	}
	return nil
}

// Load reads all three catalogs from layout.
func Load(layout *pathlayout.Layout) (*Manager, error) {
	databases, err := LoadDatabases(layout.SystemCatalogFile(DatabaseName))
	if err != nil {
		return nil, err
	}
	classes, err := LoadClasses(layout.SystemCatalogFile(ClassName))
	if err != nil {
		return nil, err
	}
	attributes, err := LoadAttributes(layout.SystemCatalogFile(AttributeName))
	if err != nil {
		return nil, err
	}
	return &Manager{layout: layout, Databases: databases, Classes: classes, Attributes: attributes}, nil
}

// FindDatabaseOid resolves a database name to its OID.
func (m *Manager) FindDatabaseOid(name string) (uint32, bool) {
	for _, r := range m.Databases.Records {
		if r.Name == name {
			return r.Oid, true
		}
	}
	return 0, false
}

// FindTableOid resolves a (db_oid, name) pair to a table OID.
func (m *Manager) FindTableOid(dbOid uint32, name string) (uint32, bool) {
	for _, r := range m.Classes.Records {
		if r.DbOid == dbOid && r.Name == name {
			return r.Oid, true
		}
	}
	return 0, false
}

// ColumnsFor lists the columns of (db_oid, table_oid) in catalog insertion
// order, which is the tuple layout order.
func (m *Manager) ColumnsFor(dbOid, tableOid uint32) []AttributeRecord {
	var cols []AttributeRecord
	for _, r := range m.Attributes.Records {
		if r.DbOid == dbOid && r.TableOid == tableOid {
			cols = append(cols, r)
		}
	}
	return cols
}

// AddDatabase appends a database record in memory.
func (m *Manager) AddDatabase(dbOid uint32, name string) {
	m.Databases.Add(DatabaseRecord{Oid: dbOid, Name: name})
}

// AddTable appends a table record in memory.
func (m *Manager) AddTable(tableOid uint32, name string, dbOid uint32) {
	m.Classes.Add(ClassRecord{Oid: tableOid, Name: name, DbOid: dbOid})
}

// AddAttribute appends a column record in memory.
func (m *Manager) AddAttribute(name string, dbOid, tableOid uint32, typeTag int, byteLen uint16) {
	m.Attributes.Add(AttributeRecord{Name: name, DbOid: dbOid, TableOid: tableOid, TypeTag: typeTag, ByteLen: byteLen})
}

// SaveAll rewrites every catalog file with its current in-memory records.
func (m *Manager) SaveAll() error {
	if err := m.Databases.Save(); err != nil {
		return err
	}
	if err := m.Classes.Save(); err != nil {
		return err
	}
	if err := m.Attributes.Save(); err != nil {
		return err
	}
	return nil
}
