// Package pathlayout maps object identifiers to the filesystem paths the
// storage manager and catalog store read and write.
package pathlayout

import (
	"path/filepath"
	"strconv"
)

// Oid is a 32-bit object identifier, used for database and table ids.
type Oid = uint32

// Layout resolves (db_oid, table_oid) and catalog names to paths rooted at
// a single base directory.
type Layout struct {
	root string
}

// New returns a Layout rooted at root.
func New(root string) *Layout {
	return &Layout{root: root}
}

// RootDir is the configured root directory.
func (l *Layout) RootDir() string { return l.root }

// BaseDir is the parent of every user database directory.
func (l *Layout) BaseDir() string { return filepath.Join(l.root, "base") }

// GlobalDir is the catalog root and OID counter directory.
func (l *Layout) GlobalDir() string { return filepath.Join(l.root, "global") }

// OidFile is the path to the persisted next-OID counter.
func (l *Layout) OidFile() string { return filepath.Join(l.GlobalDir(), "oid") }

// SystemCatalogDir is the directory holding one named catalog.
func (l *Layout) SystemCatalogDir(name string) string {
	return filepath.Join(l.GlobalDir(), name)
}

// SystemCatalogFile is the data file of one named catalog.
func (l *Layout) SystemCatalogFile(name string) string {
	return filepath.Join(l.SystemCatalogDir(name), "data")
}

// DatabaseDir is the directory holding every table of a database.
func (l *Layout) DatabaseDir(dbOid Oid) string {
	return filepath.Join(l.BaseDir(), strconv.FormatUint(uint64(dbOid), 10))
}

// TableDir is the directory holding a single table's heap file.
func (l *Layout) TableDir(dbOid, tableOid Oid) string {
	return filepath.Join(l.DatabaseDir(dbOid), strconv.FormatUint(uint64(tableOid), 10))
}

// DataFile is the heap file for a single table.
func (l *Layout) DataFile(dbOid, tableOid Oid) string {
	return filepath.Join(l.TableDir(dbOid, tableOid), "data")
}
