package catalog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minidb-go/minidb/internal/pathlayout"
)

func TestCreateInitialFilesThenLoadEmpty(t *testing.T) {
	dir := t.TempDir()
	layout := pathlayout.New(dir)

	require.NoError(t, CreateInitialFiles(layout))

	m, err := Load(layout)
	require.NoError(t, err)
	assert.Empty(t, m.Databases.Records)
	assert.Empty(t, m.Classes.Records)
	assert.Empty(t, m.Attributes.Records)
}

func TestCreateInitialFilesIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	layout := pathlayout.New(dir)

	require.NoError(t, CreateInitialFiles(layout))

	m, err := Load(layout)
	require.NoError(t, err)
	m.AddDatabase(10000, "db1")
	require.NoError(t, m.SaveAll())

	// Running CreateInitialFiles again must not truncate data already
	// written.
	require.NoError(t, CreateInitialFiles(layout))
	m2, err := Load(layout)
	require.NoError(t, err)
	assert.Len(t, m2.Databases.Records, 1)
}

func TestAddAndFindDatabaseAndTable(t *testing.T) {
	dir := t.TempDir()
	layout := pathlayout.New(dir)
	require.NoError(t, CreateInitialFiles(layout))

	m, err := Load(layout)
	require.NoError(t, err)

	m.AddDatabase(10000, "db1")
	m.AddTable(10001, "t", 10000)
	m.AddAttribute("id", 10000, 10001, IntegerTypeTag, 4)
	m.AddAttribute("age", 10000, 10001, IntegerTypeTag, 4)
	require.NoError(t, m.SaveAll())

	m2, err := Load(layout)
	require.NoError(t, err)

	dbOid, ok := m2.FindDatabaseOid("db1")
	require.True(t, ok)
	assert.Equal(t, uint32(10000), dbOid)

	tableOid, ok := m2.FindTableOid(dbOid, "t")
	require.True(t, ok)
	assert.Equal(t, uint32(10001), tableOid)

	cols := m2.ColumnsFor(dbOid, tableOid)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "age", cols[1].Name)
}

func TestMalformedLineFailsWithOffendingLine(t *testing.T) {
	dir := t.TempDir()
	layout := pathlayout.New(dir)
	require.NoError(t, CreateInitialFiles(layout))

	path := layout.SystemCatalogFile(DatabaseName)
	require.NoError(t, os.WriteFile(path, []byte("not-a-valid-line\n"), 0644))

	_, err := Load(layout)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-valid-line")
}
