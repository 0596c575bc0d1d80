package dispatch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minidb-go/minidb/internal/pathlayout"
)

func newLayout(t *testing.T) *pathlayout.Layout {
	t.Helper()
	return pathlayout.New(t.TempDir())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestInitProducesBaseGlobalAndEmptyCatalogs(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))

	assert.DirExists(t, layout.BaseDir())
	assert.DirExists(t, layout.GlobalDir())
	assert.Equal(t, "10000", readFile(t, layout.OidFile()))
	assert.Equal(t, "", readFile(t, layout.SystemCatalogFile("mini_database")))
	assert.Equal(t, "", readFile(t, layout.SystemCatalogFile("mini_class")))
	assert.Equal(t, "", readFile(t, layout.SystemCatalogFile("mini_attribute")))
}

func TestInitIsIdempotent(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, Init(layout))
	assert.Equal(t, "10000", readFile(t, layout.OidFile()))
}

func TestCreateDatabaseAllocatesOidAndWritesRecord(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))

	assert.Equal(t, "10000,db1\n", readFile(t, layout.SystemCatalogFile("mini_database")))
	assert.DirExists(t, layout.DatabaseDir(10000))
	assert.Equal(t, "10001", readFile(t, layout.OidFile()))
}

func TestCreateDatabaseWithoutInitFails(t *testing.T) {
	layout := newLayout(t)
	err := CreateDatabase(layout, "db1")
	assert.Error(t, err)
}

func TestCreateTableWritesClassAndAttributeRecords(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))

	assert.Equal(t, "10001,t,10000\n", readFile(t, layout.SystemCatalogFile("mini_class")))
	assert.Equal(t,
		"id,10000,10001,1,4\nage,10000,10001,1,4\n",
		readFile(t, layout.SystemCatalogFile("mini_attribute")))
	assert.DirExists(t, layout.TableDir(10000, 10001))
}

func TestCreateTableAgainstUnknownDatabaseFails(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	err := CreateTable(layout, "nope", "t")
	assert.Error(t, err)
}

func TestInsertThenSelectStarPrintsRowsInInsertionOrder(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))

	require.NoError(t, Execute(layout, `insert into db1.t (id, age) values (1, 10), (2, 20)`, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Execute(layout, `select * from db1.t`, &out))
	assert.Equal(t, "\"1\" \"10\"\n\"2\" \"20\"\n", out.String())
}

func TestSelectCountAfterInsert(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))
	require.NoError(t, Execute(layout, `insert into db1.t (id, age) values (1, 10), (2, 20)`, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Execute(layout, `select count() from db1.t`, &out))
	assert.Equal(t, "Count: 2\n", out.String())
}

func TestDeleteThenSelectSkipsDeletedRow(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))
	require.NoError(t, Execute(layout, `insert into db1.t (id, age) values (1, 10), (2, 20)`, &bytes.Buffer{}))

	var del bytes.Buffer
	require.NoError(t, Execute(layout, `delete from db1.t where id = 1`, &del))
	assert.Equal(t, "Count: 1\n", del.String())

	var count bytes.Buffer
	require.NoError(t, Execute(layout, `select count() from db1.t`, &count))
	assert.Equal(t, "Count: 1\n", count.String())

	var star bytes.Buffer
	require.NoError(t, Execute(layout, `select * from db1.t`, &star))
	assert.Equal(t, "\"2\" \"20\"\n", star.String())
}

func TestInsertOverflowsIntoSecondBlock(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))

	for i := 0; i < 1000; i++ {
		sql := "insert into db1.t (id, age) values (" +
			itoaForTest(i) + ", " + itoaForTest(i) + ")"
		require.NoError(t, Execute(layout, sql, &bytes.Buffer{}))
	}

	info, err := os.Stat(filepath.Join(layout.TableDir(10000, 10001), "data"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size()%8192)
	assert.True(t, info.Size() >= 8192*2)
}

func TestSelectOrderByProducesLexicographicAscendingOrder(t *testing.T) {
	layout := newLayout(t)
	require.NoError(t, Init(layout))
	require.NoError(t, CreateDatabase(layout, "db1"))
	require.NoError(t, CreateTable(layout, "db1", "t"))
	require.NoError(t, Execute(layout,
		`insert into db1.t (id, age) values (3, 30), (1, 10), (2, 20)`, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Execute(layout, `select * from db1.t order by age`, &out))
	assert.Equal(t, "\"1\" \"10\"\n\"2\" \"20\"\n\"3\" \"30\"\n", out.String())
}

func itoaForTest(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		buf[i-1] = byte('0' + n%10)
		i--
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
