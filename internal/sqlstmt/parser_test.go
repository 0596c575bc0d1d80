package sqlstmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("select * from db1.t")
	require.NoError(t, err)
	sel, ok := stmt.(Select)
	require.True(t, ok)
	assert.Equal(t, All{}, sel.Projection)
	assert.Equal(t, "db1", sel.Db)
	assert.Equal(t, "t", sel.Table)
	assert.Nil(t, sel.Where)
	assert.Empty(t, sel.OrderBy)
}

func TestParseSelectCountWhereOrderBy(t *testing.T) {
	stmt, err := Parse("select count() from db1.t where id = 1")
	require.NoError(t, err)
	sel := stmt.(Select)
	assert.Equal(t, Count{}, sel.Projection)
	assert.Equal(t, OpEq{Left: ColumnRef("id"), Right: Number(1)}, sel.Where)

	stmt2, err := Parse("select * from db1.t order by age")
	require.NoError(t, err)
	sel2 := stmt2.(Select)
	assert.Equal(t, "age", sel2.OrderBy)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("insert into db1.t (id, age) values (1, 10), (2, 20)")
	require.NoError(t, err)
	ins := stmt.(Insert)
	assert.Equal(t, "db1", ins.Db)
	assert.Equal(t, "t", ins.Table)
	assert.Equal(t, []string{"id", "age"}, ins.Keys)
	assert.Equal(t, [][]string{{"1", "10"}, {"2", "20"}}, ins.Rows)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("delete from db1.t where id = 1")
	require.NoError(t, err)
	del := stmt.(Delete)
	assert.Equal(t, "db1", del.Db)
	assert.Equal(t, "t", del.Table)
	assert.Equal(t, OpEq{Left: ColumnRef("id"), Right: Number(1)}, del.Where)
}

func TestParseDeleteWithoutWhere(t *testing.T) {
	stmt, err := Parse("delete from db1.t")
	require.NoError(t, err)
	del := stmt.(Delete)
	assert.Nil(t, del.Where)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse("select * fromm db1.t")
	assert.Error(t, err)

	_, err = Parse("select * from db1.t where")
	assert.Error(t, err)

	_, err = Parse("select * from db1.t extra garbage")
	assert.Error(t, err)
}
