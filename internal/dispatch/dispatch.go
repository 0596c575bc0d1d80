// Package dispatch wires the parsed SQL AST and the DDL subcommands to the
// storage, buffer, and executor layers: it resolves names through the
// catalog, builds plan-node trees, drives them to completion, and formats
// their output exactly as the CLI prints it.
package dispatch

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/minidb-go/minidb/internal/buffer"
	"github.com/minidb-go/minidb/internal/catalog"
	"github.com/minidb-go/minidb/internal/exec"
	"github.com/minidb-go/minidb/internal/oid"
	"github.com/minidb-go/minidb/internal/pathlayout"
	"github.com/minidb-go/minidb/internal/sqlstmt"
	"github.com/minidb-go/minidb/internal/storage"
	"github.com/minidb-go/minidb/internal/tuple"
	"github.com/minidb-go/minidb/logger"
)

// Init creates the root layout (base/, global/, the OID counter, and the
// three empty system catalogs) if they do not already exist. Safe to call
// against an already-initialized root.
func Init(layout *pathlayout.Layout) error {
	if err := os.MkdirAll(layout.BaseDir(), 0755); err != nil {
		return errors.Wrapf(err, "dispatch: create %s", layout.BaseDir())
	}
	if err := os.MkdirAll(layout.GlobalDir(), 0755); err != nil {
		return errors.Wrapf(err, "dispatch: create %s", layout.GlobalDir())
	}
	if err := oid.CreateFile(layout); err != nil {
		return err
	}
	if err := catalog.CreateInitialFiles(layout); err != nil {
		return err
	}
	logger.Infof("dispatch: initialized root at %s", layout.RootDir())
	return nil
}

// checkBaseDir rejects create_db/create_table against a root that was
// never initialized, the same check the original DDL commands made before
// touching the filesystem.
func checkBaseDir(layout *pathlayout.Layout) error {
	if _, err := os.Stat(layout.BaseDir()); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("base dir (%s) does not exist", layout.BaseDir())
		}
		return errors.Wrapf(err, "dispatch: stat %s", layout.BaseDir())
	}
	return nil
}

// CreateDatabase allocates an OID, creates base/<oid>/, and appends a
// mini_database record.
func CreateDatabase(layout *pathlayout.Layout, name string) error {
	if err := checkBaseDir(layout); err != nil {
		return err
	}

	om, err := oid.Load(layout)
	if err != nil {
		return err
	}
	defer om.Close()

	cm, err := catalog.Load(layout)
	if err != nil {
		return err
	}

	dbOid := om.GetNewOid()
	if err := os.MkdirAll(layout.DatabaseDir(dbOid), 0755); err != nil {
		return errors.Wrapf(err, "dispatch: create %s", layout.DatabaseDir(dbOid))
	}
	cm.AddDatabase(dbOid, name)
	if err := cm.SaveAll(); err != nil {
		return err
	}
	return om.Close()
}

// CreateTable resolves dbname to its OID, allocates a table OID, creates
// base/<db_oid>/<table_oid>/, and appends a mini_class record plus the two
// seeded mini_attribute columns (id, age).
func CreateTable(layout *pathlayout.Layout, dbname, tablename string) error {
	if err := checkBaseDir(layout); err != nil {
		return err
	}

	cm, err := catalog.Load(layout)
	if err != nil {
		return err
	}
	dbOid, ok := cm.FindDatabaseOid(dbname)
	if !ok {
		return errors.Errorf("database %q is not defined", dbname)
	}

	om, err := oid.Load(layout)
	if err != nil {
		return err
	}
	defer om.Close()
	tableOid := om.GetNewOid()

	if err := os.MkdirAll(layout.TableDir(dbOid, tableOid), 0755); err != nil {
		return errors.Wrapf(err, "dispatch: create %s", layout.TableDir(dbOid, tableOid))
	}

	cm.AddTable(tableOid, tablename, dbOid)
	cm.AddAttribute("id", dbOid, tableOid, catalog.IntegerTypeTag, 4)
	cm.AddAttribute("age", dbOid, tableOid, catalog.IntegerTypeTag, 4)
	if err := cm.SaveAll(); err != nil {
		return err
	}
	return om.Close()
}

// tupleDesc converts a catalog's column listing (in catalog insertion
// order) into the tuple layout the executor and page layer operate on.
func tupleDesc(cols []catalog.AttributeRecord) tuple.Desc {
	desc := make(tuple.Desc, len(cols))
	for i, c := range cols {
		desc[i] = tuple.Column{Name: c.Name, Type: tuple.ColumnType(c.TypeTag), ByteLen: c.ByteLen}
	}
	return desc
}

// resolve looks up (dbname, tablename) and the table's column descriptor.
func resolve(cm *catalog.Manager, dbname, tablename string) (dbOid, tableOid uint32, desc tuple.Desc, err error) {
	dbOid, ok := cm.FindDatabaseOid(dbname)
	if !ok {
		return 0, 0, nil, errors.Errorf("database %q is not defined", dbname)
	}
	tableOid, ok = cm.FindTableOid(dbOid, tablename)
	if !ok {
		return 0, 0, nil, errors.Errorf("table %q is not defined in database %q", tablename, dbname)
	}
	cols := cm.ColumnsFor(dbOid, tableOid)
	if len(cols) == 0 {
		return 0, 0, nil, errors.Errorf("table %q has no columns", tablename)
	}
	return dbOid, tableOid, tupleDesc(cols), nil
}

// Execute parses and runs one SQL statement, writing its textual output (if
// any) to out.
func Execute(layout *pathlayout.Layout, sql string, out io.Writer) error {
	stmt, err := sqlstmt.Parse(sql)
	if err != nil {
		return err
	}

	cm, err := catalog.Load(layout)
	if err != nil {
		return err
	}

	sm := storage.NewManager(layout)
	bm := buffer.NewManager(sm)

	switch s := stmt.(type) {
	case sqlstmt.Select:
		return execSelect(cm, sm, bm, s, out)
	case sqlstmt.Insert:
		return execInsert(cm, sm, bm, s)
	case sqlstmt.Delete:
		return execDelete(cm, sm, bm, s, out)
	default:
		return errors.Errorf("dispatch: %T is not a recognized statement", stmt)
	}
}

func execSelect(cm *catalog.Manager, sm *storage.Manager, bm *buffer.Manager, s sqlstmt.Select, out io.Writer) error {
	dbOid, tableOid, desc, err := resolve(cm, s.Db, s.Table)
	if err != nil {
		return err
	}
	rel := sm.Open(storage.RelFileNode{DbOid: dbOid, TableOid: tableOid})

	var node exec.Node = exec.NewSeqScan(bm, rel, desc, s.Where)
	if s.OrderBy != "" {
		sorted, err := exec.NewSort(node, desc, s.OrderBy)
		if err != nil {
			return err
		}
		node = sorted
	}

	switch s.Projection.(type) {
	case sqlstmt.Count:
		agg := exec.NewCountAgg(node)
		if err := drive(agg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Count: %d\n", agg.Result)
	case sqlstmt.All:
		if err := node.Open(); err != nil {
			return err
		}
		for {
			slot, ok, err := node.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			fmt.Fprintln(out, formatRow(slot))
		}
		if err := node.Close(); err != nil {
			return err
		}
	default:
		return errors.Errorf("dispatch: unrecognized projection %T", s.Projection)
	}
	return bm.Flush()
}

func execInsert(cm *catalog.Manager, sm *storage.Manager, bm *buffer.Manager, s sqlstmt.Insert) error {
	dbOid, tableOid, desc, err := resolve(cm, s.Db, s.Table)
	if err != nil {
		return err
	}
	rel := sm.Open(storage.RelFileNode{DbOid: dbOid, TableOid: tableOid})

	for _, row := range s.Rows {
		slot := tuple.NewSlot(desc)
		if err := slot.UpdateTuple(s.Keys, row); err != nil {
			return err
		}
		ins := exec.NewInsert(bm, rel, slot)
		if err := drive(ins); err != nil {
			return err
		}
	}
	return bm.Flush()
}

func execDelete(cm *catalog.Manager, sm *storage.Manager, bm *buffer.Manager, s sqlstmt.Delete, out io.Writer) error {
	dbOid, tableOid, desc, err := resolve(cm, s.Db, s.Table)
	if err != nil {
		return err
	}
	rel := sm.Open(storage.RelFileNode{DbOid: dbOid, TableOid: tableOid})

	scan := exec.NewSeqScan(bm, rel, desc, s.Where)
	del := exec.NewDelete(scan, bm, rel)
	if err := drive(del); err != nil {
		return err
	}
	fmt.Fprintf(out, "Count: %d\n", del.Count)
	return bm.Flush()
}

// drive pulls a node to exhaustion, discarding any tuples it returns; used
// for nodes whose only purpose is their side effect or accumulated result.
func drive(n exec.Node) error {
	if err := n.Open(); err != nil {
		return err
	}
	for {
		_, ok, err := n.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return n.Close()
}

// formatRow renders a tuple as space-separated, double-quoted decimal
// column values, e.g. `"1" "10"`.
func formatRow(slot *tuple.Slot) string {
	parts := make([]string, len(slot.Desc))
	for i := range slot.Desc {
		s, err := slot.GetColumnString(i)
		if err != nil {
			s = ""
		}
		parts[i] = strconv.Quote(s)
	}
	return strings.Join(parts, " ")
}
