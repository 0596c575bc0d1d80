package exec

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/minidb-go/minidb/internal/sqlstmt"
	"github.com/minidb-go/minidb/internal/tuple"
)

// value is either a boolean or a canonical decimal string; these are the
// only two forms expression evaluation ever produces.
type value struct {
	isBool bool
	b      bool
	s      string
}

// EvalPredicate evaluates a WHERE expression against the current tuple. A
// nil expr is treated as always-true.
func EvalPredicate(slot *tuple.Slot, expr sqlstmt.Expr) (bool, error) {
	if expr == nil {
		return true, nil
	}
	v, err := evalRec(slot, expr)
	if err != nil {
		return false, err
	}
	if !v.isBool {
		return false, errors.New("exec: predicate did not reduce to a boolean")
	}
	return v.b, nil
}

func evalRec(slot *tuple.Slot, expr sqlstmt.Expr) (value, error) {
	switch e := expr.(type) {
	case sqlstmt.Bool:
		return value{isBool: true, b: bool(e)}, nil
	case sqlstmt.Number:
		return value{s: strconv.FormatInt(int64(e), 10)}, nil
	case sqlstmt.ColumnRef:
		idx, err := slot.Desc.IndexFromName(string(e))
		if err != nil {
			return value{}, err
		}
		s, err := slot.GetColumnString(idx)
		if err != nil {
			return value{}, err
		}
		return value{s: s}, nil
	case sqlstmt.OpEq:
		v1, err := evalRec(slot, e.Left)
		if err != nil {
			return value{}, err
		}
		v2, err := evalRec(slot, e.Right)
		if err != nil {
			return value{}, err
		}
		return value{isBool: true, b: opEq(v1, v2)}, nil
	default:
		return value{}, errors.Errorf("exec: %T is not a valid predicate expression", expr)
	}
}

// opEq compares two evaluated values as their canonical decimal strings;
// comparing a boolean to a string is never an error, only false.
func opEq(v1, v2 value) bool {
	if v1.isBool && v2.isBool {
		return v1.b == v2.b
	}
	if !v1.isBool && !v2.isBool {
		return v1.s == v2.s
	}
	return false
}
