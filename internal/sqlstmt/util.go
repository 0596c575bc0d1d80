package sqlstmt

import (
	"strconv"

	"github.com/pkg/errors"
)

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "sqlstmt: invalid integer literal %q", s)
	}
	return int32(n), nil
}
