package exec

import "github.com/minidb-go/minidb/internal/tuple"

// CountAgg drains its child fully, counting every row it produces. It never
// returns a tuple of its own; the dispatcher reads Result after driving it
// to exhaustion.
type CountAgg struct {
	child  Node
	Result int
}

// NewCountAgg wraps child.
func NewCountAgg(child Node) *CountAgg {
	return &CountAgg{child: child}
}

func (c *CountAgg) Open() error {
	c.Result = 0
	return c.child.Open()
}

func (c *CountAgg) Next() (*tuple.Slot, bool, error) {
	for {
		_, ok, err := c.child.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		c.Result++
	}
}

func (c *CountAgg) Close() error { return c.child.Close() }
