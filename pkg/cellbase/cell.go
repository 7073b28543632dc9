package cellbase

// Cell is one worksheet cell handed to Traverse callbacks. Value changes
// are written back to the underlying worksheet after the callback returns.
type Cell struct {
	row    int
	col    int
	column string
	value  interface{}
	dirty  bool
}

// RowIdx returns the cell's 1-based row index.
func (c *Cell) RowIdx() int { return c.row }

// Column returns the cell's column name.
func (c *Cell) Column() string { return c.column }

// Value returns the cached cell value.
func (c *Cell) Value() interface{} {
	if c == nil {
		return nil
	}
	return c.value
}

// SetValue replaces the cell value and marks it for write-back.
func (c *Cell) SetValue(v interface{}) {
	c.value = v
	c.dirty = true
}
