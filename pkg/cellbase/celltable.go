package cellbase

import (
	"context"
	"fmt"
)

// column is one header-derived column: its name and 1-based sheet index.
type column struct {
	name string
	idx  int
}

// sheetIO is the write-through surface a Celltable needs from its backend.
type sheetIO interface {
	setCell(ctx context.Context, row, col int, value interface{}) error
	appendRow(ctx context.Context, row int, values []interface{}) error
	clearRow(ctx context.Context, row, maxCol int) error
	formatCells(ctx context.Context, row int, cols []int, f Formatter) error
}

// Celltable is a worksheet viewed as a table: row 1 holds column names,
// rows 2 and up hold data. Cell values are cached in memory; mutations are
// written through to the backend as they happen.
//
// Deleted row indices are never reassigned. Inserts always append after the
// highest row index the worksheet has ever held.
type Celltable struct {
	name    string
	io      sheetIO
	columns []column
	rows    map[int]map[string]*Cell
	lastRow int
}

// newCelltable builds a table from the worksheet's raw grid, header row
// included. Header cells with an empty value do not define a column and
// their cells are excluded from every record.
func newCelltable(name string, io sheetIO, grid [][]interface{}) *Celltable {
	t := &Celltable{
		name:    name,
		io:      io,
		rows:    map[int]map[string]*Cell{},
		lastRow: 1,
	}
	if len(grid) == 0 {
		return t
	}

	for i, v := range grid[0] {
		colName, ok := toColumnName(v)
		if !ok {
			continue
		}
		t.columns = append(t.columns, column{name: colName, idx: i + 1})
	}

	for i, rawRow := range grid[1:] {
		rowIdx := i + 2
		cells := make(map[string]*Cell, len(t.columns))
		for _, col := range t.columns {
			var value interface{}
			if col.idx-1 < len(rawRow) {
				value = rawRow[col.idx-1]
			}
			cells[col.name] = &Cell{row: rowIdx, col: col.idx, column: col.name, value: value}
		}
		t.rows[rowIdx] = cells
		t.lastRow = rowIdx
	}
	return t
}

// Name returns the worksheet name.
func (t *Celltable) Name() string { return t.name }

// Len returns the number of live data rows, header excluded.
func (t *Celltable) Len() int { return len(t.rows) }

// Has reports whether a data row exists at the given index.
func (t *Celltable) Has(rowIdx int) bool {
	_, ok := t.rows[rowIdx]
	return ok
}

// Insert appends values as a new row and returns its row index. The value
// map must not carry row_idx and may omit columns, which stay blank.
func (t *Celltable) Insert(ctx context.Context, values Record) (int, error) {
	if len(t.columns) == 0 {
		return 0, fmt.Errorf("%s: %w", t.name, ErrNoSchema)
	}
	if _, ok := values[ColRowIdx]; ok {
		return 0, fmt.Errorf("%s: %q is assigned on insert, not accepted", t.name, ColRowIdx)
	}
	if err := t.checkColumns(values); err != nil {
		return 0, err
	}

	rowIdx := t.lastRow + 1
	rowValues := make([]interface{}, t.maxCol())
	for _, col := range t.columns {
		if v, ok := values[col.name]; ok {
			rowValues[col.idx-1] = v
		}
	}
	if err := t.io.appendRow(ctx, rowIdx, rowValues); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", t.name, err)
	}

	cells := make(map[string]*Cell, len(t.columns))
	for _, col := range t.columns {
		cells[col.name] = &Cell{row: rowIdx, col: col.idx, column: col.name, value: rowValues[col.idx-1]}
	}
	t.rows[rowIdx] = cells
	t.lastRow = rowIdx
	return rowIdx, nil
}

// Query returns the records matching where, in row order, each with its
// row_idx. Passing column names restricts the returned columns.
func (t *Celltable) Query(ctx context.Context, where Where, columns ...string) ([]Record, error) {
	matched, err := t.matchRows(where)
	if err != nil {
		return nil, err
	}
	selected, err := t.selectColumns(columns)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(matched))
	for _, rowIdx := range matched {
		record := Record{ColRowIdx: rowIdx}
		for _, col := range selected {
			record[col.name] = t.rows[rowIdx][col.name].Value()
		}
		records = append(records, record)
	}
	return records, nil
}

// Update overwrites the supplied columns on every row matching where and
// returns the number of rows touched. With a nil where the value map must
// carry row_idx and only that row is updated.
func (t *Celltable) Update(ctx context.Context, values Record, where Where) (int, error) {
	updates := make(Record, len(values))
	for name, v := range values {
		if name == ColRowIdx {
			continue
		}
		updates[name] = v
	}
	if err := t.checkColumns(updates); err != nil {
		return 0, err
	}

	if where == nil {
		cond, ok := values[ColRowIdx]
		if !ok {
			return 0, fmt.Errorf("update %s without where requires %q", t.name, ColRowIdx)
		}
		where = Where{ColRowIdx: cond}
	}

	matched, err := t.matchRows(where)
	if err != nil {
		return 0, err
	}
	for _, rowIdx := range matched {
		for name, v := range updates {
			cell := t.rows[rowIdx][name]
			if err := t.io.setCell(ctx, cell.row, cell.col, v); err != nil {
				return 0, fmt.Errorf("update %s row %d: %w", t.name, rowIdx, err)
			}
			cell.value = v
		}
	}
	return len(matched), nil
}

// Delete blanks every row matching where and returns the number of rows
// removed. The freed indices are not reused.
func (t *Celltable) Delete(ctx context.Context, where Where) (int, error) {
	matched, err := t.matchRows(where)
	if err != nil {
		return 0, err
	}
	for _, rowIdx := range matched {
		if err := t.io.clearRow(ctx, rowIdx, t.maxCol()); err != nil {
			return 0, fmt.Errorf("delete %s row %d: %w", t.name, rowIdx, err)
		}
		delete(t.rows, rowIdx)
	}
	return len(matched), nil
}

// Traverse invokes fn on each cell of the matching rows, restricted to the
// selected columns, and writes changed values back. Returns the number of
// rows visited.
func (t *Celltable) Traverse(ctx context.Context, fn func(*Cell) error, where Where, columns ...string) (int, error) {
	if fn == nil {
		return 0, fmt.Errorf("traverse %s: fn is required", t.name)
	}
	matched, err := t.matchRows(where)
	if err != nil {
		return 0, err
	}
	selected, err := t.selectColumns(columns)
	if err != nil {
		return 0, err
	}

	for _, rowIdx := range matched {
		for _, col := range selected {
			cell := t.rows[rowIdx][col.name]
			if err := fn(cell); err != nil {
				return 0, fmt.Errorf("traverse %s row %d: %w", t.name, rowIdx, err)
			}
			if cell.dirty {
				if err := t.io.setCell(ctx, cell.row, cell.col, cell.value); err != nil {
					return 0, fmt.Errorf("traverse %s row %d: %w", t.name, rowIdx, err)
				}
				cell.dirty = false
			}
		}
	}
	return len(matched), nil
}

// Format applies the formatter to each cell of the matching rows,
// restricted to the selected columns. Returns the number of rows formatted.
func (t *Celltable) Format(ctx context.Context, f Formatter, where Where, columns ...string) (int, error) {
	if f == nil || f.Empty() {
		return 0, nil
	}
	matched, err := t.matchRows(where)
	if err != nil {
		return 0, err
	}
	selected, err := t.selectColumns(columns)
	if err != nil {
		return 0, err
	}

	colIdxs := make([]int, 0, len(selected))
	for _, col := range selected {
		colIdxs = append(colIdxs, col.idx)
	}
	for _, rowIdx := range matched {
		if err := t.io.formatCells(ctx, rowIdx, colIdxs, f); err != nil {
			return 0, fmt.Errorf("format %s row %d: %w", t.name, rowIdx, err)
		}
	}
	return len(matched), nil
}

func (t *Celltable) column(name string) (column, bool) {
	for _, col := range t.columns {
		if col.name == name {
			return col, true
		}
	}
	return column{}, false
}

// selectColumns resolves a select-list to columns in worksheet order.
// An empty list selects every column.
func (t *Celltable) selectColumns(names []string) ([]column, error) {
	if len(names) == 0 {
		return t.columns, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := t.column(name); !ok {
			return nil, fmt.Errorf("%s: %q: %w", t.name, name, ErrColumnNotFound)
		}
		wanted[name] = true
	}
	var selected []column
	for _, col := range t.columns {
		if wanted[col.name] {
			selected = append(selected, col)
		}
	}
	return selected, nil
}

func (t *Celltable) checkColumns(values Record) error {
	for name := range values {
		if _, ok := t.column(name); !ok {
			return fmt.Errorf("%s: %q: %w", t.name, name, ErrColumnNotFound)
		}
	}
	return nil
}

func (t *Celltable) maxCol() int {
	max := 0
	for _, col := range t.columns {
		if col.idx > max {
			max = col.idx
		}
	}
	return max
}

func toColumnName(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", false
	}
	return s, true
}
