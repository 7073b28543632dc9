package cellbase

import (
	"fmt"
	"math"
	"sort"

	"github.com/SierraSoftworks/connor"
)

// ColRowIdx is the reserved column name holding a record's 1-based row
// index. It is present on every queried record and usable in Where maps,
// but never accepted on insert.
const ColRowIdx = "row_idx"

// Record maps column names to cell values for one data row.
type Record map[string]interface{}

// Where selects rows. Each entry names a column (or ColRowIdx) and holds
// either a literal, matched by equality, or a Predicate. Entries combine
// with logical AND; a nil or empty Where matches every row.
type Where map[string]interface{}

// Predicate is an arbitrary per-value test usable as a Where entry.
type Predicate func(value interface{}) bool

// matchRows returns the indices of rows satisfying every entry in where,
// in ascending row order.
func (t *Celltable) matchRows(where Where) ([]int, error) {
	if err := t.checkWhere(where); err != nil {
		return nil, err
	}

	literals := map[string]interface{}{}
	predicates := map[string]Predicate{}
	for name, cond := range where {
		if name == ColRowIdx {
			continue
		}
		if p, ok := cond.(Predicate); ok {
			predicates[name] = p
			continue
		}
		if p, ok := cond.(func(interface{}) bool); ok {
			predicates[name] = p
			continue
		}
		literals[name] = cond
	}

	var matched []int
	for _, rowIdx := range t.rowIdxs() {
		ok, err := t.matchRow(rowIdx, where, literals, predicates)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, rowIdx)
		}
	}
	return matched, nil
}

func (t *Celltable) matchRow(rowIdx int, where Where, literals map[string]interface{}, predicates map[string]Predicate) (bool, error) {
	if cond, ok := where[ColRowIdx]; ok {
		match, err := matchRowIdx(rowIdx, cond)
		if err != nil {
			return false, err
		}
		if !match {
			return false, nil
		}
	}

	for name, p := range predicates {
		if !p(t.rows[rowIdx][name].Value()) {
			return false, nil
		}
	}

	if len(literals) > 0 {
		match, err := connor.Match(literals, t.rowValues(rowIdx))
		if err != nil {
			return false, fmt.Errorf("match row %d: %w", rowIdx, err)
		}
		if !match {
			return false, nil
		}
	}
	return true, nil
}

func matchRowIdx(rowIdx int, cond interface{}) (bool, error) {
	switch c := cond.(type) {
	case Predicate:
		return c(rowIdx), nil
	case func(interface{}) bool:
		return c(rowIdx), nil
	default:
		want, ok := toRowIdx(cond)
		if !ok {
			return false, fmt.Errorf("%s condition %v (%T): expected int or Predicate", ColRowIdx, cond, cond)
		}
		return rowIdx == want, nil
	}
}

// checkWhere validates column names up front so a match over zero rows
// still reports a bad condition.
func (t *Celltable) checkWhere(where Where) error {
	for name, cond := range where {
		if name == ColRowIdx {
			if idx, ok := toRowIdx(cond); ok && idx == 1 {
				return ErrHeaderRow
			}
			continue
		}
		if _, ok := t.column(name); !ok {
			return fmt.Errorf("%s: %q: %w", t.name, name, ErrColumnNotFound)
		}
	}
	return nil
}

func toRowIdx(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// rowIdxs returns the live row indices in ascending order.
func (t *Celltable) rowIdxs() []int {
	idxs := make([]int, 0, len(t.rows))
	for idx := range t.rows {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// rowValues snapshots a row's cell values keyed by column name.
func (t *Celltable) rowValues(rowIdx int) map[string]interface{} {
	values := make(map[string]interface{}, len(t.columns))
	for name, cell := range t.rows[rowIdx] {
		values[name] = cell.Value()
	}
	return values
}
