// Package cellbase treats a spreadsheet workbook as a lightweight record
// store: worksheets become tables, rows become records. Values are held in
// memory until an explicit save flushes them back to the spreadsheet.
package cellbase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// backend owns the worksheets of one workbook flavor.
type backend interface {
	load(ctx context.Context) (map[string]*Celltable, error)
	create(ctx context.Context, name string, columns []string) (*Celltable, error)
	drop(ctx context.Context, name string) error
	save(ctx context.Context) error
	saveAs(ctx context.Context, dir, filename string) error
}

// Cellbase is a workbook holding named Celltables.
type Cellbase struct {
	backend backend
	schemas map[string][]string
	tables  map[string]*Celltable
}

// NewLocal loads a workbook file into memory. A missing file starts a
// fresh workbook unless cfg.MustExist is set.
func NewLocal(cfg LocalConfig) (*Cellbase, error) {
	b, err := newLocalBackend(cfg)
	if err != nil {
		return nil, err
	}
	return open(context.Background(), b)
}

// NewGoogle opens a live Google spreadsheet by ID.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Cellbase, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if len(cfg.Credentials) == 0 {
		return nil, fmt.Errorf("credentials are required")
	}
	client, err := newSheetsClient(ctx, cfg.Credentials, cfg.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return open(ctx, &googleBackend{client: client})
}

func open(ctx context.Context, b backend) (*Cellbase, error) {
	tables, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return &Cellbase{
		backend: b,
		schemas: map[string][]string{},
		tables:  tables,
	}, nil
}

// Register records the header rows of worksheets that may need creating,
// keyed by worksheet name. Only required for worksheets that do not exist
// yet.
func (cb *Cellbase) Register(schemas map[string][]string) {
	for name, columns := range schemas {
		cb.schemas[name] = columns
	}
}

// Table returns the named Celltable, creating the worksheet from its
// registered schema when missing. Creating an unregistered worksheet fails
// with ErrNoSchema.
func (cb *Cellbase) Table(ctx context.Context, name string) (*Celltable, error) {
	if t, ok := cb.tables[name]; ok {
		return t, nil
	}
	columns, ok := cb.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSchema)
	}
	t, err := cb.backend.create(ctx, name, columns)
	if err != nil {
		return nil, err
	}
	cb.tables[name] = t
	return t, nil
}

// Query returns the records of a worksheet matching where, optionally
// restricted to the named columns.
func (cb *Cellbase) Query(ctx context.Context, worksheet string, where Where, columns ...string) ([]Record, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return nil, err
	}
	return t.Query(ctx, where, columns...)
}

// Insert appends a new row to a worksheet and returns its row index.
func (cb *Cellbase) Insert(ctx context.Context, worksheet string, values Record) (int, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return t.Insert(ctx, values)
}

// Update overwrites the supplied columns on the rows of a worksheet
// matching where.
func (cb *Cellbase) Update(ctx context.Context, worksheet string, values Record, where Where) (int, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return t.Update(ctx, values, where)
}

// Delete removes the rows of a worksheet matching where.
func (cb *Cellbase) Delete(ctx context.Context, worksheet string, where Where) (int, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return t.Delete(ctx, where)
}

// Traverse invokes fn on the cells of the rows matching where.
func (cb *Cellbase) Traverse(ctx context.Context, worksheet string, fn func(*Cell) error, where Where, columns ...string) (int, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return t.Traverse(ctx, fn, where, columns...)
}

// Format applies a formatter to the cells of the rows matching where.
func (cb *Cellbase) Format(ctx context.Context, worksheet string, f Formatter, where Where, columns ...string) (int, error) {
	t, err := cb.Table(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return t.Format(ctx, f, where, columns...)
}

// Drop deletes a worksheet.
func (cb *Cellbase) Drop(ctx context.Context, worksheet string) error {
	if _, ok := cb.tables[worksheet]; !ok {
		return fmt.Errorf("%s: %w", worksheet, ErrWorksheetNotFound)
	}
	if err := cb.backend.drop(ctx, worksheet); err != nil {
		return err
	}
	delete(cb.tables, worksheet)
	return nil
}

// Save flushes the workbook to the location it was loaded from,
// overwriting it.
func (cb *Cellbase) Save(ctx context.Context) error {
	return cb.backend.save(ctx)
}

// SaveAs writes the workbook to dir/filename. It fails with ErrFileExists
// when the target exists and overwrite is false.
func (cb *Cellbase) SaveAs(ctx context.Context, dir, filename string, overwrite bool) error {
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s: %w", path, ErrFileExists)
	}
	return cb.backend.saveAs(ctx, dir, filename)
}

// Len returns the number of worksheets.
func (cb *Cellbase) Len() int {
	return len(cb.tables)
}

// Has reports whether a worksheet exists.
func (cb *Cellbase) Has(worksheet string) bool {
	_, ok := cb.tables[worksheet]
	return ok
}
