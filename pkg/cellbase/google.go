package cellbase

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// GoogleConfig configures a workbook backed by a Google spreadsheet.
type GoogleConfig struct {
	// SpreadsheetID identifies an existing spreadsheet; the Sheets API has
	// no open-by-name.
	SpreadsheetID string
	// Credentials is service account JSON.
	Credentials []byte
}

// SheetsClient defines the Google Sheets operations the backend needs.
type SheetsClient interface {
	Titles(ctx context.Context) ([]string, error)
	Read(ctx context.Context, range_ string) ([][]interface{}, error)
	Write(ctx context.Context, range_ string, values [][]interface{}) error
	Clear(ctx context.Context, range_ string) error
	AddSheet(ctx context.Context, title string) error
	DeleteSheet(ctx context.Context, title string) error
	FormatCells(ctx context.Context, title string, row int, cols []int, format *sheets.CellFormat) error
}

// googleBackend talks to a live spreadsheet; every mutation is applied
// immediately, so save is a no-op and save-as is unsupported.
type googleBackend struct {
	client SheetsClient
}

func (b *googleBackend) load(ctx context.Context) (map[string]*Celltable, error) {
	titles, err := b.client.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	tables := map[string]*Celltable{}
	for _, title := range titles {
		grid, err := b.client.Read(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("read worksheet %s: %w", title, err)
		}
		tables[title] = newCelltable(title, &googleSheet{client: b.client, title: title}, grid)
	}
	return tables, nil
}

func (b *googleBackend) create(ctx context.Context, name string, columns []string) (*Celltable, error) {
	if err := b.client.AddSheet(ctx, name); err != nil {
		return nil, fmt.Errorf("create worksheet %s: %w", name, err)
	}
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := b.client.Write(ctx, name+"!A1", [][]interface{}{header}); err != nil {
		return nil, fmt.Errorf("write header of %s: %w", name, err)
	}
	return newCelltable(name, &googleSheet{client: b.client, title: name}, [][]interface{}{header}), nil
}

func (b *googleBackend) drop(ctx context.Context, name string) error {
	return b.client.DeleteSheet(ctx, name)
}

func (b *googleBackend) save(ctx context.Context) error {
	// Writes go to the live spreadsheet as they happen.
	return nil
}

func (b *googleBackend) saveAs(ctx context.Context, dir, filename string) error {
	return fmt.Errorf("save as on a Google spreadsheet: %w", ErrUnsupported)
}

// googleSheet is the write-through surface of one spreadsheet sheet.
type googleSheet struct {
	client SheetsClient
	title  string
}

func (s *googleSheet) setCell(ctx context.Context, row, col int, value interface{}) error {
	if value == nil {
		value = ""
	}
	range_ := fmt.Sprintf("%s!%s%d", s.title, columnIndexToLetter(col-1), row)
	return s.client.Write(ctx, range_, [][]interface{}{{value}})
}

func (s *googleSheet) appendRow(ctx context.Context, row int, values []interface{}) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		if v == nil {
			v = ""
		}
		cells[i] = v
	}
	return s.client.Write(ctx, s.rowRange(row, len(cells)), [][]interface{}{cells})
}

func (s *googleSheet) clearRow(ctx context.Context, row, maxCol int) error {
	return s.client.Clear(ctx, s.rowRange(row, maxCol))
}

func (s *googleSheet) formatCells(ctx context.Context, row int, cols []int, f Formatter) error {
	gf, ok := f.(*GoogleFormatter)
	if !ok {
		return fmt.Errorf("%T: %w", f, ErrFormatterMismatch)
	}
	return s.client.FormatCells(ctx, s.title, row, cols, gf.Format)
}

func (s *googleSheet) rowRange(row, maxCol int) string {
	endCol := columnIndexToLetter(maxCol - 1)
	return fmt.Sprintf("%s!A%d:%s%d", s.title, row, endCol, row)
}

func columnIndexToLetter(index int) string {
	if index < 0 {
		return "A"
	}
	result := ""
	for index >= 0 {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
	}
	return result
}
