package cellbase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultFilename is the workbook filename used when LocalConfig leaves it
// blank.
const DefaultFilename = "cellbase.xlsx"

// LocalConfig configures a workbook stored as a local file.
type LocalConfig struct {
	// Dir is the directory holding the workbook. Defaults to the working
	// directory.
	Dir string
	// Filename is the workbook file name. Defaults to DefaultFilename.
	// A .xls file is imported through the legacy reader; anything else is
	// read and written as xlsx.
	Filename string
	// MustExist makes loading fail with ErrWorkbookNotFound instead of
	// starting from a fresh workbook when the file is missing.
	MustExist bool
}

// localBackend keeps the whole workbook in memory via excelize and writes
// it out on save.
type localBackend struct {
	file     *excelize.File
	dir      string
	filename string
}

func newLocalBackend(cfg LocalConfig) (*localBackend, error) {
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	path := filepath.Join(cfg.Dir, cfg.Filename)

	var file *excelize.File
	if _, err := os.Stat(path); err == nil {
		if strings.EqualFold(filepath.Ext(path), ".xls") {
			file, err = importXLS(path)
		} else {
			file, err = excelize.OpenFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
	} else if cfg.MustExist {
		return nil, fmt.Errorf("%s: %w", path, ErrWorkbookNotFound)
	} else {
		file = excelize.NewFile()
	}

	return &localBackend{
		file:     file,
		dir:      cfg.Dir,
		filename: cfg.Filename,
	}, nil
}

func (b *localBackend) load(ctx context.Context) (map[string]*Celltable, error) {
	tables := map[string]*Celltable{}
	for _, sheet := range b.file.GetSheetList() {
		rows, err := b.file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read worksheet %s: %w", sheet, err)
		}
		grid := make([][]interface{}, len(rows))
		for i, row := range rows {
			grid[i] = make([]interface{}, len(row))
			for j, v := range row {
				if v != "" {
					grid[i][j] = v
				}
			}
		}
		tables[sheet] = newCelltable(sheet, &localSheet{file: b.file, sheet: sheet}, grid)
	}
	return tables, nil
}

func (b *localBackend) create(ctx context.Context, name string, columns []string) (*Celltable, error) {
	if _, err := b.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create worksheet %s: %w", name, err)
	}
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := b.file.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header of %s: %w", name, err)
	}
	return newCelltable(name, &localSheet{file: b.file, sheet: name}, [][]interface{}{header}), nil
}

func (b *localBackend) drop(ctx context.Context, name string) error {
	// The workbook must keep at least one visible sheet.
	visible := 0
	for _, sheet := range b.file.GetSheetList() {
		if ok, err := b.file.GetSheetVisible(sheet); err == nil && ok {
			visible++
		}
	}
	if visible <= 1 {
		if _, err := b.file.NewSheet(unusedSheetName(b.file)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	if err := b.file.DeleteSheet(name); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	return nil
}

func (b *localBackend) save(ctx context.Context) error {
	return b.saveAs(ctx, b.dir, b.filename)
}

func (b *localBackend) saveAs(ctx context.Context, dir, filename string) error {
	path := filepath.Join(dir, filename)
	if err := b.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func unusedSheetName(file *excelize.File) string {
	existing := map[string]bool{}
	for _, sheet := range file.GetSheetList() {
		existing[sheet] = true
	}
	for i := 1; ; i++ {
		name := "Sheet" + strconv.Itoa(i)
		if !existing[name] {
			return name
		}
	}
}

// localSheet is the write-through surface of one excelize worksheet.
type localSheet struct {
	file  *excelize.File
	sheet string
}

func (s *localSheet) setCell(ctx context.Context, row, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.file.SetCellValue(s.sheet, cell, value)
}

func (s *localSheet) appendRow(ctx context.Context, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return s.file.SetSheetRow(s.sheet, cell, &values)
}

func (s *localSheet) clearRow(ctx context.Context, row, maxCol int) error {
	for col := 1; col <= maxCol; col++ {
		if err := s.setCell(ctx, row, col, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *localSheet) formatCells(ctx context.Context, row int, cols []int, f Formatter) error {
	lf, ok := f.(*LocalFormatter)
	if !ok {
		return fmt.Errorf("%T: %w", f, ErrFormatterMismatch)
	}
	styleID, err := s.file.NewStyle(lf.style())
	if err != nil {
		return fmt.Errorf("build style: %w", err)
	}
	for _, col := range cols {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := s.file.SetCellStyle(s.sheet, cell, cell, styleID); err != nil {
			return err
		}
	}
	return nil
}
