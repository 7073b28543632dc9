package cellbase

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

type MockSheetsClient struct {
	TitlesFunc      func(ctx context.Context) ([]string, error)
	ReadFunc        func(ctx context.Context, range_ string) ([][]interface{}, error)
	WriteFunc       func(ctx context.Context, range_ string, values [][]interface{}) error
	ClearFunc       func(ctx context.Context, range_ string) error
	AddSheetFunc    func(ctx context.Context, title string) error
	DeleteSheetFunc func(ctx context.Context, title string) error
	FormatCellsFunc func(ctx context.Context, title string, row int, cols []int, format *sheets.CellFormat) error

	ReadCalls        []MockCall
	WriteCalls       []MockCall
	ClearCalls       []MockCall
	AddSheetCalls    []string
	DeleteSheetCalls []string
	FormatCellsCalls []FormatCellsCall
}

type MockCall struct {
	Range_ string
	Values [][]interface{}
}

type FormatCellsCall struct {
	Title  string
	Row    int
	Cols   []int
	Format *sheets.CellFormat
}

func (m *MockSheetsClient) Titles(ctx context.Context) ([]string, error) {
	if m.TitlesFunc != nil {
		return m.TitlesFunc(ctx)
	}
	return nil, nil
}

func (m *MockSheetsClient) Read(ctx context.Context, range_ string) ([][]interface{}, error) {
	m.ReadCalls = append(m.ReadCalls, MockCall{Range_: range_})
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, range_)
	}
	return nil, fmt.Errorf("Read not implemented")
}

func (m *MockSheetsClient) Write(ctx context.Context, range_ string, values [][]interface{}) error {
	m.WriteCalls = append(m.WriteCalls, MockCall{Range_: range_, Values: values})
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, range_, values)
	}
	return nil
}

func (m *MockSheetsClient) Clear(ctx context.Context, range_ string) error {
	m.ClearCalls = append(m.ClearCalls, MockCall{Range_: range_})
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, range_)
	}
	return nil
}

func (m *MockSheetsClient) AddSheet(ctx context.Context, title string) error {
	m.AddSheetCalls = append(m.AddSheetCalls, title)
	if m.AddSheetFunc != nil {
		return m.AddSheetFunc(ctx, title)
	}
	return nil
}

func (m *MockSheetsClient) DeleteSheet(ctx context.Context, title string) error {
	m.DeleteSheetCalls = append(m.DeleteSheetCalls, title)
	if m.DeleteSheetFunc != nil {
		return m.DeleteSheetFunc(ctx, title)
	}
	return nil
}

func (m *MockSheetsClient) FormatCells(ctx context.Context, title string, row int, cols []int, format *sheets.CellFormat) error {
	m.FormatCellsCalls = append(m.FormatCellsCalls, FormatCellsCall{Title: title, Row: row, Cols: cols, Format: format})
	if m.FormatCellsFunc != nil {
		return m.FormatCellsFunc(ctx, title, row, cols, format)
	}
	return nil
}
