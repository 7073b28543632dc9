package cellbase

import (
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"
)

// Formatter carries the cell formats a Format call applies. Each backend
// has its own concrete type; applying one to the other backend fails with
// ErrFormatterMismatch.
type Formatter interface {
	// Empty reports whether the formatter carries no formats at all.
	Empty() bool
}

// LocalFormatter styles cells of a local workbook. Nil fields are left
// untouched.
type LocalFormatter struct {
	Font       *excelize.Font
	Fill       *excelize.Fill
	Border     []excelize.Border
	Alignment  *excelize.Alignment
	Protection *excelize.Protection
	NumFmt     int
}

func (f *LocalFormatter) Empty() bool {
	return f.Font == nil && f.Fill == nil && len(f.Border) == 0 &&
		f.Alignment == nil && f.Protection == nil && f.NumFmt == 0
}

// style converts the formatter into an excelize style definition.
func (f *LocalFormatter) style() *excelize.Style {
	s := &excelize.Style{
		Font:       f.Font,
		Border:     f.Border,
		Alignment:  f.Alignment,
		Protection: f.Protection,
		NumFmt:     f.NumFmt,
	}
	if f.Fill != nil {
		s.Fill = *f.Fill
	}
	return s
}

// GoogleFormatter styles cells of a Google spreadsheet.
type GoogleFormatter struct {
	Format *sheets.CellFormat
}

func (f *GoogleFormatter) Empty() bool {
	return f.Format == nil
}
