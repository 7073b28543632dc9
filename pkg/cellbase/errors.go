package cellbase

import "errors"

// ErrWorkbookNotFound indicates no workbook file exists at the given path.
var ErrWorkbookNotFound = errors.New("workbook not found")

// ErrWorksheetNotFound indicates the named worksheet does not exist.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// ErrNoSchema indicates a worksheet would need to be created but no column
// set was registered for it.
var ErrNoSchema = errors.New("no schema registered for worksheet")

// ErrColumnNotFound indicates a column name outside the worksheet's header.
var ErrColumnNotFound = errors.New("column not found")

// ErrHeaderRow indicates an attempt to address row 1, which holds the
// column names.
var ErrHeaderRow = errors.New("row 1 is the header row")

// ErrFileExists indicates the save target exists and overwrite was not set.
var ErrFileExists = errors.New("file already exists")

// ErrFormatterMismatch indicates a formatter built for a different backend.
var ErrFormatterMismatch = errors.New("formatter does not match backend")

// ErrUnsupported indicates an operation the backend cannot perform.
var ErrUnsupported = errors.New("operation not supported by backend")
