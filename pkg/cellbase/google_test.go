package cellbase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"google.golang.org/api/sheets/v4"
)

func newGoogleTestWorkbook(t *testing.T, mock *MockSheetsClient) *Cellbase {
	t.Helper()
	cb, err := open(context.Background(), &googleBackend{client: mock})
	if err != nil {
		t.Fatalf("open() unexpected error = %v", err)
	}
	return cb
}

func usersMock() *MockSheetsClient {
	return &MockSheetsClient{
		TitlesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"Users"}, nil
		},
		ReadFunc: func(ctx context.Context, range_ string) ([][]interface{}, error) {
			return [][]interface{}{
				{"id", "name", "status"},
				{"1", "alice", "active"},
				{"2", "bob", "inactive"},
			}, nil
		},
	}
}

func TestGoogle_LoadAndQuery(t *testing.T) {
	ctx := context.Background()
	cb := newGoogleTestWorkbook(t, usersMock())

	if !cb.Has("Users") || cb.Len() != 1 {
		t.Fatalf("expected a single Users worksheet, Len() = %d", cb.Len())
	}

	records, err := cb.Query(ctx, "Users", Where{"status": "active"})
	if err != nil {
		t.Fatalf("Query() unexpected error = %v", err)
	}
	want := []Record{{ColRowIdx: 2, "id": "1", "name": "alice", "status": "active"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Query() = %v, want %v", records, want)
	}
}

func TestGoogle_Insert(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)

	rowIdx, err := cb.Insert(ctx, "Users", Record{"id": "3", "name": "carol"})
	if err != nil {
		t.Fatalf("Insert() unexpected error = %v", err)
	}
	if rowIdx != 4 {
		t.Errorf("Insert() = %d, want 4", rowIdx)
	}

	if len(mock.WriteCalls) != 1 {
		t.Fatalf("expected 1 write call, got %d", len(mock.WriteCalls))
	}
	call := mock.WriteCalls[0]
	if call.Range_ != "Users!A4:C4" {
		t.Errorf("write range = %q, want \"Users!A4:C4\"", call.Range_)
	}
	// Omitted columns are written as blanks.
	want := [][]interface{}{{"3", "carol", ""}}
	if !reflect.DeepEqual(call.Values, want) {
		t.Errorf("write values = %v, want %v", call.Values, want)
	}
}

func TestGoogle_Update(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)

	count, err := cb.Update(ctx, "Users", Record{"name": "updated"}, Where{"id": "1"})
	if err != nil {
		t.Fatalf("Update() unexpected error = %v", err)
	}
	if count != 1 {
		t.Errorf("Update() = %d rows, want 1", count)
	}
	if len(mock.WriteCalls) != 1 || mock.WriteCalls[0].Range_ != "Users!B2" {
		t.Errorf("write calls = %+v, want single write to Users!B2", mock.WriteCalls)
	}
}

func TestGoogle_Delete(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)

	count, err := cb.Delete(ctx, "Users", Where{"id": "2"})
	if err != nil {
		t.Fatalf("Delete() unexpected error = %v", err)
	}
	if count != 1 {
		t.Errorf("Delete() = %d rows, want 1", count)
	}
	if len(mock.ClearCalls) != 1 || mock.ClearCalls[0].Range_ != "Users!A3:C3" {
		t.Errorf("clear calls = %+v, want single clear of Users!A3:C3", mock.ClearCalls)
	}
}

func TestGoogle_CreateWorksheet(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)
	cb.Register(map[string][]string{"Audit": {"at", "action"}})

	if _, err := cb.Insert(ctx, "Audit", Record{"at": "today", "action": "create"}); err != nil {
		t.Fatalf("Insert() unexpected error = %v", err)
	}

	if !reflect.DeepEqual(mock.AddSheetCalls, []string{"Audit"}) {
		t.Errorf("add sheet calls = %v, want [Audit]", mock.AddSheetCalls)
	}
	if len(mock.WriteCalls) < 1 || mock.WriteCalls[0].Range_ != "Audit!A1" {
		t.Errorf("write calls = %+v, want header write to Audit!A1 first", mock.WriteCalls)
	}
}

func TestGoogle_Drop(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)

	if err := cb.Drop(ctx, "Users"); err != nil {
		t.Fatalf("Drop() unexpected error = %v", err)
	}
	if !reflect.DeepEqual(mock.DeleteSheetCalls, []string{"Users"}) {
		t.Errorf("delete sheet calls = %v, want [Users]", mock.DeleteSheetCalls)
	}
}

func TestGoogle_Format(t *testing.T) {
	ctx := context.Background()
	mock := usersMock()
	cb := newGoogleTestWorkbook(t, mock)

	format := &sheets.CellFormat{
		TextFormat: &sheets.TextFormat{Bold: true},
	}
	count, err := cb.Format(ctx, "Users", &GoogleFormatter{Format: format}, Where{"id": "1"}, "name")
	if err != nil {
		t.Fatalf("Format() unexpected error = %v", err)
	}
	if count != 1 {
		t.Errorf("Format() = %d rows, want 1", count)
	}

	if len(mock.FormatCellsCalls) != 1 {
		t.Fatalf("expected 1 format call, got %d", len(mock.FormatCellsCalls))
	}
	call := mock.FormatCellsCalls[0]
	if call.Title != "Users" || call.Row != 2 || !reflect.DeepEqual(call.Cols, []int{2}) {
		t.Errorf("format call = %+v, want Users row 2 col 2", call)
	}

	if _, err := cb.Format(ctx, "Users", &LocalFormatter{NumFmt: 1}, nil); !errors.Is(err, ErrFormatterMismatch) {
		t.Errorf("Format() error = %v, want ErrFormatterMismatch", err)
	}
}

func TestGoogle_Save(t *testing.T) {
	ctx := context.Background()
	cb := newGoogleTestWorkbook(t, usersMock())

	if err := cb.Save(ctx); err != nil {
		t.Errorf("Save() = %v, want nil (writes are live)", err)
	}
	if err := cb.SaveAs(ctx, t.TempDir(), "export.xlsx", true); !errors.Is(err, ErrUnsupported) {
		t.Errorf("SaveAs() error = %v, want ErrUnsupported", err)
	}
}

func TestNewGoogle_Validation(t *testing.T) {
	ctx := context.Background()

	if _, err := NewGoogle(ctx, GoogleConfig{Credentials: []byte("{}")}); err == nil {
		t.Error("NewGoogle() expected error for missing spreadsheet ID")
	}
	if _, err := NewGoogle(ctx, GoogleConfig{SpreadsheetID: "id"}); err == nil {
		t.Error("NewGoogle() expected error for missing credentials")
	}
}
