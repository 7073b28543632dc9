package cellbase

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsClient struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetIDs      map[string]int64
}

func newSheetsClient(ctx context.Context, credentials []byte, spreadsheetID string) (*sheetsClient, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &sheetsClient{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetIDs:      map[string]int64{},
	}, nil
}

func (c *sheetsClient) Titles(ctx context.Context) ([]string, error) {
	resp, err := c.srv.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var titles []string
	for _, sheet := range resp.Sheets {
		if sheet.Properties == nil {
			continue
		}
		titles = append(titles, sheet.Properties.Title)
		c.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return titles, nil
}

func (c *sheetsClient) Read(ctx context.Context, range_ string) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", range_, err)
	}
	return resp.Values, nil
}

func (c *sheetsClient) Write(ctx context.Context, range_ string, values [][]interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	if err != nil {
		return fmt.Errorf("failed to write to range %s: %w", range_, err)
	}
	return nil
}

func (c *sheetsClient) Clear(ctx context.Context, range_ string) error {
	_, err := c.srv.Spreadsheets.Values.Clear(c.spreadsheetID, range_, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()

	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", range_, err)
	}
	return nil
}

func (c *sheetsClient) AddSheet(ctx context.Context, title string) error {
	resp, err := c.batchUpdate(ctx, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: title},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", title, err)
	}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		c.sheetIDs[title] = resp.Replies[0].AddSheet.Properties.SheetId
	}
	return nil
}

func (c *sheetsClient) DeleteSheet(ctx context.Context, title string) error {
	sheetID, err := c.sheetID(ctx, title)
	if err != nil {
		return err
	}
	_, err = c.batchUpdate(ctx, &sheets.Request{
		DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
	})
	if err != nil {
		return fmt.Errorf("failed to delete sheet %s: %w", title, err)
	}
	delete(c.sheetIDs, title)
	return nil
}

func (c *sheetsClient) FormatCells(ctx context.Context, title string, row int, cols []int, format *sheets.CellFormat) error {
	sheetID, err := c.sheetID(ctx, title)
	if err != nil {
		return err
	}

	var requests []*sheets.Request
	for _, col := range cols {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(row - 1),
					EndRowIndex:      int64(row),
					StartColumnIndex: int64(col - 1),
					EndColumnIndex:   int64(col),
				},
				Cell:   &sheets.CellData{UserEnteredFormat: format},
				Fields: "userEnteredFormat",
			},
		})
	}

	_, err = c.batchUpdate(ctx, requests...)
	if err != nil {
		return fmt.Errorf("failed to format cells of %s: %w", title, err)
	}
	return nil
}

func (c *sheetsClient) sheetID(ctx context.Context, title string) (int64, error) {
	if id, ok := c.sheetIDs[title]; ok {
		return id, nil
	}
	if _, err := c.Titles(ctx); err != nil {
		return 0, err
	}
	id, ok := c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("%s: %w", title, ErrWorksheetNotFound)
	}
	return id, nil
}

func (c *sheetsClient) batchUpdate(ctx context.Context, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	return c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
}
