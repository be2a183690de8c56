package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/LesleyGao/internship-tracker/internal/domain"
)

// Sheets persists the snapshot in a Google Sheets worksheet via a service
// account. Row 1 is the header; data starts at row 2.
type Sheets struct {
	svc       *sheets.Service
	sheetID   string
	worksheet string
	gridID    int64
	width     int
}

func NewSheets(ctx context.Context, credsJSON []byte, sheetID, worksheet string, schema domain.Schema) (*Sheets, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	// Row deletion needs the worksheet's numeric grid id, which only the
	// spreadsheet metadata knows.
	meta, err := svc.Spreadsheets.Get(sheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets open %s: %w", sheetID, err)
	}
	var gridID int64 = -1
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == worksheet {
			gridID = sh.Properties.SheetId
			break
		}
	}
	if gridID < 0 {
		return nil, fmt.Errorf("worksheet %q not found in spreadsheet %s", worksheet, sheetID)
	}

	return &Sheets{
		svc:       svc,
		sheetID:   sheetID,
		worksheet: worksheet,
		gridID:    gridID,
		width:     schema.Columns(),
	}, nil
}

func (s *Sheets) ReadAllRows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheet read: %w", err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, rv := range resp.Values[1:] {
		row := make([]string, 0, len(rv))
		for _, cv := range rv {
			row = append(row, fmt.Sprint(cv))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Sheets) EnsureHeader(ctx context.Context, header []string) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, s.worksheet+"!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet header read: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(header)}}
	_, err = s.svc.Spreadsheets.Values.Update(s.sheetID, s.worksheet+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet header write: %w", err)
	}
	return nil
}

func (s *Sheets) ClearRows(ctx context.Context, from, count int) error {
	if count <= 0 {
		return nil
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.gridID,
					Dimension:  "ROWS",
					StartIndex: int64(from - 1), // grid indexes are 0-based
					EndIndex:   int64(from - 1 + count),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.sheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheet clear rows %d+%d: %w", from, count, err)
	}
	return nil
}

func (s *Sheets) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	var vr sheets.ValueRange
	for _, r := range rows {
		if len(r) != s.width {
			return fmt.Errorf("row has %d cells, store expects %d", len(r), s.width)
		}
		vr.Values = append(vr.Values, toInterfaces(r))
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.sheetID, s.worksheet, &vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheet append %d rows: %w", len(rows), err)
	}
	return nil
}

func (s *Sheets) Close() error { return nil }

func toInterfaces(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
