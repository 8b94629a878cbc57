package storage

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/rl1809/stockledger/internal/core/record"
)

// Scopes granted to the service-account credentials.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveFileScope,
	drive.DriveScope,
}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// SheetsAdapter maps tables onto the worksheets of one Google spreadsheet.
type SheetsAdapter struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetsAdapter(svc *sheets.Service, spreadsheetID string) *SheetsAdapter {
	return &SheetsAdapter{svc: svc, spreadsheetID: spreadsheetID}
}

// NewGoogleServices authorises Sheets and Drive clients from a service-account
// credentials file. Extra options are applied after the credentials.
func NewGoogleServices(ctx context.Context, credentialsFile string, extra ...option.ClientOption) (*sheets.Service, *drive.Service, error) {
	opts := append([]option.ClientOption{
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(Scopes...),
	}, extra...)

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("drive client: %w", err)
	}
	return sheetsSvc, driveSvc, nil
}

// ResolveSpreadsheetID finds a spreadsheet by its human-readable name. When
// several files share the name the first one Drive returns is used.
func ResolveSpreadsheetID(ctx context.Context, svc *drive.Service, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)

	list, err := svc.Files.List().
		Q(q).
		Fields(googleapi.Field("files(id, name)")).
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("search spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, name)
	}
	return list.Files[0].Id, nil
}

func (a *SheetsAdapter) ReadAll(ctx context.Context, table string) ([][]string, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, sheetRange(table)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = record.CellString(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func (a *SheetsAdapter) WriteRows(ctx context.Context, table string, startRow int, rows [][]any) error {
	if startRow < 1 {
		return fmt.Errorf("invalid start row %d", startRow)
	}

	vr := &sheets.ValueRange{Values: toValues(rows)}
	rng := fmt.Sprintf("%s!A%d", sheetRange(table), startRow)

	_, err := a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (a *SheetsAdapter) AppendRow(ctx context.Context, table string, row []any) error {
	vr := &sheets.ValueRange{Values: toValues([][]any{row})}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, sheetRange(table), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return nil
}

// sheetRange quotes a worksheet name for A1 notation.
func sheetRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}

func toValues(rows [][]any) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = append([]interface{}(nil), row...)
	}
	return values
}
