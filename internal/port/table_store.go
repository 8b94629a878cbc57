package port

import "context"

// TableStore is a spreadsheet-like store of named tables addressed by row position.
// Row numbers are 1-based and row 1 is the header. There are no transactions.
type TableStore interface {
	// ReadAll returns every row of table in store order, header included.
	// Cells are returned as displayed.
	ReadAll(ctx context.Context, table string) ([][]string, error)

	// WriteRows overwrites rows starting at startRow, one cell per value.
	WriteRows(ctx context.Context, table string, startRow int, rows [][]any) error

	// AppendRow adds row after the last row of table.
	AppendRow(ctx context.Context, table string, row []any) error
}
