package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rl1809/stockledger/internal/core/record"
)

const sheetRowsSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet      VARCHAR(100) NOT NULL,
	row_num    INT          NOT NULL,
	cells      JSON         NOT NULL,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (sheet, row_num)
)`

// MySQLAdapter stores each sheet as rows of JSON-encoded cells, keyed by
// sheet name and 1-based row number.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, sheetRowsSchema); err != nil {
		return fmt.Errorf("create sheet_rows: %w", err)
	}
	return nil
}

// ReadAll returns the sheet's rows in row order. Gaps in row numbers come
// back as empty rows so positions stay meaningful.
func (m *MySQLAdapter) ReadAll(ctx context.Context, table string) ([][]string, error) {
	rs, err := m.db.QueryContext(ctx, `
		SELECT row_num, cells FROM sheet_rows
		WHERE sheet = ? ORDER BY row_num`, table)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rs.Close()

	var rows [][]string
	for rs.Next() {
		var (
			rowNum int
			raw    []byte
		)
		if err := rs.Scan(&rowNum, &raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		var cells []any
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", rowNum, err)
		}

		for len(rows) < rowNum-1 {
			rows = append(rows, []string{})
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = record.CellString(c)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return rows, nil
}

func (m *MySQLAdapter) WriteRows(ctx context.Context, table string, startRow int, rows [][]any) error {
	if startRow < 1 {
		return fmt.Errorf("invalid start row %d", startRow)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, cells := range rows {
		payload, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", startRow+i, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheet_rows (sheet, row_num, cells) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE cells = VALUES(cells)`,
			table, startRow+i, payload,
		)
		if err != nil {
			return fmt.Errorf("write row %d: %w", startRow+i, err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) AppendRow(ctx context.Context, table string, row []any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_num), 0) FROM sheet_rows
		WHERE sheet = ? FOR UPDATE`, table,
	).Scan(&last)
	if err != nil {
		return fmt.Errorf("find last row: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet, row_num, cells) VALUES (?, ?, ?)`,
		table, last+1, payload,
	)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	return tx.Commit()
}

// Truncate removes every row of table.
func (m *MySQLAdapter) Truncate(ctx context.Context, table string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, table); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}
