package storage

import "errors"

var (
	ErrTableNotFound       = errors.New("table not found")
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
)
