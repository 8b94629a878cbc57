package record

import "errors"

var (
	ErrMalformedNumber     = errors.New("malformed number")
	ErrInvalidDateFormat   = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
)
