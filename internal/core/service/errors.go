package service

import (
	"errors"
	"fmt"

	"github.com/rl1809/stockledger/internal/core/domain"
	"github.com/rl1809/stockledger/internal/core/record"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrInconsistentState = errors.New("sales ledger is ahead of the inventory sheet")
)

type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.SKU, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// RemoteError wraps any failure of the table store. It matches both
// ErrRemoteUnavailable and the underlying cause.
type RemoteError struct {
	Op    string
	Table string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteUnavailable, e.Err}
}

// InconsistentStateError is returned by Sell when the sale was appended to the
// ledger but the inventory write after it failed. The sale is not undone.
type InconsistentStateError struct {
	Sale domain.Sale
	Err  error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("sale of %d x %s on %s was recorded but inventory was not saved: %v",
		e.Sale.Quantity, e.Sale.SKU, e.Sale.Date, e.Err)
}

func (e *InconsistentStateError) Unwrap() []error {
	return []error{ErrInconsistentState, e.Err}
}

// IsClientError reports operator mistakes and domain rule violations.
func IsClientError(err error) bool {
	return errors.Is(err, record.ErrMalformedNumber) ||
		errors.Is(err, record.ErrInvalidDateFormat) ||
		errors.Is(err, record.ErrNonPositiveQuantity) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}

func IsRemoteError(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}
