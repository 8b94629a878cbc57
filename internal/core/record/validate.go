package record

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	currencySymbols = strings.NewReplacer("£", "", "$", "")

	// Commas are accepted only as thousands separators: 1,200 or 3,150.00.
	groupedNumber = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// ungroup removes thousands separators, rejecting commas anywhere else.
func ungroup(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	if !groupedNumber.MatchString(s) {
		return "", false
	}
	return strings.ReplaceAll(s, ",", ""), true
}

// NormalizeCurrency turns a sheet cell into a decimal. Numbers pass through;
// strings may carry £ or $ symbols, thousands separators and padding.
func NormalizeCurrency(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case string:
		s, ok := ungroup(strings.TrimSpace(currencySymbols.Replace(strings.TrimSpace(v))))
		if !ok || s == "" {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, v)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrMalformedNumber, value)
	}
}

func fromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedNumber, f)
	}
	return decimal.NewFromFloat(f), nil
}

// ParseInt reads a whole number cell, tolerating padding and thousands separators.
func ParseInt(s string) (int, error) {
	digits, ok := ungroup(strings.TrimSpace(s))
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return n, nil
}

// ParseWholeNumber reads operator input as a plain integer. Separators are
// not accepted.
func ParseWholeNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return n, nil
}

func ValidateQuantity(quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrNonPositiveQuantity, quantity)
	}
	return quantity, nil
}

// ParseQuantity reads operator input as a sale quantity.
func ParseQuantity(s string) (int, error) {
	n, err := ParseWholeNumber(s)
	if err != nil {
		return 0, err
	}
	return ValidateQuantity(n)
}

// ValidateDate accepts only YYYY-MM-DD strings naming a real calendar day.
func ValidateDate(s string) (string, error) {
	if len(s) != len(DateLayout) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return s, nil
}
