package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// --- Shared Custom Types ---

// MaxAmount is the largest amount a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

const maxAmountLength = 24

var (
	ErrAmountNotNumber = errors.New("must be a number")
	ErrAmountPrecision = errors.New("must have at most 2 decimal places")
	ErrAmountTooLarge  = fmt.Errorf("must not exceed %s", MaxAmount.StringFixed(2))
)

// ParseAmount parses a plain decimal amount with at most 2 decimal places.
// Exponent notation is rejected so parsing cost stays bounded by the input length.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountLength || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrAmountNotNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountNotNumber
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero, ErrAmountTooLarge
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, ErrAmountPrecision
	}
	return d, nil
}

// RawAmount is a monetary amount exactly as the client sent it.
// It accepts JSON numbers, JSON strings and null; blank means "not provided".
type RawAmount string

// IsBlank reports whether no amount was provided.
func (a RawAmount) IsBlank() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Decimal parses the amount with ParseAmount. It fails for blank input.
func (a RawAmount) Decimal() (decimal.Decimal, error) {
	if a.IsBlank() {
		return decimal.Zero, errors.New("amount is empty")
	}
	return ParseAmount(string(a))
}

// UnmarshalJSON keeps the literal text of numbers so no float conversion happens.
func (a *RawAmount) UnmarshalJSON(data []byte) error {
	if a == nil {
		return errors.New("RawAmount: UnmarshalJSON on nil pointer")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	}
	*a = RawAmount(trimmed)
	return nil
}

// MarshalJSON returns the amount as a JSON string, or null when blank.
func (a RawAmount) MarshalJSON() ([]byte, error) {
	if a.IsBlank() {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}
