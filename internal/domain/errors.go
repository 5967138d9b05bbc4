package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks caller mistakes (missing address fields, negative subtotal).
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedCountry means the country has no zone and needs manual zone selection.
	ErrUnsupportedCountry = errors.New("unsupported country")
	// ErrConfigurationIncomplete means a zone has no resolved cost at calculation time.
	ErrConfigurationIncomplete = errors.New("freight configuration incomplete")
	// ErrInvalidLocalRate is returned by the defaults engine for a non-positive or non-numeric rate.
	ErrInvalidLocalRate = errors.New("invalid local rate")

	ErrFreightConfigNotFound = errors.New("freight configuration not found")
	ErrVersionConflict       = errors.New("freight configuration was modified concurrently")
	ErrValidationFailed      = errors.New("freight configuration is invalid")
)

// InputError is a per-field input validation failure.
type InputError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInputError builds an InputError for field.
func NewInputError(field, message string) error {
	return &InputError{Field: field, Message: message}
}

// UnsupportedCountryError carries the country the resolver declined to classify.
type UnsupportedCountryError struct {
	Country string
}

func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("unsupported country %q: select a shipping zone manually", e.Country)
}

func (e *UnsupportedCountryError) Unwrap() error {
	return ErrUnsupportedCountry
}
