// Package domain defines domain-level errors for the instruments feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for market-data synchronization.
var (
	// ErrUnknownSource is returned when a sync is requested for a source outside the registry.
	ErrUnknownSource = errors.New("unknown sync source")

	// ErrInstrumentNotFound indicates no instrument exists for the (symbol, market) key.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrTaskFinalized is returned when a sync task that already reached SUCCESS or FAILED is transitioned again.
	ErrTaskFinalized = errors.New("sync task already finalized")

	// ErrVendorFormat is the sentinel wrapped by every VendorFormatError.
	ErrVendorFormat = errors.New("unexpected vendor response format")
)

// VendorFormatError reports a response whose shape does not match what the extractor expects.
// It aborts the source run.
type VendorFormatError struct {
	Source string
	Err    error
}

func (e *VendorFormatError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Source, ErrVendorFormat, e.Err)
}

func (e *VendorFormatError) Unwrap() []error { return []error{ErrVendorFormat, e.Err} }

// NewVendorFormatError wraps err for source.
func NewVendorFormatError(source string, err error) *VendorFormatError {
	return &VendorFormatError{Source: source, Err: err}
}

// ValidationError reports a single record rejected before persistence.
type ValidationError struct {
	Symbol   string
	Market   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %s/%s: %s", e.Symbol, e.Market, strings.Join(e.Problems, "; "))
}

// PersistenceError reports a single record that could not be written.
type PersistenceError struct {
	Symbol string
	Market string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s/%s: %v", e.Symbol, e.Market, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
