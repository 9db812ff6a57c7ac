package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ingestion and analytics pipeline.
var (
	// ErrNoHoldingsFound is returned when the statement parser chain
	// is exhausted with zero extracted rows.
	ErrNoHoldingsFound = errors.New("no holdings found in statement")

	// ErrNoPortfolio is returned when an operation requires a current
	// portfolio and none has been uploaded.
	ErrNoPortfolio = errors.New("no portfolio uploaded")

	// ErrInsufficientHistory is returned when the aligned return
	// series is empty or has too few points for a statistically
	// meaningful metric.
	ErrInsufficientHistory = errors.New("insufficient price history for risk metrics")
)

// MissingFieldError indicates tabular input lacks a required column.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Field)
}

// ParseError is the umbrella for lower-level parse failures (malformed
// numbers, unreadable documents). It carries the original cause.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse portfolio: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError wraps a cause as a ParseError.
func NewParseError(cause error) *ParseError {
	return &ParseError{Cause: cause}
}
