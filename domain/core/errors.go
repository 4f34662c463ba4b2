package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized signal definitions. These mark recoverable
// per-column / per-state conditions; callers filter them out of aggregate
// reports instead of aborting the run.
var (
	// Input-shape signals
	ErrColumnNotFound = errors.New("column not found")
	ErrNoStateColumn  = errors.New("no state column found")
	ErrNoDateColumn   = errors.New("no date column found")

	// Insufficient-data signals
	ErrNoNumericData    = errors.New("no valid numeric data")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNoStateData      = errors.New("no data for state")

	// Degenerate-numeric signals
	ErrCannotCalculateSlope = errors.New("cannot calculate slope")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
}

func NewNoNumericDataError(column string) error {
	return fmt.Errorf("%w in %s", ErrNoNumericData, column)
}

func NewNoStateDataError(state string) error {
	return fmt.Errorf("%w: %s", ErrNoStateData, state)
}

// IsSignal reports whether err is a recoverable analytics signal rather
// than a hard failure.
func IsSignal(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrNoStateColumn) ||
		errors.Is(err, ErrNoDateColumn) ||
		errors.Is(err, ErrNoNumericData) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrNoStateData) ||
		errors.Is(err, ErrCannotCalculateSlope)
}
