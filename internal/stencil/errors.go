package stencil

import (
	"errors"
	"fmt"
)

// Domain errors for grid and engine operations.
var (
	// ErrConfig indicates invalid construction parameters: a failed stability
	// bound, non-positive dimensions or mismatched paired grids.
	ErrConfig = errors.New("stencil: invalid configuration")

	// ErrDomain indicates a write value outside the grid's permitted value set.
	ErrDomain = errors.New("stencil: value outside permitted set")

	// ErrRange indicates direct indexed access outside the grid bounds.
	ErrRange = errors.New("stencil: coordinate out of range")

	// ErrMissingRule indicates an engine constructed without an update rule.
	ErrMissingRule = errors.New("stencil: no update rule")
)

// CellError wraps an error with the cell it concerns.
type CellError struct {
	Row     int
	Col     int
	Value   float64
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell (%d,%d) value %g: %v", e.Row, e.Col, e.Value, e.Wrapped)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
