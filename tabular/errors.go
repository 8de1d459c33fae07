package tabular

import "errors"

var (
	// ErrMissingRequiredColumn indicates a normalized table lacks a column
	// its table type declares as required.
	ErrMissingRequiredColumn = errors.New("missing required column")
)
