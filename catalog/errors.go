package catalog

import "errors"

var (
	// ErrInvalidDefinition indicates a catalog definition failed validation.
	ErrInvalidDefinition = errors.New("invalid catalog definition")

	// ErrLoadFailed indicates the catalog source could not be read or parsed.
	ErrLoadFailed = errors.New("catalog load failed")
)
