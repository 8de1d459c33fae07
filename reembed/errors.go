package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoRegions is returned when Run is called without any regions.
	ErrNoRegions = errors.New("no regions to reembed")
)
