package table

import "errors"

var (
	// ErrUnsupportedFormat indicates a file extension the loader cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported table format")

	// ErrEmptyTable indicates a file with no data rows.
	ErrEmptyTable = errors.New("table has no data rows")

	// ErrTooManyRows indicates a file exceeding the row limit.
	ErrTooManyRows = errors.New("table exceeds maximum row count")

	// ErrMalformedInput indicates a file that could not be parsed.
	ErrMalformedInput = errors.New("malformed table input")
)
