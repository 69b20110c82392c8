package runtimes

import "errors"

var (
	// ErrMissingColumn is returned when a column is absent from a table or source.
	ErrMissingColumn = errors.New("runtimes: missing column")
	// ErrNotNumeric is returned when a text column is read as numbers.
	ErrNotNumeric = errors.New("runtimes: column is not numeric")
	// ErrDuplicateKey is returned when two rows share an instance key.
	ErrDuplicateKey = errors.New("runtimes: duplicate instance key")
	// ErrLength is returned when a column does not match the table's row count.
	ErrLength = errors.New("runtimes: column length does not match row count")
	// ErrBadQuery is returned for filter expressions that cannot be parsed.
	ErrBadQuery = errors.New("runtimes: malformed query")
)
