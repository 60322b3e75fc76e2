package engine

import "errors"

// Common errors returned by the engine package.
var (
	// ErrUnsupportedFormat is returned when a file extension is not one of
	// .parquet, .csv or .json.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrIngest is returned when a file cannot be parsed after all encoding
	// fallbacks have been exhausted.
	ErrIngest = errors.New("file ingestion failed")

	// ErrInvalidPageSize is returned when a reader is opened with a page size
	// below 1.
	ErrInvalidPageSize = errors.New("page size must be at least 1")
)
