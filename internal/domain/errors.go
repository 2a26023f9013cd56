package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDataFile reports a table that is absent or unreadable.
	ErrMissingDataFile = errors.New("missing data file")

	// ErrMalformedRecord reports a row that fails its expected schema.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEmptyDataset reports a renderer handed zero records.
	ErrEmptyDataset = errors.New("empty dataset")
)

// RecordError locates a malformed row. It matches ErrMalformedRecord under errors.Is.
type RecordError struct {
	Dataset string
	Row     int // zero-based position in the table
	Field   string
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s row %d field %q: %v", ErrMalformedRecord, e.Dataset, e.Row, e.Field, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}
