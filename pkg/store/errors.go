package store

import (
	"errors"
	"fmt"
)

// Common errors describing why a record was skipped.
var (
	// ErrFieldCount is returned when a record has the wrong number of fields.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrEmptyName is returned when a record's name field is empty.
	ErrEmptyName = errors.New("empty task name")

	// ErrInvalidNumber is returned when a numeric field cannot be parsed.
	ErrInvalidNumber = errors.New("invalid integer")

	// ErrNegativeValue is returned when a duration or timestamp is negative.
	ErrNegativeValue = errors.New("value must be non-negative")

	// ErrEndBeforeStart is returned when a session ends before it starts.
	ErrEndBeforeStart = errors.New("session ends before it starts")

	// ErrMalformedRecord is returned when a line is not valid delimited text.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file size exceeds maximum limit")
)

// RecordError describes a record skipped while reading a file.
type RecordError struct {
	Line int   // 1-indexed line the record starts on
	Err  error // Underlying error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("record: %v", e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
