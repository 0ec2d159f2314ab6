package summary

import "errors"

var (
	// ErrInvalidGroupBy indicates an unknown grouping.
	ErrInvalidGroupBy = errors.New("invalid group-by: must be day, week or week-of-month")

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")
)
