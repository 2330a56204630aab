package stats

import (
	"fmt"
	"strings"
)

// FieldError describes one logical field that could not be matched to a column.
type FieldError struct {
	Field    string   `json:"field"`
	Accepted []string `json:"accepted"`
}

// SchemaError is returned when one or more required fields cannot be resolved.
type SchemaError struct {
	Missing []FieldError `json:"missing"`
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%s (accepted: %s)", m.Field, strings.Join(m.Accepted, ", "))
	}
	return "schema: required field(s) not found: " + strings.Join(parts, "; ")
}

// EmptyDatasetError is returned when no usable rows remain after coercion, or the
// reporting week has no rows.
type EmptyDatasetError struct {
	Reason  string
	Dropped int
}

func (e *EmptyDatasetError) Error() string {
	if e.Dropped > 0 {
		return fmt.Sprintf("empty dataset: %s (%d row(s) dropped)", e.Reason, e.Dropped)
	}
	return "empty dataset: " + e.Reason
}

// AggregationError covers values that cannot be coerced and any other unexpected
// failure while grouping or summing.
type AggregationError struct {
	Row    int // 1-based spreadsheet row (header included), 0 when not tied to a row
	Column string
	Value  string
	Err    error
}

func (e *AggregationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("aggregation: spreadsheet row %d, column %q, value %q: %v", e.Row, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("aggregation: %v", e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}
