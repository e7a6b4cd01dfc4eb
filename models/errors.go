// models/errors.go
package models

import "fmt"

// FetchError means an outbound request failed (network error or non-2xx
// status). Date-scoped: callers skip the date and continue.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the failure happened before a response arrived
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the expected table structure was absent from a page.
// This usually signals an upstream layout change, so it invalidates the
// whole fetch and must be surfaced, not silently skipped.
type ParseError struct {
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: table %q not found: %v", e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NormalizationError means one row's fields could not be coerced.
// Row-scoped: the row is dropped and counted, the batch continues.
type NormalizationError struct {
	Field string
	Value string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize: field %q value %q: %v", e.Field, e.Value, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// SchemaError means the reference CSV is missing a recognized header
// variant for a required field. Run-terminating for the load, since
// retrying the same input cannot fix it.
type SchemaError struct {
	Field  string
	Header []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: no recognized column for %q in header %v", e.Field, e.Header)
}
