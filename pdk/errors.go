package pdk

import (
	"errors"
	"fmt"
)

/*
 * Closed set of the search failure kinds.
 * Use "errors.Is(err, pdk.ErrIndexNotFound)" to check the cause
 */
var (
	ErrIndexNotFound     = errors.New("index pattern not found")
	ErrAmbiguousIndex    = errors.New("several index patterns match")
	ErrSearchFailed      = errors.New("search failed")
	ErrMalformedDocument = errors.New("malformed source document")
)

/*
 * Failure of a single search invocation
 */
type SearchError struct {
	// One of the error kinds above
	Kind error

	// Underlying cause, can be nil
	Err error
}

func (e *SearchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}

	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *SearchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func searchError(kind error, format string, args ...interface{}) *SearchError {
	return &SearchError{
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

/*
 * Return a short name of the error kind, useful for logs and metrics.
 * Unknown errors are reported as the "search_failed" kind
 */
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIndexNotFound):
		return "index_not_found"
	case errors.Is(err, ErrAmbiguousIndex):
		return "ambiguous_index"
	case errors.Is(err, ErrMalformedDocument):
		return "malformed_document"
	default:
		return "search_failed"
	}
}
