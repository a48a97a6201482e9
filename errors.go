package wikiextract

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordTooLarge is returned when a title, infobox or category
	// exceeds the configured field bound.  The record is dropped.
	ErrRecordTooLarge = errors.New("record too large")

	// ErrMalformedMarkup is returned for unterminated templates or links.
	ErrMalformedMarkup = errors.New("malformed markup")

	// ErrUnresolvable marks a claim or property whose entity id is not
	// in the name index.
	ErrUnresolvable = errors.New("unresolvable reference")

	// ErrDuplicateKey is returned by sinks and the extractors when a key
	// was already emitted during this run.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStop is not a failure: the record cap was reached and the
	// caller should stop feeding input.
	ErrStop = errors.New("record cap reached")

	// ErrNoCoordFound is returned when no geo template yields both a
	// latitude and a longitude.
	ErrNoCoordFound = errors.New("no coord data found")
)

// A FieldError reports a field exceeding the length bound.
type FieldError struct {
	Field string
	Len   int
	Max   int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is %d chars, max %d", e.Field, e.Len, e.Max)
}

func (e *FieldError) Unwrap() error { return ErrRecordTooLarge }

// A SyntaxError reports an unterminated construct and where it started.
type SyntaxError struct {
	Offset    int
	Construct string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unterminated %s at offset %d", e.Construct, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformedMarkup }

// skippable reports whether err only invalidates the current record.
func skippable(err error) bool {
	return errors.Is(err, ErrRecordTooLarge) ||
		errors.Is(err, ErrMalformedMarkup) ||
		errors.Is(err, ErrDuplicateKey)
}
