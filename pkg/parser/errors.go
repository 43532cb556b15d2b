package parser

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource            = errors.New("source is empty")
	ErrHeaderOnly             = errors.New("source has a header but no data lines")
	ErrNoMonthColumns         = errors.New("no month columns found in header")
	ErrMissingCategoryColumns = errors.New("major or mid category column not found in header")
)

// LoadError reports a source that cannot be turned into records.
type LoadError struct {
	Source string
	Period string
	Entity string
	Err    error
}

func (e *LoadError) Error() string {
	src := e.Source
	if src == "" {
		src = "<text>"
	}
	return fmt.Sprintf("failed to load %s (period=%s entity=%s): %v", src, e.Period, e.Entity, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
