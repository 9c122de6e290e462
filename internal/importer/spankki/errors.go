package spankki

import "fmt"

// ParseError reports a cell that does not match the export format.
type ParseError struct {
	Line   int // 1-based line in the input
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
