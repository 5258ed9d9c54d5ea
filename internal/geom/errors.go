package geom

import (
	"errors"
	"fmt"
)

// ErrMalformedShorthand is returned (wrapped in a *ParseError) when a border,
// inset, color or length shorthand does not match its grammar.
var ErrMalformedShorthand = errors.New("malformed shorthand")

// ErrorKind classifies parse failures
type ErrorKind int

const (
	// KindMalformedShorthand marks input that does not match the expected grammar
	KindMalformedShorthand ErrorKind = iota + 1
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindMalformedShorthand:
		return "MalformedShorthand"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError describes a shorthand string that could not be parsed
type ParseError struct {
	Kind   ErrorKind
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedShorthand)
func (e *ParseError) Unwrap() error {
	return ErrMalformedShorthand
}

func malformed(input, format string, args ...any) error {
	return &ParseError{
		Kind:   KindMalformedShorthand,
		Input:  input,
		Reason: fmt.Sprintf(format, args...),
	}
}
