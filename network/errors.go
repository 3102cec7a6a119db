package network

import (
	"errors"
	"fmt"
)

// ErrNoEntry is returned when a network does not declare a broadcaster.
var ErrNoEntry = errors.New("network has no broadcaster")

// ErrEmptyName is returned when a record has an empty module or output name.
var ErrEmptyName = errors.New("empty module name")

// DuplicateModuleError is returned when the same name is declared twice.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is declared more than once", e.Name)
}

// UnknownKindError is returned when a record carries a kind outside the closed
// set of module kinds.
type UnknownKindError struct {
	Name string
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("module %q has unknown kind %d", e.Name, int(e.Kind))
}

// ParseError reports a line of the text format that cannot be turned into a
// module record.
type ParseError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}

	return fmt.Sprintf("parse error at line %d (%q): %s",
		e.Line, e.Text, e.Reason)
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}
