package entitystore

import (
	"fmt"

	"github.com/starford/archivist/internal/apperr"
)

// Kind classifies a load failure.
type Kind int

const (
	// Unreachable means the document could not be read at all.
	Unreachable Kind = iota + 1
	// Malformed means the document was read but does not match the schema.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Unreachable:
		return "unreachable"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load. Both kinds are terminal for the process:
// there is no retry.
type LoadError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("entitystore: load %s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is.
func (e *LoadError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case Unreachable:
		sentinel = apperr.ErrUnreachable
	case Malformed:
		sentinel = apperr.ErrMalformed
	}
	if sentinel == nil {
		return []error{e.Err}
	}
	return []error{sentinel, e.Err}
}

func unreachable(src string, err error) *LoadError {
	return &LoadError{Kind: Unreachable, Source: src, Err: err}
}

func malformed(src string, err error) *LoadError {
	return &LoadError{Kind: Malformed, Source: src, Err: err}
}
