// Package apperr holds the sentinel errors shared across archivist packages.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnreachable     = errors.New("archive unreachable")
	ErrMalformed       = errors.New("archive malformed")
	ErrGraphNotReady   = errors.New("graph not ready")
	ErrEmptyCollection = errors.New("empty collection")
)
