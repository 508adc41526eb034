package internal

import (
	"io"

	"github.com/starford/archivist/internal/entitystore"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	source entitystore.Source
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSource overrides the archive source built from the configuration.
func WithSource(src entitystore.Source) Option {
	return func(a *application) {
		a.source = src
	}
}

// WithLogOutput redirects the JSON log stream (stdout by default).
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
