package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/view"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Archive ArchiveConfig     `yaml:"archive"`
	Notes   NotesConfig       `yaml:"notes"`
	Auth    AuthConfig        `yaml:"auth"`
	Welcome WelcomeConfig     `yaml:"welcome"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Archive.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Welcome.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel   slog.Level    `yaml:"log_level"`
	HTTP       HTTPConfig    `yaml:"http"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.SessionTTL, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ArchiveConfig points at the archive document.
//
// Source is a file path (.json, .yaml, .yml) or an http(s) URL. Watch only
// applies to file sources.
type ArchiveConfig struct {
	Source string `yaml:"source"`
	Title  string `yaml:"title"`
	Watch  bool   `yaml:"watch"`
}

// Validate validates the archive configuration.
func (c *ArchiveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required),
		validation.Field(&c.Title, validation.Required),
	)
}

// IsRemote reports whether the source is fetched over HTTP.
func (c *ArchiveConfig) IsRemote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// NotesConfig selects the note storage backend.
type NotesConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(notestore.BackendSQLite, notestore.BackendDiskv)),
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration for the JSON API.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// WelcomeConfig holds the quotes cycled on the home section.
type WelcomeConfig struct {
	Quotes []QuoteConfig `yaml:"quotes"`
}

// Validate validates every quote.
func (c *WelcomeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Quotes),
	)
}

// Views converts the configured quotes for the home view.
func (c *WelcomeConfig) Views() []view.Quote {
	out := make([]view.Quote, 0, len(c.Quotes))
	for _, q := range c.Quotes {
		out = append(out, view.Quote{Text: q.Text, Display: q.Display})
	}
	return out
}

// QuoteConfig is one welcome quote and how long it stays on screen.
type QuoteConfig struct {
	Text    string        `yaml:"text"`
	Display time.Duration `yaml:"display"`
}

// Validate validates the quote.
func (q QuoteConfig) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Text, validation.Required),
		validation.Field(&q.Display, validation.Required, validation.Min(time.Millisecond)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			SessionTTL: 12 * time.Hour,
		},
		Archive: ArchiveConfig{
			Source: "./data.json",
			Title:  "Black-Unity-Archive",
			Watch:  true,
		},
		Notes: NotesConfig{
			Backend: notestore.BackendSQLite,
			Path:    "./archivist.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Welcome: WelcomeConfig{
			Quotes: []QuoteConfig{
				{Text: "Welcome to the archive.", Display: 8 * time.Second},
				{Text: "Every name here is a thread worth pulling.", Display: 5 * time.Second},
				{Text: "Leave a note; it will be here when you return.", Display: 5 * time.Second},
			},
		},
	}
}
