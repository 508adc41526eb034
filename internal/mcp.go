package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/mcpserver"
	"github.com/starford/archivist/internal/notestore"
)

// RunMCP serves the MCP tools on stdin/stdout. Unlike Run, a failed archive
// load is fatal: there is no page to report it on.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// stdout carries the protocol; logs go to stderr.
	logOut := app.logOut
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	src := app.source
	if src == nil {
		src = entitystore.NewSource(cfg.Archive.Source)
	}
	store, err := entitystore.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load archive: %w", err)
	}

	notes, err := notestore.Open(cfg.Notes.Backend, cfg.Notes.Path)
	if err != nil {
		return fmt.Errorf("init notes: %w", err)
	}
	defer notes.Close()

	logger.Info("MCP server starting", slog.String("archive_source", src.Name()), slog.Int("entities", store.Len()))
	return mcpserver.New(store, notes).ServeStdio()
}
