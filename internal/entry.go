// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/archivist/internal/api"
	"github.com/starford/archivist/internal/archivewatch"
	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/sse"
	"github.com/starford/archivist/internal/web"
	"github.com/starford/archivist/internal/websession"
)

const sweepInterval = time.Minute

// runtime is everything Run serves, built once at startup.
type runtime struct {
	handler  http.Handler
	store    *entitystore.Store
	loadErr  error
	notes    *notestore.Adapter
	broker   *sse.Broker
	sessions *navigation.Sessions
	// watchPath is the archive file to watch, or "" when watching is off.
	watchPath string
}

func (rt *runtime) Close() {
	rt.broker.Close()
	if err := rt.notes.Close(); err != nil {
		slog.Warn("close note store", slog.String("error", err.Error()))
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logOut := app.logOut
	if logOut == nil {
		logOut = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("archive_source", cfg.Archive.Source),
		slog.String("notes_backend", cfg.Notes.Backend),
		slog.String("notes_path", cfg.Notes.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := newRuntime(ctx, cfg, app.source, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           rt.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if rt.watchPath != "" {
		g.Go(func() error {
			if err := archivewatch.Watch(gCtx, rt.watchPath, logger, rt.broker.PublishArchiveChanged); err != nil {
				logger.Warn("archive watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if rt.sessions != nil {
		g.Go(func() error {
			rt.sessions.Run(gCtx, sweepInterval)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stop the watcher and the session sweeper too.
		cancel()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newRuntime loads the archive once and builds the HTTP surface. A failed
// load is not fatal: the server still starts and reports the failure on
// every page, API route and the readiness probe.
func newRuntime(ctx context.Context, cfg *Config, src entitystore.Source, logger *slog.Logger) (*runtime, error) {
	if src == nil {
		src = entitystore.NewSource(cfg.Archive.Source)
	}

	rt := &runtime{}
	store, err := entitystore.Load(ctx, src)
	if err != nil {
		logger.Error("archive load failed", slog.String("source", src.Name()), slog.String("error", err.Error()))
		rt.loadErr = err
	} else {
		rt.store = store
		logger.Info("archive loaded", slog.String("source", src.Name()), slog.Int("entities", store.Len()))
	}

	notes, err := notestore.Open(cfg.Notes.Backend, cfg.Notes.Path)
	if err != nil {
		return nil, fmt.Errorf("init notes: %w", err)
	}
	rt.notes = notes
	rt.broker = sse.NewBroker(2 * time.Second)

	if file, ok := src.(*entitystore.FileSource); ok && cfg.Archive.Watch {
		rt.watchPath = file.Path
	}

	if rt.store != nil {
		quotes := cfg.Welcome.Views()
		rt.sessions = navigation.NewSessions(func(ctx context.Context, id string) *navigation.Controller {
			return navigation.New(ctx, rt.store, rt.notes,
				navigation.WithLogger(logger.With(slog.String("session", id))),
				navigation.WithQuotes(quotes),
				navigation.WithEvents(func(kind string, data map[string]string) {
					rt.broker.PublishSessionEvent(id, kind, data)
				}),
			)
		}, cfg.App.SessionTTL)
	}

	events := rt.broker.Handler(websession.ID)

	apiRouter := api.NewRouter(api.Deps{
		Store:    rt.store,
		LoadErr:  rt.loadErr,
		Notes:    rt.notes,
		Sessions: rt.sessions,
		Events:   events,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	pages, err := web.NewServer(web.Config{
		Title:    cfg.Archive.Title,
		Sessions: rt.sessions,
		LoadErr:  rt.loadErr,
		Events:   events,
		Logger:   logger,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, `{"status":"ok"}`)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if rt.store == nil {
			writeHealth(w, http.StatusServiceUnavailable, `{"status":"archive unavailable"}`)
			return
		}
		writeHealth(w, http.StatusOK, `{"status":"ok"}`)
	})

	r.Mount("/api", apiRouter)
	r.Mount("/", pages.Handler())

	rt.handler = r
	return rt, nil
}

func writeHealth(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
