// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app wires configuration, the applet registry and the API server
// into a running process.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/api"
	"github.com/wingedpig/cpanel/internal/applet"
	"github.com/wingedpig/cpanel/internal/applist"
	"github.com/wingedpig/cpanel/internal/config"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/logging"
	"github.com/wingedpig/cpanel/internal/settings"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// App is the main application container.
type App struct {
	mu sync.Mutex

	config   *config.Config
	version  string
	log      hclog.Logger
	eventBus *events.MemoryEventBus
	store    settings.Store
	registry *applist.Registry
	server   *api.Server

	done     chan struct{}
	stopOnce sync.Once
}

// Options holds configuration options for the app.
type Options struct {
	ConfigPath   string // empty means built-in defaults
	Host         string // overrides server.host
	Port         int    // overrides server.port
	AppletsDir   string // overrides applets.dir
	Locale       string // overrides applets.locale
	DisableWatch bool
	Debug        bool
	Version      string
	LogOutput    io.Writer
}

// New loads and validates configuration and builds the logger. Components
// are created by Initialize.
func New(opts Options) (*App, error) {
	var cfg *config.Config
	if opts.ConfigPath == "" {
		cfg = config.Default()
	} else {
		loaded, err := config.NewLoader().LoadWithDefaults(context.Background(), opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.AppletsDir != "" {
		cfg.Applets.Dir = opts.AppletsDir
	}
	if opts.Locale != "" {
		cfg.Applets.Locale = opts.Locale
	}
	if opts.DisableWatch {
		cfg.Watch.Disabled = true
	}
	if opts.Debug {
		cfg.Logging.Level = "debug"
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &App{
		config:  cfg,
		version: opts.Version,
		log: logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: opts.LogOutput,
		}),
		done: make(chan struct{}),
	}, nil
}

// Initialize creates the event bus, settings store and registry.
func (app *App) Initialize(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.registry != nil {
		return nil
	}

	cfg := app.config
	app.eventBus = events.NewMemoryEventBus(app.log.Named("events"))

	if cfg.Settings.Path != "" {
		store, err := settings.Open(cfg.Settings.Backend, cfg.Settings.Path)
		if err != nil {
			app.log.Error("failed to open settings store, using fallback category only",
				"backend", cfg.Settings.Backend, "path", cfg.Settings.Path, "error", err)
		} else {
			app.store = store
		}
	} else {
		app.log.Info("no settings store configured, using fallback category only")
	}

	locale := applet.NormalizeLocale(cfg.Applets.Locale)
	if locale == "" && cfg.Applets.Locale == "" {
		locale = applet.DetectLocale()
	}
	app.log.Info("starting", "version", app.version, "dir", cfg.Applets.Dir, "locale", locale)

	app.registry = applist.New(applist.Options{
		Dir:          cfg.Applets.Dir,
		Locale:       locale,
		Store:        app.store,
		FallbackName: cfg.Categories.FallbackName,
		Debounce:     cfg.Watch.DebounceDuration(),
		DisableWatch: cfg.Watch.Disabled,
		Bus:          app.eventBus,
		Logger:       app.log,
	})
	return nil
}

// Config returns the effective configuration.
func (app *App) Config() *config.Config {
	return app.config
}

// Logger returns the root logger.
func (app *App) Logger() hclog.Logger {
	return app.log
}

// Registry returns the applet registry, or nil before Initialize.
func (app *App) Registry() *applist.Registry {
	return app.registry
}

// EventBus returns the event bus, or nil before Initialize.
func (app *App) EventBus() events.EventBus {
	if app.eventBus == nil {
		return nil
	}
	return app.eventBus
}

// Run initializes the app, serves the API and blocks until a signal, ctx
// cancellation, Stop, or a server failure.
func (app *App) Run(ctx context.Context) error {
	if err := app.Initialize(ctx); err != nil {
		return err
	}

	app.server = api.NewServer(api.ServerConfig{
		Host:    app.config.Server.Host,
		Port:    app.config.Server.Port,
		TLSCert: app.config.Server.TLSCert,
		TLSKey:  app.config.Server.TLSKey,
	}, api.Dependencies{
		Registry: app.registry,
		EventBus: app.eventBus,
		Logger:   app.log,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil {
			return fmt.Errorf("API server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			app.log.Info("received signal, shutting down", "signal", sig.String())
		case <-gctx.Done():
			app.log.Info("context cancelled, shutting down")
		case <-app.done:
			app.log.Info("shutdown requested")
		}
		return app.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown stops the server, the watcher, the event bus and the store.
func (app *App) Shutdown(ctx context.Context) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if app.server != nil {
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.log.Error("error shutting down API server", "error", err)
		}
	}

	if app.registry != nil {
		if err := app.registry.Close(); err != nil {
			app.log.Warn("error closing registry", "error", err)
		}
	}

	if app.eventBus != nil {
		app.eventBus.Close()
	}

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.log.Warn("error closing settings store", "error", err)
		}
		app.store = nil
	}

	app.log.Info("shutdown complete")
	return nil
}

// Stop requests shutdown of a running app.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
}
