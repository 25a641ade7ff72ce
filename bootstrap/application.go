// Package bootstrap assembles a running weft actor system from
// configuration: it builds the stock effect implementations, wires them
// into a core.System, and manages startup, config hot-reload, and
// graceful shutdown.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/weft-lang/weftrt/caps"
	"github.com/weft-lang/weftrt/config"
	"github.com/weft-lang/weftrt/core"
	"github.com/weft-lang/weftrt/crypt"
	"github.com/weft-lang/weftrt/effects"
)

// AppOptions configures application assembly.
type AppOptions struct {
	// Config supplies the configuration directly. Ignored when
	// ConfigFile is set.
	Config *config.Config

	// ConfigFile loads configuration from this file and hot-reloads the
	// restart policy when it changes.
	ConfigFile string

	// Logger overrides the logger built from the Log configuration.
	Logger *slog.Logger

	// Implementations overrides the stock effect wiring entirely.
	Implementations *caps.Implementations
}

// Application owns a configured actor system and the resources behind
// its stock effect implementations.
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	system  *core.System
	watcher *config.Watcher

	// closers are resources to release on shutdown, closed in reverse
	closers []io.Closer

	// mutex protects concurrent access
	mutex sync.Mutex

	// running indicates if the application is running
	running bool

	// shutdownChan for graceful shutdown
	shutdownChan chan os.Signal
}

// NewApplication builds an application from options.
func NewApplication(opts AppOptions) (*Application, error) {
	app := &Application{
		shutdownChan: make(chan os.Signal, 1),
	}

	switch {
	case opts.ConfigFile != "":
		watcher, err := config.NewWatcher(opts.ConfigFile, config.NewLoader(), opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to watch config: %w", err)
		}
		app.watcher = watcher
		app.config = watcher.GetConfig()
	case opts.Config != nil:
		if err := opts.Config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		app.config = opts.Config
	default:
		cfg, err := config.NewLoader().AutoLoad()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		app.config = cfg
	}

	app.logger = opts.Logger
	if app.logger == nil {
		app.logger = buildLogger(app.config.Log)
	}

	impls := caps.Implementations{}
	if opts.Implementations != nil {
		impls = *opts.Implementations
	} else {
		built, closers, err := buildImplementations(app.config, app.logger)
		if err != nil {
			if app.watcher != nil {
				app.watcher.Stop()
			}
			return nil, err
		}
		impls = built
		app.closers = closers
	}

	app.system = core.NewSystemWithOptions(core.SystemOptions{
		Policy: core.RestartPolicy{
			MaxRestarts: app.config.Supervision.MaxRestarts,
			Window:      app.config.Supervision.Window(),
			Backoff:     app.config.Supervision.Backoff(),
		},
		MailboxSize:     app.config.Actor.MailboxSize,
		Implementations: impls,
		Logger:          app.logger,
	})

	if app.watcher != nil {
		app.watcher.OnConfigChange(app.onConfigChange)
		if err := app.watcher.Start(); err != nil {
			app.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to start config watcher: %w", err)
		}
	}

	app.logger.Info("application assembled",
		"app", app.config.App.Name,
		"environment", app.config.App.Environment.String())
	return app, nil
}

// System returns the actor system.
func (app *Application) System() *core.System {
	return app.system
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	return app.config
}

// ReloadConfig reloads the configuration file immediately instead of
// waiting for a file system event. It is a no-op without a config file.
func (app *Application) ReloadConfig() error {
	if app.watcher == nil {
		return nil
	}
	return app.watcher.Reload()
}

// Run blocks until a shutdown signal arrives or ctx is cancelled, then
// shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	app.mutex.Lock()
	if app.running {
		app.mutex.Unlock()
		return fmt.Errorf("application is already running")
	}
	app.running = true
	app.mutex.Unlock()

	signal.Notify(app.shutdownChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-app.shutdownChan:
		app.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		app.logger.Info("context cancelled, shutting down")
	}

	return app.Shutdown(context.Background())
}

// Shutdown stops the actor system, the config watcher, and the effect
// implementation resources, in that order.
func (app *Application) Shutdown(ctx context.Context) error {
	app.mutex.Lock()
	app.running = false
	app.mutex.Unlock()

	var firstErr error

	if err := app.system.Shutdown(ctx); err != nil {
		firstErr = err
	}

	if app.watcher != nil {
		if err := app.watcher.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Release resources in reverse acquisition order.
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	app.logger.Info("application stopped", "app", app.config.App.Name)
	return firstErr
}

// onConfigChange feeds a changed restart policy into the running system.
func (app *Application) onConfigChange(oldConfig, newConfig *config.Config) {
	app.mutex.Lock()
	app.config = newConfig
	app.mutex.Unlock()

	if oldConfig.Supervision != newConfig.Supervision {
		app.system.SetPolicy(core.RestartPolicy{
			MaxRestarts: newConfig.Supervision.MaxRestarts,
			Window:      newConfig.Supervision.Window(),
			Backoff:     newConfig.Supervision.Backoff(),
		})
		app.logger.Info("restart policy updated",
			"max_restarts", newConfig.Supervision.MaxRestarts,
			"window_ms", newConfig.Supervision.WindowMS,
			"backoff_ms", newConfig.Supervision.BackoffMS)
	}
}

// buildLogger constructs a slog.Logger from the logging configuration.
func buildLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}

// buildImplementations wires the stock effect implementations from
// configuration, returning the resources that need closing on shutdown.
func buildImplementations(cfg *config.Config, logger *slog.Logger) (caps.Implementations, []io.Closer, error) {
	impls := caps.Implementations{
		Clock: effects.NewSystemClock(),
	}
	var closers []io.Closer

	if cfg.Effects.Database.Driver != "" {
		db, err := effects.OpenSQLDatabase(cfg.Effects.Database.Driver, cfg.Effects.Database.DSN)
		if err != nil {
			return impls, closers, fmt.Errorf("failed to open database: %w", err)
		}
		impls.Database = db
		closers = append(closers, db)
	}

	impls.Network = effects.NewHTTPNetwork(effects.HTTPNetworkOptions{
		Timeout:   cfg.Effects.Network.Timeout(),
		Allowlist: cfg.Effects.Network.Allowlist,
	})

	kms := effects.NewLocalKMS(logger)
	for keyID, material := range cfg.Effects.Keys.Dev {
		key, err := crypt.DecodeKey(material)
		if err != nil {
			closeAll(closers)
			return impls, nil, fmt.Errorf("%w: dev key %q: %v", config.ErrInvalidKeyMaterial, keyID, err)
		}
		if err := kms.AddKey(keyID, key); err != nil {
			closeAll(closers)
			return impls, nil, fmt.Errorf("failed to add dev key %q: %w", keyID, err)
		}
	}
	impls.KeyManagement = kms

	if cfg.Effects.Serial.Port != "" {
		port, err := effects.OpenSerialPort(cfg.Effects.Serial.Port, cfg.Effects.Serial.BaudRate)
		if err != nil {
			closeAll(closers)
			return impls, nil, fmt.Errorf("failed to open serial port: %w", err)
		}
		impls.Serial = port
		closers = append(closers, port)
	} else {
		impls.Serial = effects.NewLoopbackSerial()
	}

	return impls, closers, nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
}
