// Package app provides the application context and dependency wiring
// for the beaconpay CLI. Configuration, logging, and shared clients are
// centralized here so commands stay thin.
package app

import (
	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/internal/transport"
	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/errors"
)

// App represents the beaconpay application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version string.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Cache returns the response cache rooted at the configured cache
// directory, or the XDG default when none is configured.
func (a *App) Cache() (*transport.Cache, error) {
	return transport.NewCache(a.config.CacheDir, constants.CacheTTL)
}

// Transport returns an HTTP client configured with the application
// logger and the default retry budget.
func (a *App) Transport() *transport.Client {
	return transport.New(
		transport.WithTimeout(constants.DefaultHTTPTimeout),
		transport.WithLogger(*a.logger),
	)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
