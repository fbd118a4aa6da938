// Package app wires the perimeters CLI: configuration loading, logging
// setup, signal handling, and the cobra command tree.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/coloradofire/perimeters/pkg/logging"
)

// App is the CLI application.
type App struct {
	config  *Config
	logger  *zerolog.Logger
	version string
	commit  string
	date    string
}

// New creates the application, loading configuration from the environment,
// .env files, and an optional config file.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  config,
		logger:  logging.Default(),
		version: version,
		commit:  commit,
		date:    date,
	}
	return a, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Execute parses args and runs the selected command.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// ContextWithSignals returns a context canceled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints the error and exits non-zero.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
