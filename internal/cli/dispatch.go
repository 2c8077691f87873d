// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"dtask/internal/commands"
	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/logging"
	"dtask/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	if cmdName == "-h" || cmdName == "--help" {
		commands.WriteHelp(out, d.registry)
		return exitcode.Success
	}

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(err, out, errOut, d.registry)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger := logging.New(errOut, level, cfg.LogFormat)
	ctx = log.WithContext(ctx, logger)
	logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir, "backend", cfg.Backend)

	var svc service.Service
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: storage error: no backend configured")
			return exitcode.StorageError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %v\n", err)
			return exitcode.StorageError
		}
		if c, ok := svc.(io.Closer); ok {
			defer func() {
				if err := c.Close(); err != nil {
					logger.Warn("close backend", "err", err)
				}
			}()
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError maps a flag parse error to a message and exit code.
func flagError(err error, out, errOut io.Writer, registry *commands.Registry) int {
	if errors.Is(err, flag.ErrHelp) {
		commands.WriteHelp(out, registry)
		return exitcode.Success
	}

	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
