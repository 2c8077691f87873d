// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes tasks.
	// Commands like help, version and config return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// svc is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// storageError reports a store failure and returns its exit code.
func storageError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: storage error: %v\n", err)
	return exitcode.StorageError
}

// ok prints the success marker unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
