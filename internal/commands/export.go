package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"dtask/internal/backend/csvfile"
	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes every task in the flat CSV format, whatever the backend.
type ExportCmd struct {
	output string
}

// SetOutput sets the --output flag (for testing).
func (c *ExportCmd) SetOutput(path string) {
	c.output = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as CSV" }
func (c *ExportCmd) Usage() string     { return "dtask export [--output <file>]" }
func (c *ExportCmd) NeedsStore() bool  { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return storageError(errOut, err)
	}

	if c.output == "" {
		if err := csvfile.Encode(out, tasks); err != nil {
			return storageError(errOut, err)
		}
		return exitcode.Success
	}

	f, err := os.OpenFile(c.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	encErr := csvfile.Encode(f, tasks)
	if err := f.Close(); err != nil && encErr == nil {
		encErr = err
	}
	if encErr != nil {
		return storageError(errOut, encErr)
	}
	return ok(cfg, out)
}
