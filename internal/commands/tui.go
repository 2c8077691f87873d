package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiCmd starts the interactive terminal UI.
type TuiCmd struct{}

func (c *TuiCmd) Name() string      { return "tui" }
func (c *TuiCmd) Aliases() []string { return nil }
func (c *TuiCmd) Synopsis() string  { return "Interactive terminal UI" }
func (c *TuiCmd) Usage() string     { return "dtask tui" }
func (c *TuiCmd) NeedsStore() bool  { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !isTerminal(out) {
		fmt.Fprintln(errOut, "error: tui requires a terminal")
		return exitcode.UserError
	}
	if err := tui.Run(ctx, svc, cfg); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
