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

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "dtask help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	WriteHelp(out, DefaultRegistry)
	return exitcode.Success
}

// WriteHelp prints usage for every command in r.
func WriteHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-40s %s\n", "dtask", "List tasks (same as dtask list)")
	for _, cmd := range r.All() {
		fmt.Fprintf(w, "  %-40s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(w, helpFooter)
}

const helpFooter = `
A <ref> is a number from 'dtask list' or a task id prefix (4+ characters).
An all-digit <ref> is tried as a list number first, then as an id prefix.
A <date> is YYYY-MM-DD, today or tomorrow (default today).

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
