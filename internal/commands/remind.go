package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/output"
	"dtask/internal/reminder"
	"dtask/internal/service"
)

func init() {
	Register(&RemindCmd{})
}

// RemindCmd prints reminders for open tasks due within the reminder window.
type RemindCmd struct{}

func (c *RemindCmd) Name() string      { return "remind" }
func (c *RemindCmd) Aliases() []string { return nil }
func (c *RemindCmd) Synopsis() string  { return "Show upcoming deadlines" }
func (c *RemindCmd) Usage() string     { return "dtask remind" }
func (c *RemindCmd) NeedsStore() bool  { return true }

func (c *RemindCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RemindCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return storageError(errOut, err)
	}

	reminders := reminder.Upcoming(tasks, cfg.Today(), cfg.RemindDays)
	if len(reminders) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no upcoming deadlines")
		}
		return exitcode.Success
	}
	for _, r := range reminders {
		output.FormatReminder(out, r)
	}
	return exitcode.Success
}
