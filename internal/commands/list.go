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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `dtask` (no args) and `dtask list`.
type ListCmd struct {
	open bool
	long bool
}

// SetOpen sets the --open flag (for testing).
func (c *ListCmd) SetOpen(open bool) {
	c.open = open
}

// SetLong sets the --long flag (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks and upcoming deadlines" }
func (c *ListCmd) Usage() string     { return "dtask list [--open] [--long]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return storageError(errOut, err)
	}

	// Numbers always follow storage order so done/rm refs stay valid
	// with --open.
	shown := 0
	for i, task := range tasks {
		if c.open && task.Done() {
			continue
		}
		if c.long {
			output.FormatTaskLong(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}

	output.FormatReminders(out, reminder.Upcoming(tasks, cfg.Today(), cfg.RemindDays))
	return exitcode.Success
}
