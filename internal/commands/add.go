package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due string
}

// SetDue sets the deadline flag (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "dtask add [--due <date>] <name...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(errOut, "error: task name required")
		return exitcode.UserError
	}

	deadline, err := ResolveDue(c.due, cfg.Today())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := svc.CreateTask(ctx, name, deadline)
	if err != nil {
		if errors.Is(err, service.ErrEmptyName) || errors.Is(err, service.ErrInvalidDeadline) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return storageError(errOut, err)
	}

	log.FromContext(ctx).Debug("created task", "id", task.ID, "deadline", task.Deadline)
	return ok(cfg, out)
}

// ResolveDue turns a --due value into a YYYY-MM-DD deadline.
// Empty and "today" mean today; "tomorrow" means the next day.
func ResolveDue(due string, today time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(due)) {
	case "", "today":
		return today.Format(service.DateLayout), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(service.DateLayout), nil
	}
	d, err := service.ParseDate(due)
	if err != nil {
		return "", fmt.Errorf("invalid deadline: %s (want YYYY-MM-DD, today or tomorrow)", due)
	}
	return d.Format(service.DateLayout), nil
}
