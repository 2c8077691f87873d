package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "dtask done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnTask(ctx, cfg, svc, args, out, errOut, "completed task", svc.CompleteTask)
}

// runOnTask resolves the task reference in args and applies action to the
// task's ID. Shared by done and rm.
func runOnTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, what string, action func(context.Context, string) error) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		if errors.Is(err, ErrOutOfRange) || errors.Is(err, ErrNoMatch) || errors.Is(err, ErrAmbiguous) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return storageError(errOut, err)
	}

	if err := action(ctx, task.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// Removed between listing and acting on it
			fmt.Fprintf(errOut, "error: %v: %s\n", err, task.ShortID())
			return exitcode.UserError
		}
		return storageError(errOut, err)
	}

	log.FromContext(ctx).Debug(what, "id", task.ID, "name", task.Name)
	return ok(cfg, out)
}
