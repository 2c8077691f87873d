package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dtask/internal/service"
)

var (
	// ErrOutOfRange is returned when a list number has no task.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrNoMatch is returned when no task ID starts with the prefix.
	ErrNoMatch = errors.New("no task with id")

	// ErrAmbiguous is returned when several task IDs start with the prefix.
	ErrAmbiguous = errors.New("ambiguous task id")
)

// ResolveTaskRef finds the task a reference points at in a fresh listing.
func ResolveTaskRef(ctx context.Context, svc service.Service, ref TaskRef) (service.Task, error) {
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return service.Task{}, err
	}

	numeric := ref.IDPrefix == "" || isAllDigits(ref.IDPrefix)
	if numeric && ref.Num >= 1 && ref.Num <= len(tasks) {
		return tasks[ref.Num-1], nil
	}

	if ref.IDPrefix != "" {
		var matches []service.Task
		for _, t := range tasks {
			if strings.HasPrefix(strings.ToLower(t.ID), ref.IDPrefix) {
				matches = append(matches, t)
			}
		}
		switch {
		case len(matches) == 1:
			return matches[0], nil
		case len(matches) > 1:
			return service.Task{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref.IDPrefix)
		case !numeric:
			return service.Task{}, fmt.Errorf("%w: %s", ErrNoMatch, ref.IDPrefix)
		}
	}

	if ref.IDPrefix != "" && ref.Num == 0 {
		// Too large for a list number.
		return service.Task{}, fmt.Errorf("%w: %s", ErrOutOfRange, ref.IDPrefix)
	}
	return service.Task{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Num)
}
