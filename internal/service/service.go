// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task storage operations.
// Commands and the TUI only talk to storage through this interface.
type Service interface {
	// ListTasks returns all tasks in storage order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask appends a new open task and returns it.
	// Returns ErrEmptyName or ErrInvalidDeadline on bad input.
	CreateTask(ctx context.Context, name, deadline string) (Task, error)

	// CompleteTask marks the task with the given ID as done.
	// Returns ErrNotFound if no such task exists.
	CompleteTask(ctx context.Context, id string) error

	// DeleteTask removes the task with the given ID.
	// Returns ErrNotFound if no such task exists.
	DeleteTask(ctx context.Context, id string) error
}
