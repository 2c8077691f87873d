// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the layout of stored deadlines (ISO date).
const DateLayout = "2006-01-02"

// Status is the completion state of a task.
type Status string

const (
	StatusOpen Status = "not done"
	StatusDone Status = "done"
)

// Status spellings written by the original tool.
const (
	legacyStatusOpen = "Belum selesai"
	legacyStatusDone = "✅ Selesai"
)

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")

	// ErrEmptyName is returned when a task name is empty or whitespace-only.
	ErrEmptyName = errors.New("task name required")

	// ErrInvalidDeadline is returned when a deadline is not a YYYY-MM-DD date.
	ErrInvalidDeadline = errors.New("invalid deadline")
)

// Task represents a single task.
type Task struct {
	ID       string
	Name     string
	Deadline string // YYYY-MM-DD; may be malformed in hand-edited files
	Status   Status
}

// Done reports whether the task is completed.
func (t Task) Done() bool {
	return t.Status == StatusDone
}

// DueDate parses the deadline as a local calendar date.
func (t Task) DueDate() (time.Time, error) {
	return ParseDate(t.Deadline)
}

// ShortID returns the first 8 characters of the ID for display.
func (t Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// NewTask validates name and deadline and returns an open task with a fresh ID.
func NewTask(name, deadline string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, ErrEmptyName
	}
	deadline = strings.TrimSpace(deadline)
	if _, err := ParseDate(deadline); err != nil {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, deadline)
	}
	return Task{
		ID:       NewID(),
		Name:     name,
		Deadline: deadline,
		Status:   StatusOpen,
	}, nil
}

// NewID returns a new stable task identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseDate parses a YYYY-MM-DD string as midnight local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// ParseStatus maps stored status text to a Status.
// Anything other than a known "done" spelling counts as open.
func ParseStatus(s string) Status {
	switch strings.TrimSpace(s) {
	case string(StatusDone), legacyStatusDone:
		return StatusDone
	case string(StatusOpen), legacyStatusOpen:
		return StatusOpen
	default:
		return StatusOpen
	}
}
