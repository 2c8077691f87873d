// Package reminder finds open tasks whose deadline falls inside the
// reminder window.
package reminder

import (
	"fmt"
	"time"

	"dtask/internal/service"
)

// DefaultWindowDays covers today and tomorrow.
const DefaultWindowDays = 1

// Reminder is an upcoming deadline for an open task.
type Reminder struct {
	Task     service.Task
	Due      time.Time
	DaysLeft int // 0 = today
}

// Message returns the human-readable reminder text.
func (r Reminder) Message() string {
	date := r.Due.Format(service.DateLayout)
	switch r.DaysLeft {
	case 0:
		return fmt.Sprintf("%s is due today (%s)", r.Task.Name, date)
	case 1:
		return fmt.Sprintf("%s is due tomorrow (%s)", r.Task.Name, date)
	default:
		return fmt.Sprintf("%s is due in %d days (%s)", r.Task.Name, r.DaysLeft, date)
	}
}

// Upcoming returns reminders for open tasks due between today and
// today+windowDays inclusive, in task order. Done tasks and tasks with an
// unparseable deadline are skipped.
func Upcoming(tasks []service.Task, today time.Time, windowDays int) []Reminder {
	var out []Reminder
	for _, t := range tasks {
		if t.Done() {
			continue
		}
		due, err := t.DueDate()
		if err != nil {
			continue
		}
		days := daysBetween(today, due)
		if days < 0 || days > windowDays {
			continue
		}
		out = append(out, Reminder{Task: t, Due: due, DaysLeft: days})
	}
	return out
}

// daysBetween counts calendar days from a to b, ignoring clock time and DST.
func daysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
