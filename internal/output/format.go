// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"dtask/internal/reminder"
	"dtask/internal/service"
)

const (
	// ListSeparator is the separator line around section headers.
	ListSeparator = "------------"

	// RemindersTitle heads the reminder section under the task table.
	RemindersTitle = "Reminders"
)

// FormatTask formats a task line.
// Format: "{N:>4}  {DEADLINE:<10}  {MARK}  {NAME}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %-10s  %s  %s\n", num, normalizeDeadline(task.Deadline), StatusMark(task), normalizeName(task.Name))
}

// FormatTaskLong is FormatTask with the short task ID after the number.
func FormatTaskLong(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %-8s  %-10s  %s  %s\n", num, task.ShortID(), normalizeDeadline(task.Deadline), StatusMark(task), normalizeName(task.Name))
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// FormatReminder formats one reminder line.
func FormatReminder(w io.Writer, r reminder.Reminder) {
	r.Task.Name = normalizeName(r.Task.Name)
	fmt.Fprintf(w, "  ! %s\n", r.Message())
}

// FormatReminders writes the reminder section. Nothing is written when
// there are no reminders.
func FormatReminders(w io.Writer, reminders []reminder.Reminder) {
	if len(reminders) == 0 {
		return
	}
	FormatHeader(w, RemindersTitle)
	for _, r := range reminders {
		FormatReminder(w, r)
	}
}

// StatusMark returns "[x]" for done tasks and "[ ]" otherwise.
func StatusMark(task service.Task) string {
	if task.Done() {
		return "[x]"
	}
	return "[ ]"
}

// normalizeName normalizes a task name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")

	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}

func normalizeDeadline(deadline string) string {
	if strings.TrimSpace(deadline) == "" {
		return "-"
	}
	return deadline
}
