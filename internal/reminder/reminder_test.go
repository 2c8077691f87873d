package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtask/internal/service"
)

func task(name, deadline string, status service.Status) service.Task {
	return service.Task{ID: name, Name: name, Deadline: deadline, Status: status}
}

// 2026-10-19 late in the evening; clock time must not matter.
var today = time.Date(2026, 10, 19, 23, 30, 0, 0, time.Local)

func TestUpcoming_Window(t *testing.T) {
	tasks := []service.Task{
		task("yesterday", "2026-10-18", service.StatusOpen),
		task("today", "2026-10-19", service.StatusOpen),
		task("tomorrow", "2026-10-20", service.StatusOpen),
		task("later", "2026-10-21", service.StatusOpen),
	}

	got := Upcoming(tasks, today, DefaultWindowDays)

	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].Task.Name)
	assert.Equal(t, 0, got[0].DaysLeft)
	assert.Equal(t, "tomorrow", got[1].Task.Name)
	assert.Equal(t, 1, got[1].DaysLeft)
}

func TestUpcoming_SkipsDone(t *testing.T) {
	tasks := []service.Task{
		task("finished", "2026-10-19", service.StatusDone),
		task("finished tomorrow", "2026-10-20", service.StatusDone),
	}

	assert.Empty(t, Upcoming(tasks, today, DefaultWindowDays))
}

func TestUpcoming_SkipsUnparseable(t *testing.T) {
	tasks := []service.Task{
		task("garbage", "next week", service.StatusOpen),
		task("empty", "", service.StatusOpen),
		task("ok", "2026-10-20", service.StatusOpen),
	}

	got := Upcoming(tasks, today, DefaultWindowDays)

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Task.Name)
}

func TestUpcoming_WiderWindow(t *testing.T) {
	tasks := []service.Task{
		task("in three days", "2026-10-22", service.StatusOpen),
		task("in four days", "2026-10-23", service.StatusOpen),
	}

	got := Upcoming(tasks, today, 3)

	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].DaysLeft)
}

func TestUpcoming_ZeroWindowIsTodayOnly(t *testing.T) {
	tasks := []service.Task{
		task("today", "2026-10-19", service.StatusOpen),
		task("tomorrow", "2026-10-20", service.StatusOpen),
	}

	got := Upcoming(tasks, today, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "today", got[0].Task.Name)
}

func TestUpcoming_AcrossMonthBoundary(t *testing.T) {
	endOfMonth := time.Date(2026, 10, 31, 8, 0, 0, 0, time.Local)
	tasks := []service.Task{task("november", "2026-11-01", service.StatusOpen)}

	got := Upcoming(tasks, endOfMonth, DefaultWindowDays)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].DaysLeft)
}

func TestReminderMessage(t *testing.T) {
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local)
	tk := task("Submit thesis", "2026-10-20", service.StatusOpen)

	assert.Equal(t, "Submit thesis is due today (2026-10-20)", Reminder{Task: tk, Due: due, DaysLeft: 0}.Message())
	assert.Equal(t, "Submit thesis is due tomorrow (2026-10-20)", Reminder{Task: tk, Due: due, DaysLeft: 1}.Message())
	assert.Equal(t, "Submit thesis is due in 2 days (2026-10-20)", Reminder{Task: tk, Due: due, DaysLeft: 2}.Message())
}
