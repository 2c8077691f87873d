// Package tui implements the interactive terminal interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"dtask/internal/config"
	"dtask/internal/output"
	"dtask/internal/reminder"
	"dtask/internal/service"
)

type mode int

const (
	modeBrowse mode = iota
	modeName
	modeDeadline
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tasksLoadedMsg struct {
	tasks []service.Task
	err   error
}

type opResultMsg struct {
	status string
	err    error
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx context.Context
	svc service.Service
	cfg *config.Config

	tasks []service.Task
	table table.Model
	input textinput.Model
	mode  mode

	pendingName string
	status      string
	err         error
}

// New returns a model that loads its tasks from svc on Init.
func New(ctx context.Context, svc service.Service, cfg *config.Config) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Deadline", Width: 10},
			{Title: "Done", Width: 4},
			{Title: "Task", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	in := textinput.New()
	in.CharLimit = 200
	in.Width = 40

	return &Model{
		ctx:   ctx,
		svc:   svc,
		cfg:   cfg,
		table: t,
		input: in,
	}
}

// Run starts the interactive UI and blocks until the user quits.
func Run(ctx context.Context, svc service.Service, cfg *config.Config) error {
	p := tea.NewProgram(New(ctx, svc, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// mutate runs fn against the task ID and reports the outcome as an opResultMsg.
func (m *Model) mutate(what string, task service.Task, fn func(context.Context, string) error) tea.Cmd {
	return func() tea.Msg {
		log.FromContext(m.ctx).Debug(what, "id", task.ID)
		if err := fn(m.ctx, task.ID); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{status: fmt.Sprintf("%s: %s", what, task.Name)}
	}
}

func (m *Model) create(name, deadline string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.svc.CreateTask(m.ctx, name, deadline)
		if err != nil {
			return opResultMsg{err: err}
		}
		log.FromContext(m.ctx).Debug("created task", "id", t.ID)
		return opResultMsg{status: "added: " + t.Name}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setTasks(msg.tasks)
		return m, nil

	case opResultMsg:
		m.err = msg.err
		m.status = msg.status
		return m, m.load()

	case tea.WindowSizeMsg:
		h := msg.Height - 10
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.status, m.err = "", nil
		return m, m.load()
	case "a":
		m.mode = modeName
		m.err = nil
		m.input.Reset()
		m.input.Placeholder = "task name"
		return m, m.input.Focus()
	case "enter":
		if t, ok := m.selected(); ok {
			return m, m.mutate("done", t, m.svc.CompleteTask)
		}
		return m, nil
	case "x":
		if t, ok := m.selected(); ok {
			return m, m.mutate("deleted", t, m.svc.DeleteTask)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.endInput()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeName {
			if value == "" {
				m.err = service.ErrEmptyName
				return m, nil
			}
			m.pendingName = value
			m.mode = modeDeadline
			m.err = nil
			m.input.Placeholder = service.DateLayout
			m.input.SetValue(m.cfg.Today().Format(service.DateLayout))
			return m, nil
		}
		if _, err := service.ParseDate(value); err != nil {
			m.err = fmt.Errorf("%w: %q", service.ErrInvalidDeadline, value)
			return m, nil
		}
		name := m.pendingName
		m.endInput()
		return m, m.create(name, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.pendingName = ""
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) setTasks(tasks []service.Task) {
	m.tasks = tasks
	rows := make([]table.Row, len(tasks))
	for i, t := range tasks {
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		}
		rows[i] = table.Row{strconv.Itoa(i + 1), deadline, output.StatusMark(t), t.Name}
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(min(max(m.table.Cursor(), 0), len(rows)-1))
	}
}

func (m *Model) selected() (service.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[i], true
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dtask"))
	b.WriteString("\n\n")

	if rs := reminder.Upcoming(m.tasks, m.cfg.Today(), m.cfg.RemindDays); len(rs) > 0 {
		lines := make([]string, len(rs))
		for i, r := range rs {
			lines[i] = "! " + r.Message()
		}
		b.WriteString(bannerStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n\n")
	}

	if len(m.tasks) == 0 {
		b.WriteString("no tasks found\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	switch m.mode {
	case modeName:
		b.WriteString("\nName: " + m.input.View() + "\n")
	case modeDeadline:
		b.WriteString(fmt.Sprintf("\nDeadline for %q: %s\n", m.pendingName, m.input.View()))
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	help := "a add • enter done • x delete • r reload • q quit"
	if m.mode != modeBrowse {
		help = "enter confirm • esc cancel"
	}
	b.WriteString("\n" + helpStyle.Render(help) + "\n")
	return b.String()
}
