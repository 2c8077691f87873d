package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"dtask/internal/service"
)

// Column names. The first three match files written by the original tool.
const (
	ColName     = "Tugas"
	ColDeadline = "Deadline"
	ColStatus   = "Status"
	ColID       = "ID"
)

// Header is the header row written on every save.
var Header = []string{ColName, ColDeadline, ColStatus, ColID}

// ErrMalformed is returned when the header lacks a required column.
var ErrMalformed = errors.New("malformed task file")

// Decode reads a task table. Rows without an ID (or with a duplicate one)
// get a fresh ID; assigned reports whether that happened so the caller can
// persist the new IDs.
func Decode(r io.Reader) (tasks []service.Task, assigned bool, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColName, ColDeadline, ColStatus} {
		if _, ok := cols[required]; !ok {
			return nil, false, fmt.Errorf("%w: missing column %q", ErrMalformed, required)
		}
	}
	idCol, hasID := cols[ColID]
	if !hasID {
		idCol = -1
	}

	seen := make(map[string]bool, len(records)-1)
	tasks = make([]service.Task, 0, len(records)-1)
	for _, row := range records[1:] {
		t := service.Task{
			ID:       strings.TrimSpace(field(row, idCol)),
			Name:     field(row, cols[ColName]),
			Deadline: strings.TrimSpace(field(row, cols[ColDeadline])),
			Status:   service.ParseStatus(field(row, cols[ColStatus])),
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = service.NewID()
			assigned = true
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, assigned, nil
}

// Encode writes the header and one row per task.
func Encode(w io.Writer, tasks []service.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.Name, t.Deadline, string(t.Status), t.ID}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
