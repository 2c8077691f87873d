// Package sqlite implements service.Service on an embedded SQLite database,
// so mutations touch one row instead of rewriting the whole table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // SQLite driver

	"dtask/internal/service"
)

// OpTimeout bounds every database operation.
const OpTimeout = 5 * time.Second

// Store implements service.Service using SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer process at a time; a single connection keeps pragmas in effect.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tasks table: %w", err)
	}

	log.FromContext(ctx).Debug("opened task database", "path", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, listTasksQuery)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []service.Task
	for rows.Next() {
		var t service.Task
		var status string
		if err := rows.Scan(&t.ID, &t.Name, &t.Deadline, &status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = service.ParseStatus(status)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	log.FromContext(ctx).Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// CreateTask implements service.Service.
func (s *Store) CreateTask(ctx context.Context, name, deadline string) (service.Task, error) {
	task, err := service.NewTask(name, deadline)
	if err != nil {
		return service.Task{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, insertTaskQuery, task.ID, task.Name, task.Deadline, string(task.Status)); err != nil {
		return service.Task{}, fmt.Errorf("insert task: %w", err)
	}
	log.FromContext(ctx).Debug("created task", "id", task.ID)
	return task, nil
}

// CompleteTask implements service.Service.
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	return s.execOne(ctx, "complete task", completeTaskQuery, string(service.StatusDone), id)
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete task", deleteTaskQuery, id)
}

// execOne runs a statement that must affect exactly one row.
func (s *Store) execOne(ctx context.Context, what, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return service.ErrNotFound
	}
	log.FromContext(ctx).Debug(what, "rows", n)
	return nil
}
