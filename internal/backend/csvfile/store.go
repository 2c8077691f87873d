// Package csvfile implements service.Service over a flat CSV file that is
// loaded and rewritten in full on every operation.
package csvfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"dtask/internal/service"
)

// createTemp is swapped in tests to simulate an unwritable directory.
var createTemp = os.CreateTemp

// Store owns the task file. All access goes through its methods, which
// serialize on a mutex and replace the file atomically.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store for the file at path. The file is not touched until
// the first operation.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// ListTasks implements service.Service.
func (s *Store) ListTasks(ctx context.Context) ([]service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, assigned, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	// IDs handed out here must survive until the caller acts on them.
	// A read-only file still lists; its IDs just change on every load.
	if assigned {
		if err := s.save(ctx, tasks); err != nil {
			if !errors.Is(err, fs.ErrPermission) {
				return nil, err
			}
			log.FromContext(ctx).Warn("could not persist task ids", "path", s.path, "err", err)
		}
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (s *Store) CreateTask(ctx context.Context, name, deadline string) (service.Task, error) {
	task, err := service.NewTask(name, deadline)
	if err != nil {
		return service.Task{}, err
	}
	err = s.update(ctx, func(tasks []service.Task) ([]service.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CompleteTask implements service.Service.
func (s *Store) CompleteTask(ctx context.Context, id string) error {
	return s.update(ctx, func(tasks []service.Task) ([]service.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, service.ErrNotFound
		}
		tasks[i].Status = service.StatusDone
		return tasks, nil
	})
}

// DeleteTask implements service.Service.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.update(ctx, func(tasks []service.Task) ([]service.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, service.ErrNotFound
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

// update runs a full load, mutate, save cycle under the store lock.
func (s *Store) update(ctx context.Context, fn func([]service.Task) ([]service.Task, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	tasks, err = fn(tasks)
	if err != nil {
		return err
	}
	return s.save(ctx, tasks)
}

// load reads the whole table. A missing file is an empty table.
func (s *Store) load(ctx context.Context) ([]service.Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.FromContext(ctx).Debug("task file absent, starting empty", "path", s.path)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read task file: %w", err)
	}
	tasks, assigned, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.path, err)
	}
	log.FromContext(ctx).Debug("loaded tasks", "path", s.path, "count", len(tasks), "assigned_ids", assigned)
	return tasks, assigned, nil
}

// save writes the table to a temp file next to the target and renames it
// into place.
func (s *Store) save(ctx context.Context, tasks []service.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, tasks); err != nil {
		return fmt.Errorf("encode task file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := createTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close task file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}

	log.FromContext(ctx).Debug("saved tasks", "path", s.path, "count", len(tasks))
	return nil
}

func indexOf(tasks []service.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
