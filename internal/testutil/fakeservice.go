// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"dtask/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	CompleteTaskErr error
	DeleteTaskErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask adds an open task with a fixed ID.
func (f *FakeService) AddTask(id, name, deadline string) {
	f.AddTaskWithStatus(id, name, deadline, service.StatusOpen)
}

// AddTaskWithStatus adds a task with a fixed ID and status.
func (f *FakeService) AddTaskWithStatus(id, name, deadline string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:       id,
		Name:     name,
		Deadline: deadline,
		Status:   status,
	})
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, name, deadline string) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	task, err := service.NewTask(name, deadline)
	if err != nil {
		return service.Task{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Predictable IDs keep test output stable
	f.nextID++
	task.ID = fmt.Sprintf("fake%04d-0000-0000-0000-000000000000", f.nextID)
	f.tasks = append(f.tasks, task)
	return task, nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Status = service.StatusDone
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
