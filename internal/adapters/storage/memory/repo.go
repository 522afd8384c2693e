// Package memory is the process-local task repository.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
)

// Repository keeps tasks in insertion order. Every write publishes a fresh slice,
// so a list handed to a reader is never mutated afterwards.
type Repository struct {
	mu    sync.RWMutex
	tasks []domain.Task
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{}
}

// ListTasks returns a copy of the task list.
func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tasks), nil
}

// GetTask returns task.
func (r *Repository) GetTask(ctx context.Context, id string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return domain.Task{}, app.ErrNotFound
	}
	return r.tasks[idx], nil
}

// CreateTask appends t.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(t.ID) >= 0 {
		return fmt.Errorf("create task %q: duplicate id", t.ID)
	}
	next := make([]domain.Task, 0, len(r.tasks)+1)
	next = append(next, r.tasks...)
	r.tasks = append(next, t)
	return nil
}

// UpdateTask replaces the task with the same id, keeping its position.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(t.ID)
	if idx < 0 {
		return app.ErrNotFound
	}
	next := slices.Clone(r.tasks)
	next[idx] = t
	r.tasks = next
	return nil
}

// DeleteTask deletes task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return app.ErrNotFound
	}
	next := make([]domain.Task, 0, len(r.tasks)-1)
	next = append(next, r.tasks[:idx]...)
	r.tasks = append(next, r.tasks[idx+1:]...)
	return nil
}

// ReplaceTasks swaps in a whole new list.
func (r *Repository) ReplaceTasks(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("replace tasks: duplicate id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = slices.Clone(tasks)
	return nil
}

func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.tasks, func(t domain.Task) bool { return t.ID == id })
}
