package app

import (
	"context"

	"github.com/hylla/gengantt/internal/domain"
)

// Repository stores the ordered task list. ListTasks returns tasks in insertion order.
type Repository interface {
	ListTasks(context.Context) ([]domain.Task, error)
	GetTask(context.Context, string) (domain.Task, error)
	CreateTask(context.Context, domain.Task) error
	UpdateTask(context.Context, domain.Task) error
	DeleteTask(context.Context, string) error
	ReplaceTasks(context.Context, []domain.Task) error
}
