// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRequest reports malformed or rejected task input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound reports missing transport-visible resources.
var ErrNotFound = errors.New("not found")

// ErrServiceUnavailable reports a missing backing service.
var ErrServiceUnavailable = errors.New("service unavailable")

// TaskService is the task surface shared by REST and MCP transports.
type TaskService interface {
	ListTasks(context.Context, ListTasksRequest) ([]Task, error)
	GetTask(context.Context, string) (Task, error)
	SaveTask(context.Context, SaveTaskRequest) (SaveTaskResult, error)
	DeleteTask(context.Context, string) error
	ToggleComplete(context.Context, string) (Task, error)
	ChartLayout(context.Context, ListTasksRequest) (ChartLayout, error)
	FilterOptions(context.Context) (FilterOptions, error)
}

// ListTasksRequest carries the optional title search and selector filters.
// Empty category or assignee values mean "All".
type ListTasksRequest struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
	Assignee string `json:"assignee,omitempty"`
}

// SaveTaskRequest creates a task when ID is empty and updates it otherwise.
type SaveTaskRequest struct {
	ID        string `json:"id,omitempty" validate:"omitempty,max=128"`
	Title     string `json:"title" validate:"required,max=512"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Progress  int    `json:"progress" validate:"min=0,max=100"`
	Category  string `json:"category,omitempty" validate:"max=128"`
	Assignee  string `json:"assignee,omitempty" validate:"max=128"`
}

// SaveTaskResult reports the stored task and whether it was newly created.
type SaveTaskResult struct {
	Task    Task `json:"task"`
	Created bool `json:"created"`
}

// Task is the transport view of one task.
type Task struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	StartDate         string    `json:"start_date"`
	EndDate           string    `json:"end_date"`
	Progress          int       `json:"progress"`
	Category          string    `json:"category"`
	Assignee          string    `json:"assignee"`
	EffectiveAssignee string    `json:"effective_assignee"`
	Complete          bool      `json:"complete"`
	DurationDays      int       `json:"duration_days"`
	Color             string    `json:"color"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FilterOptions lists selector choices, each starting with "All".
type FilterOptions struct {
	Categories []string `json:"categories"`
	Assignees  []string `json:"assignees"`
}

// ChartLayout is the pixel layout of the filtered task list.
type ChartLayout struct {
	Min       string     `json:"min"`
	Max       string     `json:"max"`
	TotalDays int        `json:"total_days"`
	DayWidth  int        `json:"day_width"`
	GridWidth int        `json:"grid_width"`
	Today     string     `json:"today"`
	TodayX    *int       `json:"today_x,omitempty"`
	Days      []ChartDay `json:"days"`
	Rows      []ChartRow `json:"rows"`
}

// ChartDay is one timeline column.
type ChartDay struct {
	Date       string `json:"date"`
	Offset     int    `json:"offset"`
	Weekend    bool   `json:"weekend"`
	MonthLabel string `json:"month_label,omitempty"`
	Weekday    string `json:"weekday"`
}

// ChartRow is one placed task bar.
type ChartRow struct {
	Task      Task   `json:"task"`
	Left      int    `json:"left"`
	Width     int    `json:"width"`
	BarWidth  int    `json:"bar_width"`
	FillWidth int    `json:"fill_width"`
	ShowLabel bool   `json:"show_label"`
	ColorName string `json:"color_name"`
}
