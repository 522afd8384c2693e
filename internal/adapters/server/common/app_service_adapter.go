package common

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
)

// MutationLogger receives one structured entry per successful mutation.
type MutationLogger interface {
	Info(msg string, keyvals ...any)
}

// AppServiceAdapter maps transport contracts onto app.Service task APIs.
type AppServiceAdapter struct {
	service  *app.Service
	validate *validator.Validate
	logger   MutationLogger
}

// NewAppServiceAdapter builds one common adapter over an app.Service instance.
// logger may be nil.
func NewAppServiceAdapter(service *app.Service, logger MutationLogger) *AppServiceAdapter {
	return &AppServiceAdapter{
		service:  service,
		validate: newValidator(),
		logger:   logger,
	}
}

// newValidator reports field errors under their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ListTasks returns the filtered task list in list order.
func (a *AppServiceAdapter) ListTasks(ctx context.Context, in ListTasksRequest) ([]Task, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	tasks, err := a.service.FilteredTasks(ctx, toFilter(in))
	if err != nil {
		return nil, mapAppError("list tasks", err)
	}
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTask(task))
	}
	return out, nil
}

// GetTask returns one task by id.
func (a *AppServiceAdapter) GetTask(ctx context.Context, taskID string) (Task, error) {
	if err := a.ready(); err != nil {
		return Task{}, err
	}
	task, err := a.service.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, mapAppError("get task", err)
	}
	return toTask(task), nil
}

// SaveTask validates the request shape and creates or updates the task.
func (a *AppServiceAdapter) SaveTask(ctx context.Context, in SaveTaskRequest) (SaveTaskResult, error) {
	if err := a.ready(); err != nil {
		return SaveTaskResult{}, err
	}
	in = normalizeSaveTaskRequest(in)
	if err := a.validate.StructCtx(ctx, in); err != nil {
		return SaveTaskResult{}, fmt.Errorf("save task: %w", errors.Join(ErrInvalidRequest, describeValidation(err)))
	}

	task, err := a.service.SaveTask(ctx, domain.TaskInput{
		ID:        in.ID,
		Title:     in.Title,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Progress:  in.Progress,
		Category:  in.Category,
		Assignee:  in.Assignee,
	})
	if err != nil {
		return SaveTaskResult{}, mapAppError("save task", err)
	}
	created := in.ID == ""
	if created {
		a.logMutation("task created", "task_id", task.ID, "title", task.Title)
	} else {
		a.logMutation("task updated", "task_id", task.ID, "title", task.Title)
	}
	return SaveTaskResult{Task: toTask(task), Created: created}, nil
}

// DeleteTask removes a task; unknown ids succeed silently.
func (a *AppServiceAdapter) DeleteTask(ctx context.Context, taskID string) error {
	if err := a.ready(); err != nil {
		return err
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return fmt.Errorf("delete task: %w", errors.Join(ErrInvalidRequest, domain.ErrInvalidID))
	}
	if err := a.service.DeleteTask(ctx, taskID); err != nil {
		return mapAppError("delete task", err)
	}
	a.logMutation("task deleted", "task_id", taskID)
	return nil
}

// ToggleComplete flips the task between 0% and 100%.
func (a *AppServiceAdapter) ToggleComplete(ctx context.Context, taskID string) (Task, error) {
	if err := a.ready(); err != nil {
		return Task{}, err
	}
	task, err := a.service.ToggleComplete(ctx, taskID)
	if err != nil {
		return Task{}, mapAppError("toggle task", err)
	}
	a.logMutation("task toggled", "task_id", task.ID, "progress", task.Progress)
	return toTask(task), nil
}

// ChartLayout lays the filtered tasks out on the pixel scale.
func (a *AppServiceAdapter) ChartLayout(ctx context.Context, in ListTasksRequest) (ChartLayout, error) {
	if err := a.ready(); err != nil {
		return ChartLayout{}, err
	}
	chart, err := a.service.Chart(ctx, toFilter(in), timeline.PixelScale())
	if err != nil {
		return ChartLayout{}, mapAppError("chart layout", err)
	}
	return toChartLayout(chart), nil
}

// FilterOptions returns the category and assignee selector choices.
func (a *AppServiceAdapter) FilterOptions(ctx context.Context) (FilterOptions, error) {
	if err := a.ready(); err != nil {
		return FilterOptions{}, err
	}
	opts, err := a.service.FilterOptions(ctx)
	if err != nil {
		return FilterOptions{}, mapAppError("filter options", err)
	}
	return FilterOptions{
		Categories: opts.Categories,
		Assignees:  opts.Assignees,
	}, nil
}

func (a *AppServiceAdapter) ready() error {
	if a == nil || a.service == nil {
		return fmt.Errorf("app service adapter is not configured: %w", ErrServiceUnavailable)
	}
	return nil
}

func (a *AppServiceAdapter) logMutation(msg string, keyvals ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Info(msg, keyvals...)
}

func normalizeSaveTaskRequest(in SaveTaskRequest) SaveTaskRequest {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.Category = strings.TrimSpace(in.Category)
	in.Assignee = strings.TrimSpace(in.Assignee)
	return in
}

// describeValidation flattens validator field errors into one readable error.
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "datetime":
			parts = append(parts, fe.Field()+" must be YYYY-MM-DD")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s violates %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

func toFilter(in ListTasksRequest) app.Filter {
	return app.Filter{
		Search:   strings.TrimSpace(in.Search),
		Category: strings.TrimSpace(in.Category),
		Assignee: strings.TrimSpace(in.Assignee),
	}
}

func toTask(task domain.Task) Task {
	return Task{
		ID:                task.ID,
		Title:             task.Title,
		StartDate:         task.StartDate.String(),
		EndDate:           task.EndDate.String(),
		Progress:          task.Progress,
		Category:          task.Category,
		Assignee:          task.Assignee,
		EffectiveAssignee: task.EffectiveAssignee(),
		Complete:          task.IsComplete(),
		DurationDays:      task.DurationDays(),
		Color:             timeline.CategoryColor(task.Category).Hex,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

func toChartLayout(chart app.Chart) ChartLayout {
	out := ChartLayout{
		Min:       chart.Range.Min.String(),
		Max:       chart.Range.Max.String(),
		TotalDays: chart.Range.TotalDays,
		DayWidth:  chart.Scale.DayWidth,
		GridWidth: chart.GridWidth,
		Today:     chart.Today.String(),
		Days:      make([]ChartDay, 0, len(chart.Days)),
		Rows:      make([]ChartRow, 0, len(chart.Rows)),
	}
	if chart.ShowToday {
		x := chart.TodayX
		out.TodayX = &x
	}
	for _, day := range chart.Days {
		out.Days = append(out.Days, ChartDay{
			Date:       day.Date.String(),
			Offset:     day.Offset,
			Weekend:    day.Weekend,
			MonthLabel: day.MonthLabel,
			Weekday:    day.Weekday,
		})
	}
	for _, row := range chart.Rows {
		out.Rows = append(out.Rows, ChartRow{
			Task:      toTask(row.Task),
			Left:      row.Bar.Left,
			Width:     row.Bar.Width,
			BarWidth:  row.Bar.BarWidth,
			FillWidth: row.Bar.FillWidth,
			ShowLabel: row.Bar.ShowLabel,
			ColorName: row.Color.Name,
		})
	}
	return out
}

// mapAppError maps app/domain errors into transport sentinels.
func mapAppError(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrNotFound, err))
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidProgress):
		return fmt.Errorf("%s: %w", operation, errors.Join(ErrInvalidRequest, err))
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}
