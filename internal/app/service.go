package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/gengantt/internal/domain"
)

// Defaults applied when ServiceConfig leaves a field empty.
const (
	DefaultCategory     = "Development"
	DefaultDurationDays = 5
)

const maxIDAttempts = 8

// DefaultSuggestedCategories are offered in the category field alongside existing categories.
var DefaultSuggestedCategories = []string{"Development", "Design", "Marketing"}

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	DefaultCategory     string
	DefaultDurationDays int
	SuggestedCategories []string
	SeedSample          bool
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the task list. Every mutation goes through its command set.
type Service struct {
	repo            Repository
	idGen           IDGenerator
	clock           Clock
	defaultCategory string
	durationDays    int
	suggestions     []string
	seedSample      bool
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	category := strings.TrimSpace(cfg.DefaultCategory)
	if category == "" {
		category = DefaultCategory
	}
	duration := cfg.DefaultDurationDays
	if duration <= 0 {
		duration = DefaultDurationDays
	}
	suggestions := uniqueNonEmpty(cfg.SuggestedCategories)
	if len(suggestions) == 0 {
		suggestions = append([]string(nil), DefaultSuggestedCategories...)
	}

	return &Service{
		repo:            repo,
		idGen:           idGen,
		clock:           clock,
		defaultCategory: category,
		durationDays:    duration,
		suggestions:     suggestions,
		seedSample:      cfg.SeedSample,
	}
}

// Today returns the calendar date of the service clock in local time.
func (s *Service) Today() domain.Date {
	return domain.DateOf(s.clock())
}

// ListTasks returns every task in list order.
func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.repo.ListTasks(ctx)
}

// GetTask returns one task by id.
func (s *Service) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return domain.Task{}, domain.ErrInvalidID
	}
	return s.repo.GetTask(ctx, taskID)
}

// SaveTask creates a task when in.ID is empty and updates the matching task otherwise.
func (s *Service) SaveTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	taskID := strings.TrimSpace(in.ID)
	if taskID == "" {
		return s.CreateTask(ctx, in)
	}
	return s.UpdateTask(ctx, taskID, in)
}

// CreateTask appends a new task with a freshly generated id. Any id in in is ignored.
func (s *Service) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	taskID, err := s.nextID(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	in.ID = taskID
	task, err := domain.NewTask(in, s.clock())
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces the editable fields of the task with taskID.
func (s *Service) UpdateTask(ctx context.Context, taskID string, in domain.TaskInput) (domain.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := task.Update(in, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task. Deleting an unknown id is a no-op.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil
	}
	if err := s.repo.DeleteTask(ctx, taskID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// ToggleComplete flips a task between 100% and 0%.
func (s *Service) ToggleComplete(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.ToggleComplete(s.clock())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// EnsureSampleTasks seeds the two starter tasks when seeding is enabled and the list is empty.
func (s *Service) EnsureSampleTasks(ctx context.Context) ([]domain.Task, error) {
	if !s.seedSample {
		return nil, nil
	}
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return nil, nil
	}

	today := s.Today()
	samples := []domain.TaskInput{
		{
			Title:     "Project Setup",
			StartDate: today.String(),
			EndDate:   today.AddDays(3).String(),
			Progress:  domain.ProgressComplete,
			Category:  "Planning",
			Assignee:  "Alex",
		},
		{
			Title:     "UI Design",
			StartDate: today.AddDays(2).String(),
			EndDate:   today.AddDays(7).String(),
			Progress:  45,
			Category:  "Design",
			Assignee:  "Sarah",
		},
	}
	out := make([]domain.Task, 0, len(samples))
	for _, in := range samples {
		task, err := s.CreateTask(ctx, in)
		if err != nil {
			return out, fmt.Errorf("seed %q: %w", in.Title, err)
		}
		out = append(out, task)
	}
	return out, nil
}

// NewTaskDraft returns the prefilled input used by the create form.
func (s *Service) NewTaskDraft() domain.TaskInput {
	today := s.Today()
	return domain.TaskInput{
		StartDate: today.String(),
		EndDate:   today.AddDays(s.durationDays).String(),
		Progress:  domain.ProgressMin,
		Category:  s.defaultCategory,
	}
}

// CategorySuggestions lists existing categories in first-seen order followed by the configured suggestions.
func (s *Service) CategorySuggestions(ctx context.Context) ([]string, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(tasks)+len(s.suggestions))
	for _, task := range tasks {
		values = append(values, task.Category)
	}
	values = append(values, s.suggestions...)
	return uniqueNonEmpty(values), nil
}

// FilteredTasks returns the tasks passing f, in list order.
func (s *Service) FilteredTasks(ctx context.Context, f Filter) ([]domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(tasks), nil
}

// FilterOptions derives the category and assignee choices from the unfiltered list.
func (s *Service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	return FilterOptions{
		Categories: CategoryOptions(tasks),
		Assignees:  AssigneeOptions(tasks),
	}, nil
}

// nextID draws ids until one is not already taken.
func (s *Service) nextID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		taskID := strings.TrimSpace(s.idGen())
		if taskID == "" {
			return "", domain.ErrInvalidID
		}
		_, err := s.repo.GetTask(ctx, taskID)
		switch {
		case errors.Is(err, ErrNotFound):
			return taskID, nil
		case err != nil:
			return "", err
		}
	}
	return "", ErrIDExhausted
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
