package domain

import (
	"strings"
	"time"
)

// Unassigned is the grouping label for tasks without an assignee.
const Unassigned = "Unassigned"

// Uncategorized is the grouping label for tasks with an empty category.
const Uncategorized = "Uncategorized"

// Progress bounds.
const (
	ProgressMin      = 0
	ProgressComplete = 100
)

// Task is one bar on the chart.
type Task struct {
	ID        string
	Title     string
	StartDate Date
	EndDate   Date
	Progress  int
	Category  string
	Assignee  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskInput carries raw task fields as entered by a user or a transport.
type TaskInput struct {
	ID        string
	Title     string
	StartDate string
	EndDate   string
	Progress  int
	Category  string
	Assignee  string
}

type taskFields struct {
	title     string
	startDate Date
	endDate   Date
	progress  int
	category  string
	assignee  string
}

// NewTask validates in and builds a task stamped with now.
func NewTask(in TaskInput, now time.Time) (Task, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return Task{}, ErrInvalidID
	}
	fields, err := validateTaskInput(in)
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        id,
		CreatedAt: now.UTC(),
	}
	t.apply(fields, now)
	return t, nil
}

// Update replaces every editable field. ID and CreatedAt are kept.
func (t *Task) Update(in TaskInput, now time.Time) error {
	fields, err := validateTaskInput(in)
	if err != nil {
		return err
	}
	t.apply(fields, now)
	return nil
}

// ToggleComplete flips progress between 100 and 0.
func (t *Task) ToggleComplete(now time.Time) {
	if t.IsComplete() {
		t.Progress = ProgressMin
	} else {
		t.Progress = ProgressComplete
	}
	t.UpdatedAt = now.UTC()
}

// IsComplete reports whether progress is exactly 100.
func (t Task) IsComplete() bool {
	return t.Progress == ProgressComplete
}

// EffectiveCategory returns the category or Uncategorized when blank.
func (t Task) EffectiveCategory() string {
	if t.Category == "" {
		return Uncategorized
	}
	return t.Category
}

// EffectiveAssignee returns the assignee or Unassigned when blank.
func (t Task) EffectiveAssignee() string {
	if t.Assignee == "" {
		return Unassigned
	}
	return t.Assignee
}

// DurationDays counts calendar days covered by the task, end date inclusive.
func (t Task) DurationDays() int {
	return t.EndDate.DaysSince(t.StartDate) + 1
}

// Input converts the task back into its editable form.
func (t Task) Input() TaskInput {
	return TaskInput{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: t.StartDate.String(),
		EndDate:   t.EndDate.String(),
		Progress:  t.Progress,
		Category:  t.Category,
		Assignee:  t.Assignee,
	}
}

func (t *Task) apply(f taskFields, now time.Time) {
	t.Title = f.title
	t.StartDate = f.startDate
	t.EndDate = f.endDate
	t.Progress = f.progress
	t.Category = f.category
	t.Assignee = f.assignee
	t.UpdatedAt = now.UTC()
}

func validateTaskInput(in TaskInput) (taskFields, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return taskFields{}, ErrInvalidTitle
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return taskFields{}, err
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return taskFields{}, err
	}
	if end.Before(start) {
		return taskFields{}, ErrInvalidDateRange
	}
	if in.Progress < ProgressMin || in.Progress > ProgressComplete {
		return taskFields{}, ErrInvalidProgress
	}
	return taskFields{
		title:     title,
		startDate: start,
		endDate:   end,
		progress:  in.Progress,
		category:  strings.TrimSpace(in.Category),
		assignee:  strings.TrimSpace(in.Assignee),
	}, nil
}
