package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateComponents(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 9 {
		t.Fatalf("unexpected components %d-%d-%d", d.Year(), d.Month(), d.Day())
	}
	if d.String() != "2026-03-09" {
		t.Fatalf("unexpected string %q", d.String())
	}
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "2026-3-9", "2026/03/09", "2026-02-30", "2026-13-01", "20260309", "abcd-ef-gh", "+024-01-01", "2024-+1-01", "2024-01-+1", "-024-01-01"} {
		if _, err := ParseDate(raw); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) error = %v, want ErrInvalidDate", raw, err)
		}
	}
}

func TestDateArithmeticAcrossMonthAndDST(t *testing.T) {
	start := MustParseDate("2026-03-07")
	end := start.AddDays(3)
	if end.String() != "2026-03-10" {
		t.Fatalf("AddDays() = %s, want 2026-03-10", end)
	}
	if got := end.DaysSince(start); got != 3 {
		t.Fatalf("DaysSince() = %d, want 3", got)
	}
	if got := MustParseDate("2026-02-27").AddDays(3).String(); got != "2026-03-02" {
		t.Fatalf("month rollover = %s", got)
	}
	if got := start.DaysSince(end); got != -3 {
		t.Fatalf("negative DaysSince() = %d, want -3", got)
	}
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	at := time.Date(2026, 1, 1, 2, 0, 0, 0, loc)
	if got := DateOf(at).String(); got != "2026-01-01" {
		t.Fatalf("DateOf() = %s, want 2026-01-01", got)
	}
}

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2026-10-19")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "2026-10-19" {
		t.Fatalf("unexpected text %q", text)
	}
	if err := d.UnmarshalText([]byte("nope")); err == nil {
		t.Fatal("expected error for invalid text")
	}
}

func TestNewTaskValidation(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	valid := TaskInput{ID: "t1", Title: "Ship", StartDate: "2026-02-21", EndDate: "2026-02-24", Progress: 40, Category: "Dev"}

	cases := []struct {
		name   string
		mutate func(*TaskInput)
		want   error
	}{
		{name: "missing id", mutate: func(in *TaskInput) { in.ID = " " }, want: ErrInvalidID},
		{name: "blank title", mutate: func(in *TaskInput) { in.Title = "  " }, want: ErrInvalidTitle},
		{name: "bad start", mutate: func(in *TaskInput) { in.StartDate = "tomorrow" }, want: ErrInvalidDate},
		{name: "bad end", mutate: func(in *TaskInput) { in.EndDate = "2026-02-31" }, want: ErrInvalidDate},
		{name: "end before start", mutate: func(in *TaskInput) { in.EndDate = "2026-02-20" }, want: ErrInvalidDateRange},
		{name: "negative progress", mutate: func(in *TaskInput) { in.Progress = -1 }, want: ErrInvalidProgress},
		{name: "progress over 100", mutate: func(in *TaskInput) { in.Progress = 101 }, want: ErrInvalidProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if _, err := NewTask(in, now); !errors.Is(err, tc.want) {
				t.Fatalf("NewTask() error = %v, want %v", err, tc.want)
			}
		})
	}

	task, err := NewTask(valid, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.DurationDays() != 4 {
		t.Fatalf("DurationDays() = %d, want 4", task.DurationDays())
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps %v %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestNewTaskSameDayAndTrimming(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(TaskInput{
		ID:        "t1",
		Title:     "  Kickoff  ",
		StartDate: "2026-02-21",
		EndDate:   "2026-02-21",
		Category:  "  Planning ",
		Assignee:  "   ",
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Title != "Kickoff" || task.Category != "Planning" {
		t.Fatalf("unexpected trimmed fields %#v", task)
	}
	if task.EffectiveCategory() != task.Category {
		t.Fatalf("EffectiveCategory() = %q, want %q", task.EffectiveCategory(), task.Category)
	}
	if blank := (Task{}); blank.EffectiveCategory() != Uncategorized {
		t.Fatalf("blank EffectiveCategory() = %q, want %q", blank.EffectiveCategory(), Uncategorized)
	}
	if task.EffectiveAssignee() != Unassigned {
		t.Fatalf("EffectiveAssignee() = %q, want %q", task.EffectiveAssignee(), Unassigned)
	}
}

func TestTaskToggleComplete(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(TaskInput{ID: "t1", Title: "A", StartDate: "2026-02-21", EndDate: "2026-02-22", Progress: 45}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	later := now.Add(time.Hour)
	task.ToggleComplete(later)
	if task.Progress != 100 || !task.IsComplete() {
		t.Fatalf("expected complete task, got progress %d", task.Progress)
	}
	if !task.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", task.UpdatedAt, later)
	}
	task.ToggleComplete(later)
	if task.Progress != 0 {
		t.Fatalf("expected progress reset to 0, got %d", task.Progress)
	}
}

func TestTaskUpdateKeepsIdentity(t *testing.T) {
	created := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	task, err := NewTask(TaskInput{ID: "t1", Title: "A", StartDate: "2026-02-21", EndDate: "2026-02-22"}, created)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	in := task.Input()
	in.ID = "ignored"
	in.Title = "B"
	in.Assignee = "Sarah"
	if err := task.Update(in, created.Add(time.Minute)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if task.ID != "t1" || !task.CreatedAt.Equal(created) {
		t.Fatalf("identity changed: %#v", task)
	}
	if task.Title != "B" || task.EffectiveAssignee() != "Sarah" {
		t.Fatalf("unexpected fields %#v", task)
	}

	in.EndDate = "2026-02-01"
	if err := task.Update(in, created); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("Update() error = %v, want ErrInvalidDateRange", err)
	}
	if task.Title != "B" {
		t.Fatalf("failed update mutated task %#v", task)
	}
}
