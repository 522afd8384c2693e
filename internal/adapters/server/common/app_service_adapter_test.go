package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hylla/gengantt/internal/adapters/storage/memory"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.messages = append(l.messages, msg)
}

// newSeededAdapter returns an adapter over the two sample tasks, ids s1 and s2.
func newSeededAdapter(t *testing.T) (*AppServiceAdapter, *recordingLogger) {
	t.Helper()
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
	clock := func() time.Time { return time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC) }
	svc := app.NewService(memory.New(), ids, clock, app.ServiceConfig{SeedSample: true})
	if _, err := svc.EnsureSampleTasks(context.Background()); err != nil {
		t.Fatalf("EnsureSampleTasks() error = %v", err)
	}
	logger := &recordingLogger{}
	return NewAppServiceAdapter(svc, logger), logger
}

func TestAppServiceAdapterListAndFilter(t *testing.T) {
	adapter, _ := newSeededAdapter(t)
	ctx := context.Background()

	all, err := adapter.ListTasks(ctx, ListTasksRequest{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(all) != 2 || all[0].Title != "Project Setup" || all[1].Title != "UI Design" {
		t.Fatalf("unexpected tasks %#v", all)
	}
	if !all[0].Complete || all[0].StartDate != "2026-02-21" || all[0].EndDate != "2026-02-24" || all[0].DurationDays != 4 {
		t.Fatalf("unexpected first task view %#v", all[0])
	}

	got, err := adapter.ListTasks(ctx, ListTasksRequest{Search: "ui", Category: "All", Assignee: "Sarah"})
	if err != nil {
		t.Fatalf("ListTasks(filtered) error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("expected only UI Design, got %#v", got)
	}

	opts, err := adapter.FilterOptions(ctx)
	if err != nil {
		t.Fatalf("FilterOptions() error = %v", err)
	}
	if strings.Join(opts.Categories, ",") != "All,Design,Planning" {
		t.Fatalf("unexpected categories %v", opts.Categories)
	}
	if strings.Join(opts.Assignees, ",") != "All,Alex,Sarah" {
		t.Fatalf("unexpected assignees %v", opts.Assignees)
	}
}

func TestAppServiceAdapterSaveCreatesAndUpdates(t *testing.T) {
	adapter, logger := newSeededAdapter(t)
	ctx := context.Background()

	created, err := adapter.SaveTask(ctx, SaveTaskRequest{
		Title:     "  Launch  ",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-03",
		Progress:  10,
		Category:  "Marketing",
	})
	if err != nil {
		t.Fatalf("SaveTask(create) error = %v", err)
	}
	if !created.Created || created.Task.ID != "s3" || created.Task.Title != "Launch" {
		t.Fatalf("unexpected create result %#v", created)
	}
	if created.Task.EffectiveAssignee != domain.Unassigned {
		t.Fatalf("expected Unassigned, got %q", created.Task.EffectiveAssignee)
	}

	updated, err := adapter.SaveTask(ctx, SaveTaskRequest{
		ID:        "s3",
		Title:     "Launch v2",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-05",
		Progress:  20,
		Category:  "Marketing",
		Assignee:  "Kim",
	})
	if err != nil {
		t.Fatalf("SaveTask(update) error = %v", err)
	}
	if updated.Created || updated.Task.Title != "Launch v2" || updated.Task.Assignee != "Kim" {
		t.Fatalf("unexpected update result %#v", updated)
	}

	tasks, _ := adapter.ListTasks(ctx, ListTasksRequest{})
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks after create+update, got %d", len(tasks))
	}
	if strings.Join(logger.messages, ",") != "task created,task updated" {
		t.Fatalf("unexpected mutation log %v", logger.messages)
	}
}

func TestAppServiceAdapterSaveRejectsInvalidInput(t *testing.T) {
	adapter, logger := newSeededAdapter(t)
	ctx := context.Background()

	cases := map[string]SaveTaskRequest{
		"missing title": {StartDate: "2026-03-01", EndDate: "2026-03-01"},
		"bad date":      {Title: "x", StartDate: "03/01/2026", EndDate: "2026-03-01"},
		"progress":      {Title: "x", StartDate: "2026-03-01", EndDate: "2026-03-01", Progress: 101},
		"range":         {Title: "x", StartDate: "2026-03-05", EndDate: "2026-03-01"},
		"impossible":    {Title: "x", StartDate: "2026-02-30", EndDate: "2026-03-01"},
	}
	for name, req := range cases {
		if _, err := adapter.SaveTask(ctx, req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%s: expected ErrInvalidRequest, got %v", name, err)
		}
	}

	_, err := adapter.SaveTask(ctx, SaveTaskRequest{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "start_date is required") {
		t.Fatalf("expected json field name in validation error, got %v", err)
	}

	_, err = adapter.SaveTask(ctx, SaveTaskRequest{ID: "nope", Title: "x", StartDate: "2026-03-01", EndDate: "2026-03-01"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if len(logger.messages) != 0 {
		t.Fatalf("expected no mutation log entries, got %v", logger.messages)
	}
}

func TestAppServiceAdapterDeleteAndToggle(t *testing.T) {
	adapter, _ := newSeededAdapter(t)
	ctx := context.Background()

	toggled, err := adapter.ToggleComplete(ctx, "s2")
	if err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if toggled.Progress != 100 || !toggled.Complete {
		t.Fatalf("expected 100%%, got %#v", toggled)
	}
	if _, err := adapter.ToggleComplete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := adapter.DeleteTask(ctx, "missing"); err != nil {
		t.Fatalf("DeleteTask(missing) error = %v", err)
	}
	if err := adapter.DeleteTask(ctx, "s1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if err := adapter.DeleteTask(ctx, " "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank id, got %v", err)
	}
	if _, err := adapter.GetTask(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAppServiceAdapterChartLayout(t *testing.T) {
	adapter, _ := newSeededAdapter(t)

	layout, err := adapter.ChartLayout(context.Background(), ListTasksRequest{})
	if err != nil {
		t.Fatalf("ChartLayout() error = %v", err)
	}
	if layout.Min != "2026-02-18" || layout.Max != "2026-03-07" || layout.TotalDays != 17 {
		t.Fatalf("unexpected range %s..%s (%d)", layout.Min, layout.Max, layout.TotalDays)
	}
	if len(layout.Days) != 18 || layout.GridWidth != 900 || layout.DayWidth != 50 {
		t.Fatalf("unexpected grid %d days width %d", len(layout.Days), layout.GridWidth)
	}
	if layout.TodayX == nil || *layout.TodayX != 175 {
		t.Fatalf("expected today marker at 175, got %v", layout.TodayX)
	}
	row := layout.Rows[0]
	if row.Left != 150 || row.Width != 200 || row.BarWidth != 190 || row.FillWidth != 190 || !row.ShowLabel {
		t.Fatalf("unexpected first row %#v", row)
	}

	filtered, err := adapter.ChartLayout(context.Background(), ListTasksRequest{Category: "Design"})
	if err != nil {
		t.Fatalf("ChartLayout(filtered) error = %v", err)
	}
	if len(filtered.Rows) != 1 || filtered.Min != "2026-02-20" {
		t.Fatalf("expected range from filtered tasks, got %s with %d rows", filtered.Min, len(filtered.Rows))
	}
}

func TestAppServiceAdapterRequiresService(t *testing.T) {
	var adapter *AppServiceAdapter
	if _, err := adapter.ListTasks(context.Background(), ListTasksRequest{}); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}
