package app

import (
	"context"
	"testing"

	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
)

func TestBuildChartLayout(t *testing.T) {
	tasks := []domain.Task{
		mustTask(t, "b", "Second", "2026-02-23", "2026-02-26", 50, "Design", ""),
		mustTask(t, "a", "First", "2026-02-21", "2026-02-24", 100, "", "Alex"),
	}
	today := domain.MustParseDate("2026-02-21")
	chart := BuildChart(tasks, today, timeline.PixelScale())

	if chart.Range.Min.String() != "2026-02-18" || chart.Range.TotalDays != 15 {
		t.Fatalf("unexpected range %+v", chart.Range)
	}
	if len(chart.Days) != 16 {
		t.Fatalf("expected 16 day columns, got %d", len(chart.Days))
	}
	if chart.GridWidth != 16*50 {
		t.Fatalf("unexpected grid width %d", chart.GridWidth)
	}
	if chart.Days[0].MonthLabel != "February 2026" || chart.Days[1].MonthLabel != "" {
		t.Fatalf("unexpected month labels %q %q", chart.Days[0].MonthLabel, chart.Days[1].MonthLabel)
	}
	if !chart.Days[3].Weekend || chart.Days[3].Weekday != "S" || chart.Days[3].Offset != 150 {
		t.Fatalf("unexpected day column %+v", chart.Days[3])
	}
	if chart.Days[11].MonthLabel != "March 2026" {
		t.Fatalf("expected March label on the 1st, got %q", chart.Days[11].MonthLabel)
	}

	if len(chart.Rows) != 2 || chart.Rows[0].Task.ID != "b" || chart.Rows[1].Task.ID != "a" {
		t.Fatalf("expected rows in list order, got %+v", chart.Rows)
	}
	if chart.Rows[0].Bar.Left != 250 || chart.Rows[0].Bar.Width != 200 || chart.Rows[0].Bar.FillWidth != 95 {
		t.Fatalf("unexpected bar %+v", chart.Rows[0].Bar)
	}
	if chart.Rows[0].Color.Name != "bg-violet-500" || chart.Rows[1].Color != timeline.Neutral {
		t.Fatalf("unexpected colors %q %q", chart.Rows[0].Color.Name, chart.Rows[1].Color.Name)
	}
	if !chart.ShowToday || chart.TodayX != 175 {
		t.Fatalf("unexpected today marker %d %v", chart.TodayX, chart.ShowToday)
	}
}

func TestBuildChartEmpty(t *testing.T) {
	today := domain.MustParseDate("2026-02-21")
	chart := BuildChart(nil, today, timeline.PixelScale())
	if chart.Range.Min != today || chart.Range.TotalDays != 30 {
		t.Fatalf("unexpected empty range %+v", chart.Range)
	}
	if len(chart.Rows) != 0 || len(chart.Days) != 31 {
		t.Fatalf("unexpected empty chart rows=%d days=%d", len(chart.Rows), len(chart.Days))
	}
	if !chart.ShowToday || chart.TodayX != 25 {
		t.Fatalf("expected today marker in first column, got %d %v", chart.TodayX, chart.ShowToday)
	}
}

func TestServiceChartUsesFilteredTasks(t *testing.T) {
	repo := newFakeRepo(filterFixture(t)...)
	svc := NewService(repo, sequenceIDs(), fixedClock(), ServiceConfig{})
	chart, err := svc.Chart(context.Background(), Filter{Category: "Marketing"}, timeline.CellScale(4))
	if err != nil {
		t.Fatalf("Chart() error = %v", err)
	}
	if len(chart.Rows) != 1 || chart.Rows[0].Task.ID != "4" {
		t.Fatalf("expected only the marketing row, got %+v", chart.Rows)
	}
	if chart.Range.Min.String() != "2026-02-02" {
		t.Fatalf("expected range from filtered tasks, got %s", chart.Range.Min)
	}
	if chart.Today.String() != "2026-02-21" {
		t.Fatalf("unexpected today %s", chart.Today)
	}
}
