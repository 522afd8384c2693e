package app

import (
	"context"

	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
)

// ChartDay is one header/grid column.
type ChartDay struct {
	Date       domain.Date
	Offset     int
	Weekend    bool
	MonthLabel string
	Weekday    string
}

// ChartRow pairs a task with its placement and color. Rows keep task list order.
type ChartRow struct {
	Task  domain.Task
	Bar   timeline.Bar
	Color timeline.Color
}

// Chart is the full layout of a Gantt view for one scale.
type Chart struct {
	Range     timeline.Range
	Scale     timeline.Scale
	Days      []ChartDay
	Rows      []ChartRow
	GridWidth int
	Today     domain.Date
	TodayX    int
	ShowToday bool
}

// BuildChart lays tasks out on scale. The range is computed from the given tasks only.
func BuildChart(tasks []domain.Task, today domain.Date, scale timeline.Scale) Chart {
	r := timeline.ComputeRange(tasks, today)
	dates := timeline.Days(r)

	days := make([]ChartDay, 0, len(dates))
	for i, d := range dates {
		label, _ := timeline.MonthLabel(d, i)
		days = append(days, ChartDay{
			Date:       d,
			Offset:     scale.LeftOffset(r.Min, d),
			Weekend:    timeline.IsWeekend(d),
			MonthLabel: label,
			Weekday:    timeline.NarrowWeekday(d),
		})
	}

	rows := make([]ChartRow, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, ChartRow{
			Task:  task,
			Bar:   scale.Place(r, task),
			Color: timeline.CategoryColor(task.Category),
		})
	}

	todayX, showToday := scale.TodayMarker(r, len(dates), today)
	return Chart{
		Range:     r,
		Scale:     scale,
		Days:      days,
		Rows:      rows,
		GridWidth: scale.GridWidth(len(dates)),
		Today:     today,
		TodayX:    todayX,
		ShowToday: showToday,
	}
}

// Chart builds the layout of the tasks passing f.
func (s *Service) Chart(ctx context.Context, f Filter, scale timeline.Scale) (Chart, error) {
	tasks, err := s.FilteredTasks(ctx, f)
	if err != nil {
		return Chart{}, err
	}
	return BuildChart(tasks, s.Today(), scale), nil
}
