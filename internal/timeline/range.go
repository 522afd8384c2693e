// Package timeline converts task date ranges into positions on a day grid.
package timeline

import "github.com/hylla/gengantt/internal/domain"

// Padding applied around the task span, and the window used when there are no tasks.
const (
	LeadPaddingDays  = 3
	TrailPaddingDays = 7
	EmptyWindowDays  = 30
)

// Range is the visible date window of a chart.
type Range struct {
	Min       domain.Date
	Max       domain.Date
	TotalDays int
}

// ComputeRange returns the padded window covering every task.
// With no tasks it returns [today, today+30].
func ComputeRange(tasks []domain.Task, today domain.Date) Range {
	if len(tasks) == 0 {
		return Range{
			Min:       today,
			Max:       today.AddDays(EmptyWindowDays),
			TotalDays: EmptyWindowDays,
		}
	}

	lo := tasks[0].StartDate
	hi := tasks[0].EndDate
	for _, t := range tasks[1:] {
		if t.StartDate.Before(lo) {
			lo = t.StartDate
		}
		if t.EndDate.After(hi) {
			hi = t.EndDate
		}
	}

	minDate := lo.AddDays(-LeadPaddingDays)
	maxDate := hi.AddDays(TrailPaddingDays)
	return Range{
		Min:       minDate,
		Max:       maxDate,
		TotalDays: maxDate.DaysSince(minDate),
	}
}

// Contains reports whether d lies inside the window, bounds inclusive.
func (r Range) Contains(d domain.Date) bool {
	return !d.Before(r.Min) && !d.After(r.Max)
}
