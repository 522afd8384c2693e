package timeline

import "github.com/hylla/gengantt/internal/domain"

// Scale maps days onto a horizontal unit (pixels, terminal cells).
type Scale struct {
	DayWidth      int
	Inset         int
	MinBarWidth   int
	LabelMinWidth int
}

// PixelScale is the browser-era 50px-per-day layout, kept for exported chart layouts.
func PixelScale() Scale {
	return Scale{DayWidth: 50, Inset: 10, MinBarWidth: 10, LabelMinWidth: 60}
}

// CellScale is a terminal layout with dayWidth cells per day.
func CellScale(dayWidth int) Scale {
	if dayWidth < 2 {
		dayWidth = 2
	}
	return Scale{DayWidth: dayWidth, Inset: 1, MinBarWidth: 1, LabelMinWidth: 6}
}

// LeftOffset is the distance from origin to date.
// No clamping is done: dates before origin yield negative offsets.
func (s Scale) LeftOffset(origin, date domain.Date) int {
	return date.DaysSince(origin) * s.DayWidth
}

// Width covers start through end inclusive.
func (s Scale) Width(start, end domain.Date) int {
	return (end.DaysSince(start) + 1) * s.DayWidth
}

// BarWidth is Width shrunk by the inset, never below MinBarWidth.
func (s Scale) BarWidth(start, end domain.Date) int {
	return max(s.Width(start, end)-s.Inset, s.MinBarWidth)
}

// GridWidth is the full width of dayCount columns.
func (s Scale) GridWidth(dayCount int) int {
	return dayCount * s.DayWidth
}

// Bar is the horizontal placement of one task.
type Bar struct {
	Left      int
	Width     int
	BarWidth  int
	FillWidth int
	ShowLabel bool
}

// Place positions task inside r.
func (s Scale) Place(r Range, task domain.Task) Bar {
	width := s.Width(task.StartDate, task.EndDate)
	barWidth := s.BarWidth(task.StartDate, task.EndDate)
	return Bar{
		Left:      s.LeftOffset(r.Min, task.StartDate),
		Width:     width,
		BarWidth:  barWidth,
		FillWidth: barWidth * task.Progress / domain.ProgressComplete,
		ShowLabel: width > s.LabelMinWidth,
	}
}

// TodayMarker returns the x position of the today line, centered in its day column.
// ok is false when today falls outside r or past the last column.
func (s Scale) TodayMarker(r Range, dayCount int, today domain.Date) (x int, ok bool) {
	if !r.Contains(today) {
		return 0, false
	}
	offset := s.LeftOffset(r.Min, today)
	if offset >= s.GridWidth(dayCount) {
		return 0, false
	}
	return offset + s.DayWidth/2, true
}
