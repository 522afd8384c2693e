package timeline

import (
	"fmt"
	"time"

	"github.com/hylla/gengantt/internal/domain"
)

// Days enumerates Min..Min+TotalDays inclusive, so the slice has TotalDays+1 entries.
func Days(r Range) []domain.Date {
	if r.TotalDays < 0 {
		return nil
	}
	out := make([]domain.Date, 0, r.TotalDays+1)
	for i := 0; i <= r.TotalDays; i++ {
		out = append(out, r.Min.AddDays(i))
	}
	return out
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(d domain.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MonthLabel returns "January 2026" style labels for the first column and for the 1st of each month.
func MonthLabel(d domain.Date, index int) (string, bool) {
	if index != 0 && d.Day() != 1 {
		return "", false
	}
	return fmt.Sprintf("%s %d", d.Month(), d.Year()), true
}

// NarrowWeekday returns the one-letter weekday initial.
func NarrowWeekday(d domain.Date) string {
	return d.Weekday().String()[:1]
}
