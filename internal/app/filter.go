package app

import (
	"slices"
	"strings"

	"github.com/hylla/gengantt/internal/domain"
)

// FilterAll disables a category or assignee filter.
const FilterAll = "All"

// Filter selects tasks by title search, category, and effective assignee.
// Empty Category or Assignee behaves like FilterAll.
type Filter struct {
	Search   string
	Category string
	Assignee string
}

// FilterOptions are the choices offered by the category and assignee selectors.
type FilterOptions struct {
	Categories []string
	Assignees  []string
}

// IsZero reports whether the filter passes every task.
func (f Filter) IsZero() bool {
	return f.Search == "" && isAll(f.Category) && isAll(f.Assignee)
}

// Matches reports whether task passes all three predicates.
func (f Filter) Matches(task domain.Task) bool {
	return f.matchesSearch(task) && f.matchesCategory(task) && f.matchesAssignee(task)
}

// Apply keeps matching tasks in their original order.
func (f Filter) Apply(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task) {
			out = append(out, task)
		}
	}
	return out
}

func (f Filter) matchesSearch(task domain.Task) bool {
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), strings.ToLower(f.Search))
}

func (f Filter) matchesCategory(task domain.Task) bool {
	return isAll(f.Category) || task.EffectiveCategory() == f.Category
}

func (f Filter) matchesAssignee(task domain.Task) bool {
	return isAll(f.Assignee) || task.EffectiveAssignee() == f.Assignee
}

func isAll(value string) bool {
	return value == "" || value == FilterAll
}

// CategoryOptions returns "All" followed by the sorted distinct effective categories.
func CategoryOptions(tasks []domain.Task) []string {
	values := make([]string, 0, len(tasks))
	for _, task := range tasks {
		values = append(values, task.EffectiveCategory())
	}
	return withAll(values)
}

// AssigneeOptions returns "All" followed by the sorted distinct effective assignees.
func AssigneeOptions(tasks []domain.Task) []string {
	values := make([]string, 0, len(tasks))
	for _, task := range tasks {
		values = append(values, task.EffectiveAssignee())
	}
	return withAll(values)
}

func withAll(values []string) []string {
	slices.Sort(values)
	values = slices.Compact(values)
	return append([]string{FilterAll}, values...)
}

// Cycle returns the option after current, wrapping around. Unknown values restart at the first option.
func Cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return FilterAll
	}
	idx := slices.Index(options, current)
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+step)%n+n)%n]
}
