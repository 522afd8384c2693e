package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
)

// RenderOptions controls RenderChart output.
type RenderOptions struct {
	SidebarWidth int
	ScrollX      int
	Selected     int
	ShowWeekends bool
	ShowToday    bool

	// Width is the total output width; zero renders the full grid.
	Width int
	// Plain disables ANSI styling.
	Plain bool
}

// cellKind identifies how one grid cell is styled.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellWeekend
	cellToday
	cellFill
	cellRest
	cellLabel
)

type gridCell struct {
	r     rune
	kind  cellKind
	color timeline.Color
}

const (
	glyphDone    = "✓"
	glyphOpen    = "○"
	glyphFill    = '█'
	glyphRest    = '░'
	glyphToday   = '│'
	glyphWeekend = '·'
	sidebarSep   = "│"

	minSidebarTitle = 8
)

var (
	chartAccent = lipgloss.Color("62")
	chartMuted  = lipgloss.Color("241")
	chartDim    = lipgloss.Color("239")
	chartToday  = lipgloss.Color("203")
	chartShade  = lipgloss.Color("236")
	chartLabel  = lipgloss.Color("231")
)

// RenderChart draws chart as a sidebar of task titles next to a day grid.
func RenderChart(chart app.Chart, opts RenderOptions) string {
	sidebarWidth := max(12, opts.SidebarWidth)
	gridWidth := chart.GridWidth
	visible := gridWidth
	if opts.Width > 0 {
		visible = clamp(opts.Width-sidebarWidth-1, 1, gridWidth)
	}
	scrollX := clamp(opts.ScrollX, 0, max(0, gridWidth-visible))

	lines := make([]string, 0, len(chart.Rows)+4)
	lines = append(lines, chartHeaderLines(chart, opts, sidebarWidth, scrollX, visible)...)

	if len(chart.Rows) == 0 {
		lines = append(lines,
			"",
			styled(opts, lipgloss.NewStyle().Bold(true), "No tasks found."),
			styled(opts, lipgloss.NewStyle().Foreground(chartMuted), "Try adjusting your filters or add a new task."),
		)
		return strings.Join(lines, "\n")
	}

	for idx, row := range chart.Rows {
		cells := gridBackground(chart, opts)
		drawBar(cells, row)
		sidebar := renderSidebarCell(row, sidebarWidth, idx == opts.Selected, opts)
		lines = append(lines, sidebar+separator(opts)+renderCells(cells[scrollX:scrollX+visible], opts))
	}
	return strings.Join(lines, "\n")
}

// chartHeaderLines renders the month, day-number and weekday rows.
func chartHeaderLines(chart app.Chart, opts RenderOptions, sidebarWidth, scrollX, visible int) []string {
	dayWidth := chart.Scale.DayWidth
	months := []rune(strings.Repeat(" ", chart.GridWidth))
	numbers := []rune(strings.Repeat(" ", chart.GridWidth))
	weekdays := []rune(strings.Repeat(" ", chart.GridWidth))
	for _, day := range chart.Days {
		if day.MonthLabel != "" {
			writeRunes(months, day.Offset, day.MonthLabel)
		}
		num := fmt.Sprintf("%d", day.Date.Day())
		if len(num) > dayWidth {
			num = num[len(num)-dayWidth:]
		}
		writeRunes(numbers, day.Offset, num)
		writeRunes(weekdays, day.Offset, day.Weekday)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(chartAccent)
	mutedStyle := lipgloss.NewStyle().Foreground(chartMuted)
	blank := strings.Repeat(" ", sidebarWidth)
	window := func(rs []rune) string {
		return string(rs[scrollX : scrollX+visible])
	}
	return []string{
		styled(opts, titleStyle, padRight("Tasks", sidebarWidth)) + separator(opts) + styled(opts, titleStyle, window(months)),
		blank + separator(opts) + window(numbers),
		blank + separator(opts) + styled(opts, mutedStyle, window(weekdays)),
	}
}

// gridBackground returns one row of empty cells with weekend shading and the today line.
func gridBackground(chart app.Chart, opts RenderOptions) []gridCell {
	cells := make([]gridCell, chart.GridWidth)
	for i := range cells {
		cells[i] = gridCell{r: ' ', kind: cellEmpty}
	}
	if opts.ShowWeekends {
		for _, day := range chart.Days {
			if !day.Weekend {
				continue
			}
			for x := day.Offset; x < day.Offset+chart.Scale.DayWidth && x < len(cells); x++ {
				cells[x] = gridCell{r: glyphWeekend, kind: cellWeekend}
			}
		}
	}
	if opts.ShowToday && chart.ShowToday && chart.TodayX >= 0 && chart.TodayX < len(cells) {
		cells[chart.TodayX] = gridCell{r: glyphToday, kind: cellToday}
	}
	return cells
}

// drawBar paints row's bar onto cells, clipped to the grid.
func drawBar(cells []gridCell, row app.ChartRow) {
	bar := row.Bar
	for i := 0; i < bar.BarWidth; i++ {
		x := bar.Left + i
		if x < 0 || x >= len(cells) {
			continue
		}
		if i < bar.FillWidth {
			cells[x] = gridCell{r: glyphFill, kind: cellFill, color: row.Color}
		} else {
			cells[x] = gridCell{r: glyphRest, kind: cellRest, color: row.Color}
		}
	}
	if !bar.ShowLabel {
		return
	}
	label := []rune(truncate(row.Task.Title, bar.BarWidth-2))
	for i, r := range label {
		x := bar.Left + 1 + i
		if x < 0 || x >= len(cells) {
			continue
		}
		cells[x] = gridCell{r: r, kind: cellLabel, color: row.Color}
	}
}

// renderCells styles runs of equally-styled cells.
func renderCells(cells []gridCell, opts RenderOptions) string {
	var b strings.Builder
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].kind == cells[start].kind && cells[end].color == cells[start].color {
			end++
		}
		run := make([]rune, 0, end-start)
		for _, c := range cells[start:end] {
			run = append(run, c.r)
		}
		b.WriteString(styled(opts, cellStyle(cells[start]), string(run)))
		start = end
	}
	return b.String()
}

func cellStyle(c gridCell) lipgloss.Style {
	switch c.kind {
	case cellWeekend:
		return lipgloss.NewStyle().Foreground(chartDim).Background(chartShade)
	case cellToday:
		return lipgloss.NewStyle().Foreground(chartToday)
	case cellFill, cellRest:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.color.ANSI))
	case cellLabel:
		return lipgloss.NewStyle().Bold(true).Foreground(chartLabel).Background(lipgloss.Color(c.color.ANSI))
	default:
		return lipgloss.NewStyle()
	}
}

// renderSidebarCell renders the completion glyph, title, date range and assignee badge of one row.
// The date range and then the badge are dropped when the title would get too narrow.
func renderSidebarCell(row app.ChartRow, width int, selected bool, opts RenderOptions) string {
	task := row.Task
	glyph := glyphOpen
	if task.IsComplete() {
		glyph = glyphDone
	}
	dates := " " + shortDateRange(task)
	badge := ""
	if task.Assignee != "" {
		badge = " @" + task.Assignee
	}
	titleWidth := width - 2 - lipgloss.Width(dates) - lipgloss.Width(badge)
	if titleWidth < minSidebarTitle {
		dates = ""
		titleWidth = width - 2 - lipgloss.Width(badge)
	}
	if titleWidth < minSidebarTitle {
		badge = ""
		titleWidth = width - 2
	}
	title := padRight(truncate(task.Title, titleWidth), titleWidth)

	titleStyle := lipgloss.NewStyle()
	if task.IsComplete() {
		titleStyle = titleStyle.Strikethrough(true).Foreground(chartMuted)
	}
	glyphStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color.ANSI))
	metaStyle := lipgloss.NewStyle().Foreground(chartMuted)
	if selected {
		titleStyle = titleStyle.Bold(true).Foreground(chartAccent)
		if opts.Plain {
			glyph = ">"
		}
	}
	return styled(opts, glyphStyle, glyph) + " " + styled(opts, titleStyle, title) + styled(opts, metaStyle, dates) + styled(opts, metaStyle, badge)
}

// shortDateRange formats start and end as MM-DD→MM-DD.
func shortDateRange(task domain.Task) string {
	return task.StartDate.String()[5:] + "→" + task.EndDate.String()[5:]
}

func separator(opts RenderOptions) string {
	return styled(opts, lipgloss.NewStyle().Foreground(chartDim), sidebarSep)
}

func styled(opts RenderOptions, style lipgloss.Style, text string) string {
	if opts.Plain || text == "" {
		return text
	}
	return style.Render(text)
}

// writeRunes copies text into dst at offset, dropping what does not fit.
func writeRunes(dst []rune, offset int, text string) {
	for i, r := range []rune(text) {
		x := offset + i
		if x < 0 || x >= len(dst) {
			continue
		}
		dst[x] = r
	}
}

// padRight pads s with spaces up to width display cells.
func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
