package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleChart(t *testing.T) app.Chart {
	t.Helper()
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	mk := func(id, title, start, end string, progress int, category, assignee string) domain.Task {
		task, err := domain.NewTask(domain.TaskInput{
			ID:        id,
			Title:     title,
			StartDate: start,
			EndDate:   end,
			Progress:  progress,
			Category:  category,
			Assignee:  assignee,
		}, now)
		require.NoError(t, err)
		return task
	}
	tasks := []domain.Task{
		mk("1", "Project Setup", "2026-02-21", "2026-02-24", 100, "Planning", "Alex"),
		mk("2", "UI Design", "2026-02-23", "2026-02-28", 45, "Design", ""),
	}
	return app.BuildChart(tasks, domain.MustParseDate("2026-02-21"), timeline.CellScale(4))
}

func cellValue(t *testing.T, f *excelize.File, col, row int) string {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	v, err := f.GetCellValue(SheetName, cell)
	require.NoError(t, err)
	return v
}

func cellStyle(t *testing.T, f *excelize.File, col, row int) int {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	id, err := f.GetCellStyle(SheetName, cell)
	require.NoError(t, err)
	return id
}

func TestBuildWorkbookLayout(t *testing.T) {
	chart := sampleChart(t)
	f, err := Build(chart)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	assert.Equal(t, "Task", cellValue(t, f, 1, headerRow))
	assert.Equal(t, "Assignee", cellValue(t, f, 6, headerRow))
	assert.Equal(t, "February 2026", cellValue(t, f, dayColumn(0), monthRow))
	assert.Equal(t, "18", cellValue(t, f, dayColumn(0), headerRow))
	assert.Equal(t, "March 2026", cellValue(t, f, dayColumn(11), monthRow))

	assert.Equal(t, "Project Setup", cellValue(t, f, 1, firstRow))
	assert.Equal(t, "2026-02-21", cellValue(t, f, 2, firstRow))
	assert.Equal(t, "100", cellValue(t, f, 4, firstRow))
	assert.Equal(t, domain.Unassigned, cellValue(t, f, 6, firstRow+1))
}

func TestBuildWorkbookBarsUseCategoryFill(t *testing.T) {
	chart := sampleChart(t)
	f, err := Build(chart)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// Project Setup covers day indexes 3..6.
	barStyle := cellStyle(t, f, dayColumn(3), firstRow)
	assert.NotZero(t, barStyle)
	for i := 3; i <= 6; i++ {
		assert.Equal(t, barStyle, cellStyle(t, f, dayColumn(i), firstRow), "day %d", i)
	}
	assert.Zero(t, cellStyle(t, f, dayColumn(2), firstRow))
	assert.Zero(t, cellStyle(t, f, dayColumn(7), firstRow))

	designStyle := cellStyle(t, f, dayColumn(5), firstRow+1)
	assert.NotEqual(t, barStyle, designStyle)
}

func TestBuildWorkbookMarksTodayAndWeekends(t *testing.T) {
	chart := sampleChart(t)
	f, err := Build(chart)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	weekday := cellStyle(t, f, dayColumn(0), headerRow) // Wednesday
	today := cellStyle(t, f, dayColumn(3), headerRow)   // Saturday, today wins
	sunday := cellStyle(t, f, dayColumn(4), headerRow)
	assert.NotEqual(t, weekday, today)
	assert.NotEqual(t, weekday, sunday)
	assert.NotEqual(t, today, sunday)
}

func TestWriteProducesReadableWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleChart(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(SheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "UI Design", v)
}

func TestBuildEmptyChart(t *testing.T) {
	chart := app.BuildChart(nil, domain.MustParseDate("2026-02-21"), timeline.CellScale(4))
	f, err := Build(chart)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
