// Package xlsx renders a chart layout as a spreadsheet Gantt workbook.
package xlsx

import (
	"fmt"
	"io"

	"github.com/hylla/gengantt/internal/app"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet written to every workbook.
const SheetName = "Gantt"

// Row layout: month labels, then column headers, then one row per task.
const (
	monthRow  = 1
	headerRow = 2
	firstRow  = 3
)

var taskHeaders = []string{"Task", "Start", "End", "Progress", "Category", "Assignee"}

const (
	headerFill  = "#E5E7EB"
	weekendFill = "#F3F4F6"
	todayFill   = "#FECACA"
	dayColWidth = 4
)

// Write encodes chart as an XLSX workbook into w.
func Write(w io.Writer, chart app.Chart) error {
	f, err := Build(chart)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build lays chart out in a new workbook. The caller closes the returned file.
func Build(chart app.Chart) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &builder{f: f, fills: map[string]int{}}
	if err := b.build(chart); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

type builder struct {
	f      *excelize.File
	header int
	fills  map[string]int
}

func (b *builder) build(chart app.Chart) error {
	if _, err := b.f.NewSheet(SheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := b.f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	index, err := b.f.GetSheetIndex(SheetName)
	if err != nil {
		return fmt.Errorf("locate sheet: %w", err)
	}
	b.f.SetActiveSheet(index)

	b.header, err = b.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := b.writeHeaders(chart); err != nil {
		return err
	}
	for i, row := range chart.Rows {
		if err := b.writeTask(chart, firstRow+i, row); err != nil {
			return err
		}
	}
	return b.layout(chart)
}

func (b *builder) writeHeaders(chart app.Chart) error {
	for i, title := range taskHeaders {
		if err := b.setCell(i+1, headerRow, title, b.header); err != nil {
			return err
		}
	}
	for i, day := range chart.Days {
		col := dayColumn(i)
		if day.MonthLabel != "" {
			if err := b.setCell(col, monthRow, day.MonthLabel, 0); err != nil {
				return err
			}
		}
		style := b.header
		switch {
		case chart.ShowToday && day.Date.Equal(chart.Today):
			s, err := b.fill(todayFill)
			if err != nil {
				return err
			}
			style = s
		case day.Weekend:
			s, err := b.fill(weekendFill)
			if err != nil {
				return err
			}
			style = s
		}
		if err := b.setCell(col, headerRow, day.Date.Day(), style); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) writeTask(chart app.Chart, rowNum int, row app.ChartRow) error {
	task := row.Task
	values := []any{
		task.Title,
		task.StartDate.String(),
		task.EndDate.String(),
		task.Progress,
		task.Category,
		task.EffectiveAssignee(),
	}
	for i, v := range values {
		if err := b.setCell(i+1, rowNum, v, 0); err != nil {
			return err
		}
	}

	style, err := b.fill(row.Color.Hex)
	if err != nil {
		return err
	}
	first := task.StartDate.DaysSince(chart.Range.Min)
	last := task.EndDate.DaysSince(chart.Range.Min)
	for i := max(first, 0); i <= last && i < len(chart.Days); i++ {
		if err := b.setCell(dayColumn(i), rowNum, nil, style); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) layout(chart app.Chart) error {
	if err := b.f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return err
	}
	if err := b.f.SetColWidth(SheetName, "B", "F", 14); err != nil {
		return err
	}
	if len(chart.Days) > 0 {
		from, err := excelize.ColumnNumberToName(dayColumn(0))
		if err != nil {
			return err
		}
		to, err := excelize.ColumnNumberToName(dayColumn(len(chart.Days) - 1))
		if err != nil {
			return err
		}
		if err := b.f.SetColWidth(SheetName, from, to, dayColWidth); err != nil {
			return err
		}
	}
	topLeft, err := excelize.CoordinatesToCellName(dayColumn(0), firstRow)
	if err != nil {
		return err
	}
	return b.f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      len(taskHeaders),
		YSplit:      headerRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	})
}

// fill returns a cached solid-fill style for hex.
func (b *builder) fill(hex string) (int, error) {
	if id, ok := b.fills[hex]; ok {
		return id, nil
	}
	id, err := b.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("fill style %s: %w", hex, err)
	}
	b.fills[hex] = id
	return id, nil
}

func (b *builder) setCell(col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if value != nil {
		if err := b.f.SetCellValue(SheetName, cell, value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	if style != 0 {
		if err := b.f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}
	return nil
}

// dayColumn is the 1-based sheet column of day index i.
func dayColumn(i int) int {
	return len(taskHeaders) + 1 + i
}
