package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

var sheetHeader = []any{"Day", "Date", "Status", "Task", "Hidden"}

// WeekXLSX renders the week as a workbook with one sheet named after the
// week key. Rows follow calendar order with unscheduled tasks last.
func WeekXLSX(key model.WeekKey, tasks []model.Task) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(key)
	if sheet == "" {
		sheet = "Plan"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	buckets := plan.DayBuckets(tasks, plan.ViewOptions{IncludeHidden: true})
	days := append(append([]model.Day{}, model.Days...), model.Unscheduled)
	row := 2
	for _, day := range days {
		for _, t := range buckets[day] {
			date := ""
			if day != model.Unscheduled {
				date = plan.DateOf(key, day).Format("2006-01-02")
			}
			values := []any{string(day), date, string(t.Status), t.Text, t.Hidden}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}
	if err := f.SetColWidth(sheet, "D", "D", 48); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
