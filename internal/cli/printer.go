package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.Checked:
		return color.New(color.FgGreen)
	case model.Postponed:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgHiWhite)
	}
}

func printWeekTable(w io.Writer, key model.WeekKey, buckets map[model.Day][]model.Task, completion *float64) {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	header := fmt.Sprintf("%s  %s", key, plan.WeekLabel(key))
	if completion != nil {
		header += fmt.Sprintf("  (%.1f%% done)", *completion)
	}
	writeLine(w, title.Sprint(header))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow("DAY", "DATE", "ID", "STATUS", "TASK")
	rows := 0
	for _, day := range append(append([]model.Day{}, model.Days...), model.Unscheduled) {
		for _, t := range buckets[day] {
			label, date := string(day), ""
			if day == model.Unscheduled {
				label = "-"
			} else {
				date = plan.DateOf(key, day).Format("01-02")
			}
			text := t.Text
			if t.Hidden {
				text += faint.Sprint(" (hidden)")
			}
			status := statusColor(t.Status).Sprintf("%s %s", plan.Glyph(t.Status), t.Status)
			tbl.AddRow(label, date, shortID(t.ID), status, text)
			rows++
		}
	}
	if rows == 0 {
		writeLine(w, faint.Sprint(" nothing planned"))
		return
	}
	writeLine(w, tbl.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
