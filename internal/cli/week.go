package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

// weekView is the machine-readable form of `week show`.
type weekView struct {
	Week       model.WeekKey `json:"week" yaml:"week"`
	Label      string        `json:"label" yaml:"label"`
	Completion *float64      `json:"completion" yaml:"completion"`
	Tasks      []taskView    `json:"tasks" yaml:"tasks"`
}

// taskView adds the stable display key to a task.
type taskView struct {
	model.Task `yaml:",inline"`
	Key        string `json:"key" yaml:"key"`
}

func taskViews(tasks []model.Task) []taskView {
	out := make([]taskView, len(tasks))
	for i, t := range tasks {
		out[i] = taskView{Task: t, Key: plan.UIKey(t)}
	}
	return out
}

func addWeek(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show, list and export weeks",
	}
	addWeekShow(cmd, a)
	addWeekList(cmd, a)
	addWeekExport(cmd, a)
	topLevel.AddCommand(cmd)
}

func addWeekShow(parent *cobra.Command, a *app) {
	var (
		output   string
		all      bool
		statuses []string
	)
	cmd := &cobra.Command{
		Use:   "show [week]",
		Short: "Show the tasks of a week by day",
		Example: `
plannerctl week show
plannerctl week show 2024-W07 -o yaml
plannerctl week show --status in_progress,postponed --all
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.weekArg(args, 0)
			if err != nil {
				return err
			}
			user, err := a.user(cmd)
			if err != nil {
				return err
			}

			opts := plan.ViewOptions{IncludeHidden: all}
			for _, raw := range statuses {
				s, ok := plan.LookupStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				opts.Statuses = append(opts.Statuses, s)
			}

			tasks, err := a.plans.Week(cmd.Context(), user, key)
			if err != nil {
				return err
			}
			buckets := plan.DayBuckets(tasks, opts)

			out := cmd.OutOrStdout()
			switch strings.ToLower(output) {
			case "table", "":
				printWeekTable(out, key, buckets, plan.Completion(tasks))
				return nil
			case "json", "yaml":
				view := weekView{Week: key, Label: plan.WeekLabel(key), Completion: plan.Completion(tasks), Tasks: taskViews(flatten(buckets))}
				return encode(out, output, view)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	cmd.Flags().BoolVar(&all, "all", false, "include hidden tasks")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only show tasks with these statuses")
	parent.AddCommand(cmd)
}

func addWeekList(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every planned week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			keys, err := a.plans.Weeks(cmd.Context(), user)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range keys {
				fmt.Fprintf(out, "%s  %s\n", key, plan.WeekLabel(key))
			}
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func addWeekExport(parent *cobra.Command, a *app) {
	var (
		xlsxPath string
		notion   bool
	)
	cmd := &cobra.Command{
		Use:   "export [week]",
		Short: "Export a week to a spreadsheet or Notion",
		Example: `
plannerctl week export 2024-W07 --xlsx plan.xlsx
plannerctl week export --notion
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if xlsxPath == "" && !notion {
				return fmt.Errorf("pass --xlsx <file> or --notion")
			}
			key, err := a.weekArg(args, 0)
			if err != nil {
				return err
			}
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if xlsxPath != "" {
				data, err := a.exports.XLSX(cmd.Context(), user, key)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsxPath, err)
				}
				fmt.Fprintf(out, "wrote %s\n", xlsxPath)
			}
			if notion {
				url, err := a.exports.Notion(cmd.Context(), user, key)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, url)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the week to this .xlsx file")
	cmd.Flags().BoolVar(&notion, "notion", false, "create a Notion page for the week")
	parent.AddCommand(cmd)
}

// flatten lists bucketed tasks in calendar order.
func flatten(buckets map[model.Day][]model.Task) []model.Task {
	out := []model.Task{}
	for _, day := range append(append([]model.Day{}, model.Days...), model.Unscheduled) {
		out = append(out, buckets[day]...)
	}
	return out
}

func writeLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
