package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

func addTask(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add and update tasks",
	}
	addTaskAdd(cmd, a)
	addTaskStatus(cmd, a)
	addTaskHide(cmd, a)
	addTaskRemove(cmd, a)
	topLevel.AddCommand(cmd)
}

func addTaskAdd(parent *cobra.Command, a *app) {
	var (
		week   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "add <day> <text...>",
		Short: "Add a task to a week",
		Long:  "Add a task to a week. Use \"-\" as the day to leave it unscheduled\nand \"today\" for the current weekday.",
		Example: `
plannerctl task add Mon Write outline
plannerctl task add today Stretch for ten minutes
plannerctl task add fri "Call advisor" --week 2024-W07 --status postponed
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := plan.ParseDay(args[0])
			if strings.EqualFold(args[0], "today") {
				day = plan.DayOf(a.now())
			}
			if day == model.Unscheduled && args[0] != "-" {
				return fmt.Errorf("unknown day %q", args[0])
			}
			if status != "" {
				if _, ok := plan.LookupStatus(status); !ok {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			key, err := a.weekArg(nonEmpty(week), 0)
			if err != nil {
				return err
			}
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			task, err := a.plans.AddTask(cmd.Context(), user, key, day, strings.Join(args[1:], " "), model.Status(status))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", shortID(task.ID), task.Week, plan.Glyph(task.Status), task.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "week key, defaults to the current week")
	cmd.Flags().StringVar(&status, "status", "", "initial status")
	parent.AddCommand(cmd)
}

func addTaskStatus(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change the status of a task",
		Long: "Change the status of a task. Postponing moves it to the next day,\n" +
			"or to Monday of the next week when it was planned for Sunday.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := plan.LookupStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			task, err := a.plans.ResolveTask(cmd.Context(), user, args[0])
			if err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			tr, err := a.plans.SetStatus(cmd.Context(), user, task.ID, status)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if tr.Moved {
				fmt.Fprintf(out, "%s postponed: %s %s -> %s %s\n", shortID(task.ID), tr.Before.Week, tr.Before.Day, tr.After.Week, tr.After.Day)
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", shortID(task.ID), plan.Glyph(tr.After.Status), tr.After.Status)
			return nil
		},
	}
	parent.AddCommand(cmd)
}

func addTaskHide(parent *cobra.Command, a *app) {
	var show bool
	cmd := &cobra.Command{
		Use:   "hide <id>",
		Short: "Hide a task from the default view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			task, err := a.plans.ResolveTask(cmd.Context(), user, args[0])
			if err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			if _, err := a.plans.SetHidden(cmd.Context(), user, task.ID, !show); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "unhide instead")
	parent.AddCommand(cmd)
}

func addTaskRemove(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			task, err := a.plans.ResolveTask(cmd.Context(), user, args[0])
			if err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			return a.plans.DeleteTask(cmd.Context(), user, task.ID)
		},
	}
	parent.AddCommand(cmd)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
