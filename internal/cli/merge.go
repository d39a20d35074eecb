package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weekly-planner/internal/coach"
)

func addMerge(topLevel *cobra.Command, a *app) {
	var week string
	cmd := &cobra.Command{
		Use:   "merge <file.json>",
		Short: "Merge proposed tasks into a week",
		Long: "Merge proposed tasks into a week. The file holds either a JSON array of\n" +
			"task items or a saved coaching reply with a weekly_active_plan field.\n" +
			"Items already in the week are skipped, so merging twice is harmless.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			items, err := decodeProposals(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			key, err := a.weekArg(nonEmpty(week), 0)
			if err != nil {
				return err
			}
			user, err := a.user(cmd)
			if err != nil {
				return err
			}
			added, err := a.plans.MergeProposals(cmd.Context(), user, key, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d item(s) into %s: %d new\n", len(items), key, added)
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "week key, defaults to the current week")
	topLevel.AddCommand(cmd)
}

func decodeProposals(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []map[string]any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	reply, err := coach.ParseReply(string(trimmed))
	if err != nil {
		return nil, err
	}
	return reply.WeeklyActivePlan, nil
}
