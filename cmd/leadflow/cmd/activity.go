package cmd

import (
	"github.com/spf13/cobra"
)

var (
	activityLimit int
	activityRule  int64
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the workflow activity trail, newest first",
	RunE:  runActivity,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rule inventory and activity statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().IntVar(&activityLimit, "limit", 50, "maximum records to show, 0 for the full retained window")
	activityCmd.Flags().Int64Var(&activityRule, "rule", 0, "show only records for this rule id")

	rootCmd.AddCommand(statsCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	if activityRule != 0 {
		records, err := svc.ActivityByRule(cmd.Context(), activityRule)
		if err != nil {
			return err
		}
		return printJSON(records)
	}

	records, err := svc.Activity(cmd.Context(), activityLimit)
	if err != nil {
		return err
	}
	return printJSON(records)
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(stats)
}
