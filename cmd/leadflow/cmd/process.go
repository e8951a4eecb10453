package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow/internal/activity"
	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/rules"
	"github.com/leadflow/leadflow/internal/store"
	"github.com/leadflow/leadflow/internal/types"
)

var (
	processEvent string
	processFile  string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one workflow pass over a lead without persisting anything",
	Long: `Reads a lead as JSON, evaluates the stored active rules against it for
the given lifecycle event, and prints the mutated lead plus the activity
records the pass produced. Nothing is written back: the lead is not
persisted and no tasks are created.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processEvent, "event", "created", "lifecycle event (created, updated)")
	processCmd.Flags().StringVar(&processFile, "file", "-", "lead JSON file, - for stdin")
}

func runProcess(cmd *cobra.Command, args []string) error {
	lead, err := readLead(processFile)
	if err != nil {
		return err
	}

	event := types.Event(processEvent)
	if event != types.EventCreated && event != types.EventUpdated {
		return fmt.Errorf("--event must be created or updated, got %q", processEvent)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	queries, err := db.LoadQueries(conn)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	// Stored rules drive the pass, but nothing is written back: no lead
	// writer, no task creator, and activity lands in an in-memory log.
	trail := activity.NewLog()
	processor := rules.NewProcessor(store.NewRuleStore(queries), nil, nil, trail)

	result, err := processor.Process(cmd.Context(), lead, event)
	if err != nil {
		return err
	}

	out := struct {
		Lead     types.Lead             `json:"lead"`
		Activity []types.ActivityRecord `json:"activity"`
	}{
		Lead:     result,
		Activity: trail.List(0),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readLead decodes a lead from the given file, or stdin for "-".
func readLead(path string) (types.Lead, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return types.Lead{}, fmt.Errorf("failed to open lead file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lead types.Lead
	if err := json.NewDecoder(r).Decode(&lead); err != nil {
		return types.Lead{}, fmt.Errorf("failed to decode lead JSON: %w", err)
	}
	return lead, nil
}
