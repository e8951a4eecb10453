package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow/internal/types"
)

var leadSuppress bool

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all leads",
	RunE:  runLeadsList,
}

var leadsCreateCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Create a lead from JSON and run lead_created workflows",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLeadsCreate,
}

var leadsUpdateCmd = &cobra.Command{
	Use:   "update <id> [file]",
	Short: "Update a lead from JSON and run lead_updated workflows",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLeadsUpdate,
}

func init() {
	rootCmd.AddCommand(leadsCmd)
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsCreateCmd)
	leadsCmd.AddCommand(leadsUpdateCmd)
	leadsUpdateCmd.Flags().BoolVar(&leadSuppress, "suppress-workflow", false, "persist without running workflow rules")
}

func runLeadsList(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	leads, err := svc.ListLeads(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(leads)
}

func runLeadsCreate(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	draft, err := readLead(path)
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	lead, err := svc.CreateLead(cmd.Context(), draft)
	if err != nil {
		return err
	}
	return printJSON(lead)
}

func runLeadsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid lead id %q", args[0])
	}
	path := "-"
	if len(args) == 2 {
		path = args[1]
	}
	lead, err := readLead(path)
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	opts := types.UpdateOptions{SuppressWorkflow: leadSuppress}
	updated, err := svc.UpdateLead(cmd.Context(), id, lead, opts)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
