package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leadflow/leadflow/internal/rules"
	"github.com/leadflow/leadflow/internal/types"
)

var testLeadID int64

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage workflow rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rules",
	RunE:  runRulesList,
}

var rulesCreateCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Create a rule from JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesCreate,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a rule draft without persisting it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesValidate,
}

var rulesTestCmd = &cobra.Command{
	Use:   "test [file]",
	Short: "Dry-run a rule draft against a stored lead",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesTest,
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a rule's active flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesToggle,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List rule templates",
	RunE:  runTemplatesList,
}

var templatesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Create an inactive rule from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesUse,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesCreateCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesTestCmd)
	rulesCmd.AddCommand(rulesToggleCmd)
	rulesTestCmd.Flags().Int64Var(&testLeadID, "lead", 0, "id of the stored lead to test against")
	rulesTestCmd.MarkFlagRequired("lead")

	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesUseCmd)
}

// readRule decodes a rule draft from the given file, or stdin for "-".
func readRule(path string) (types.Rule, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return types.Rule{}, fmt.Errorf("failed to open rule file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var rule types.Rule
	if err := json.NewDecoder(r).Decode(&rule); err != nil {
		return types.Rule{}, fmt.Errorf("failed to decode rule JSON: %w", err)
	}
	return rule, nil
}

func ruleArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "-"
}

func runRulesList(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	list, err := svc.ListRules(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(list)
}

func runRulesCreate(cmd *cobra.Command, args []string) error {
	draft, err := readRule(ruleArg(args))
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	rule, err := svc.CreateRule(cmd.Context(), draft)
	if err != nil {
		return err
	}
	return printJSON(rule)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	draft, err := readRule(ruleArg(args))
	if err != nil {
		return err
	}

	result := rules.ValidateRule(draft)
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.IsValid {
		return fmt.Errorf("rule is invalid")
	}
	return nil
}

func runRulesTest(cmd *cobra.Command, args []string) error {
	draft, err := readRule(ruleArg(args))
	if err != nil {
		return err
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	outcome, err := svc.TestRule(cmd.Context(), draft, testLeadID)
	if err != nil {
		return err
	}
	return printJSON(outcome)
}

func runRulesToggle(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rule id %q", args[0])
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	active, err := svc.ToggleRule(cmd.Context(), id)
	if err != nil {
		return err
	}
	state := "inactive"
	if active {
		state = "active"
	}
	fmt.Printf("Rule %d is now %s\n", id, state)
	return nil
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	list, err := svc.ListTemplates(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(list)
}

func runTemplatesUse(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid template id %q", args[0])
	}

	svc, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	rule, err := svc.CreateRuleFromTemplate(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(rule)
}
