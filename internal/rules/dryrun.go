// internal/rules/dryrun.go
package rules

import (
	"context"
	"fmt"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Dry-run rule testing.
 *
 * Side-effect-free invocation of the evaluator and executor against a
 * caller-supplied synthetic lead, for "test this rule" workflows in the
 * rule builder. Never writes to the activity log, never persists a lead,
 * never creates tasks: the executor runs with a nil task creator, and no
 * recorder or lead writer is ever in scope.
 *
 * Errors are caught and reported in the outcome rather than propagated,
 * so a broken draft degrades to a readable message in the builder UI.
 */

// TestOutcome is the result of a dry run.
type TestOutcome struct {
	Matches bool       `json:"matches"`
	Result  types.Lead `json:"result"`
	Message string     `json:"message"`
	Err     bool       `json:"error,omitempty"`
}

// TestRule evaluates the draft's conditions against the synthetic lead
// and, on match, executes its actions against a copy. The input lead is
// returned unchanged when the conditions do not match or execution fails.
func TestRule(ctx context.Context, draft types.Rule, lead types.Lead) TestOutcome {
	if !Evaluate(lead, draft.Trigger.Conditions) {
		return TestOutcome{
			Matches: false,
			Result:  lead,
			Message: "Rule conditions do not match this lead",
		}
	}

	result, err := NewExecutor(nil).Execute(ctx, lead, draft.Actions)
	if err != nil {
		return TestOutcome{
			Matches: false,
			Result:  lead,
			Message: fmt.Sprintf("Rule test failed: %v", err),
			Err:     true,
		}
	}

	return TestOutcome{
		Matches: true,
		Result:  result,
		Message: "Rule would be triggered and actions executed",
	}
}
