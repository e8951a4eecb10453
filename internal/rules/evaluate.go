// internal/rules/evaluate.go
package rules

import (
	"github.com/rs/zerolog/log"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Condition evaluation.
 *
 * Evaluates a rule's condition list against a lead snapshot with AND
 * semantics: the rule matches iff every condition matches. Evaluation
 * short-circuits at the first failing condition.
 *
 * Per-condition flow: resolve field -> apply operator. Field resolution
 * and operator semantics live in fields.go and operators.go.
 *
 * Unknown operators fail their condition (and therefore the rule) rather
 * than erroring; a warning is logged so misconfigured rules are visible
 * to operators without aborting the pass.
 *
 * Pure function over its inputs: no I/O, no mutation. Both the Processor
 * and the dry-run tester call it, which is what keeps dry-run purity
 * structural rather than conventional.
 */

// Evaluate reports whether every condition matches the lead.
// The validator guarantees persisted rules have at least one condition;
// an empty list is never expected here.
func Evaluate(lead types.Lead, conditions []types.Condition) bool {
	for _, cond := range conditions {
		value, found := ResolveField(lead, cond.Field)
		matched, known := matchOperator(cond.Operator, value, found, cond.Value)
		if !known {
			log.Warn().
				Str("operator", string(cond.Operator)).
				Str("field", cond.Field).
				Msg("unknown condition operator")
			return false
		}
		if !matched {
			return false
		}
	}
	return true
}
