// internal/rules/validate.go
package rules

import (
	"strings"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Rule draft validation.
 *
 * Structural validation of a rule definition prior to persistence. All
 * violations are collected and returned together - callers typically
 * surface only the first, but the rule builder shows the full list.
 *
 * Validation runs at rule create/update time, never during processing:
 * the engine assumes persisted rules already satisfy these rules
 * (>= 1 condition, >= 1 action, per-type payloads present).
 */

// ValidationResult carries the outcome of validating a rule draft.
// Errors are human-readable and ordered by where they occur in the draft.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateRule checks a rule draft's structure. It does not consult the
// store; name uniqueness and referential checks belong to the caller.
func ValidateRule(draft types.Rule) ValidationResult {
	var errs []string

	if strings.TrimSpace(draft.Name) == "" {
		errs = append(errs, "Rule name is required")
	}

	if len(draft.Trigger.Conditions) == 0 {
		errs = append(errs, "At least one trigger condition is required")
	}

	if len(draft.Actions) == 0 {
		errs = append(errs, "At least one action is required")
	}

	for _, cond := range draft.Trigger.Conditions {
		if cond.Field == "" || cond.Operator == "" {
			errs = append(errs, "All conditions must have field and operator")
		}
		if cond.Operator.RequiresValue() && cond.Value == "" {
			errs = append(errs, "Condition value is required for this operator")
		}
	}

	for _, action := range draft.Actions {
		if action.Type == "" {
			errs = append(errs, "Action type is required")
		}
		switch action.Type {
		case types.ActionAssignUser:
			if action.Value == "" {
				errs = append(errs, "User assignment requires a user value")
			}
		case types.ActionSetStatus:
			if action.Value == "" {
				errs = append(errs, "Status action requires a status value")
			}
		case types.ActionCreateTask:
			if action.Value == "" {
				errs = append(errs, "Task creation requires a task title")
			}
		case types.ActionSendNotification:
			if action.Value == "" {
				errs = append(errs, "Notification requires a message")
			}
		case types.ActionUpdateField:
			if action.Field == "" || action.Value == "" {
				errs = append(errs, "Field update requires both field name and value")
			}
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
