package types

import "errors"

// Sentinel errors for leadflow operations.
var (
	// ErrRuleNotFound indicates a rule id does not exist in the store.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrLeadNotFound indicates a lead id does not exist in the store.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrTaskNotFound indicates a task id does not exist in the store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTemplateNotFound indicates a template id does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidRule indicates a rule draft failed structural validation.
	// The accompanying violation list carries the human-readable details.
	ErrInvalidRule = errors.New("invalid rule definition")

	// ErrUnknownEvent indicates a lifecycle event outside created/updated.
	ErrUnknownEvent = errors.New("unknown lead lifecycle event")
)
