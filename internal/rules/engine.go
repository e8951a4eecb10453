// Package rules implements the workflow automation rule engine: condition
// evaluation, action execution, rule processing, validation, and dry-run
// testing against lead records.
//
// Evaluation and execution are side-effect free over an accumulating lead
// snapshot; persistence, task creation, and activity logging happen through
// the narrow collaborator interfaces below so both the Processor (real run)
// and TestRule (dry run) share identical evaluation code paths.
package rules

import (
	"context"

	"github.com/leadflow/leadflow/internal/types"
)

// RuleSource lists the active rules subscribed to a trigger type. The
// processor calls it exactly once per pass; the returned slice is treated
// as a point-in-time snapshot so concurrent rule edits cannot change which
// rules apply to an in-flight event.
type RuleSource interface {
	ListActive(ctx context.Context, trigger types.TriggerType) ([]types.Rule, error)
}

// LeadWriter persists the final lead snapshot after a pass. The processor
// always sets SuppressWorkflow on its own writes; without that guard an
// updated-trigger pass would re-enter itself through its own persistence.
type LeadWriter interface {
	Update(ctx context.Context, id int64, lead types.Lead, opts types.UpdateOptions) (types.Lead, error)
}

// TaskCreator creates follow-up tasks for the create_task action. A nil
// TaskCreator disables task creation entirely, which is how dry runs stay
// free of side effects.
type TaskCreator interface {
	CreateTask(ctx context.Context, draft types.TaskDraft) (types.Task, error)
}

// Recorder appends immutable activity records. Implementations must
// serialize appends so insertion order is preserved under concurrency.
type Recorder interface {
	Append(ctx context.Context, rec types.ActivityRecord) error
}
