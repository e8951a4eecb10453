// internal/rules/execute.go
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Action execution.
 *
 * Applies a rule's actions in list order to an accumulating lead snapshot,
 * so later actions in the same rule observe earlier ones' effects. The
 * input lead is never mutated; Execute clones it and returns the clone.
 *
 * Side-effect boundaries:
 *   - create_task is the only action with external I/O. Its failure is
 *     caught here, logged, and does not abort the rule: the remaining
 *     actions still run and are still logged as successes upstream. This
 *     isolation is deliberately narrower than the per-rule error handling
 *     in the Processor and must stay that way for compatibility with the
 *     historical activity trail.
 *   - Persistence of the final snapshot belongs to the caller, which keeps
 *     Execute testable without I/O and reusable by the dry-run tester.
 *
 * Unknown action types are skipped with a warning, not an error.
 */

// Executor applies rule actions to lead snapshots. A nil task creator
// disables create_task entirely (dry runs).
type Executor struct {
	tasks TaskCreator
	now   func() time.Time
}

// NewExecutor creates an executor. tasks may be nil to disable task
// creation.
func NewExecutor(tasks TaskCreator) *Executor {
	return &Executor{tasks: tasks, now: time.Now}
}

// Execute applies actions in order and returns the mutated snapshot.
// The returned error is per-rule: the caller records it as a single
// rule_execution failure and moves on to the next rule. Cancellation is
// checked between actions; a canceled context returns the input lead
// unchanged.
func (e *Executor) Execute(ctx context.Context, lead types.Lead, actions []types.Action) (types.Lead, error) {
	updated := lead.Clone()
	now := e.now()

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return lead, fmt.Errorf("action %s: %w", action.Type, err)
		}

		switch action.Type {
		case types.ActionAssignUser:
			updated.AssignedUser = action.Value
			updated.AssignmentHistory = append(updated.AssignmentHistory, types.Assignment{
				AssignedUser: action.Value,
				AssignedAt:   now,
				AssignedBy:   types.AutomationActor,
				Reason:       "Automated assignment",
			})

		case types.ActionSetStatus:
			updated.Status = action.Value
			updated.StatusHistory = append(updated.StatusHistory, types.StatusChange{
				Status:    action.Value,
				ChangedAt: now,
				ChangedBy: types.AutomationActor,
			})

		case types.ActionAddTag:
			if !containsTag(updated.Tags, action.Value) {
				updated.Tags = append(updated.Tags, action.Value)
			}

		case types.ActionSetPriority:
			updated.Priority = action.Value

		case types.ActionAddNote:
			updated.Notes = append(updated.Notes, types.Note{
				Content:   action.Value,
				CreatedAt: now,
				CreatedBy: types.AutomationActor,
			})

		case types.ActionCreateTask:
			e.createTask(ctx, lead, action.Value, now)

		case types.ActionSendNotification:
			updated.Notifications = append(updated.Notifications, types.Notification{
				Message: action.Value,
				SentAt:  now,
				SentBy:  types.AutomationActor,
				Type:    types.NotificationTypeAutomation,
			})

		case types.ActionUpdateField:
			if action.Field == "" || action.Value == "" {
				continue
			}
			if updated.CustomFields == nil {
				updated.CustomFields = make(map[string]string)
			}
			updated.CustomFields[action.Field] = action.Value

		default:
			log.Warn().
				Str("action", string(action.Type)).
				Int64("lead", lead.ID).
				Msg("unknown action type")
		}
	}

	updated.UpdatedAt = now
	return updated, nil
}

// createTask requests a follow-up task linked to the lead, due next day.
// Failures are caught here so the rule's remaining actions still run.
func (e *Executor) createTask(ctx context.Context, lead types.Lead, title string, now time.Time) {
	if e.tasks == nil {
		return
	}

	assignee := lead.AssignedUser
	if assignee == "" {
		assignee = "Unassigned"
	}

	draft := types.TaskDraft{
		Title:        title,
		Description:  fmt.Sprintf("Automated task created for lead: %s", lead.Name),
		AssignedUser: assignee,
		DueDate:      now.Add(types.TaskDueOffset),
		Priority:     "Medium",
		Status:       types.TaskStatusPending,
		LeadID:       lead.ID,
		CreatedBy:    types.AutomationActor,
	}

	if _, err := e.tasks.CreateTask(ctx, draft); err != nil {
		log.Error().Err(err).
			Int64("lead", lead.ID).
			Str("title", title).
			Msg("failed to create automated task")
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
