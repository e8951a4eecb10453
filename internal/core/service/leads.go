// internal/core/service/leads.go
package service

import (
	"context"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Lead lifecycle operations.
 *
 * CreateLead and UpdateLead are the two workflow entry points: each
 * persists the lead and then runs one processor pass for the matching
 * lifecycle event. The lead returned to the caller is the post-workflow
 * snapshot, so automated mutations (assignment, status, tags) are
 * visible immediately.
 *
 * Callers that must not re-trigger workflows, such as bulk imports or
 * administrative fixups, pass UpdateOptions{SuppressWorkflow: true} and
 * get a plain persistence write.
 */

// CreateLead persists a new lead and runs the lead_created workflow
// pass over it. The returned lead reflects any rule mutations.
func (s *Service) CreateLead(ctx context.Context, draft types.Lead) (types.Lead, error) {
	created, err := s.leads.Create(ctx, draft)
	if err != nil {
		return types.Lead{}, err
	}
	return s.processor.Process(ctx, created, types.EventCreated)
}

// UpdateLead persists the lead and, unless suppressed, runs the
// lead_updated workflow pass over the stored result.
func (s *Service) UpdateLead(ctx context.Context, id int64, lead types.Lead, opts types.UpdateOptions) (types.Lead, error) {
	w := leadWriter{svc: s}
	return w.Update(ctx, id, lead, opts)
}

// GetLead returns the lead by id.
func (s *Service) GetLead(ctx context.Context, id int64) (types.Lead, error) {
	return s.leads.GetByID(ctx, id)
}

// ListLeads returns all leads.
func (s *Service) ListLeads(ctx context.Context) ([]types.Lead, error) {
	return s.leads.List(ctx)
}

// ListLeadsByStatus returns leads in the given pipeline status.
func (s *Service) ListLeadsByStatus(ctx context.Context, status string) ([]types.Lead, error) {
	return s.leads.ListByStatus(ctx, status)
}

// DeleteLead removes the lead. Tasks and activity records referencing
// it are kept for the audit trail.
func (s *Service) DeleteLead(ctx context.Context, id int64) error {
	return s.leads.Delete(ctx, id)
}

// ListTasks returns all tasks, newest first.
func (s *Service) ListTasks(ctx context.Context) ([]types.Task, error) {
	return s.tasks.List(ctx)
}

// ListTasksByLead returns tasks attached to the lead.
func (s *Service) ListTasksByLead(ctx context.Context, leadID int64) ([]types.Task, error) {
	return s.tasks.ListByLead(ctx, leadID)
}

// ListPendingTasks returns tasks not yet completed.
func (s *Service) ListPendingTasks(ctx context.Context) ([]types.Task, error) {
	return s.tasks.ListPending(ctx)
}

// CompleteTask marks the task completed.
func (s *Service) CompleteTask(ctx context.Context, id int64) error {
	return s.tasks.Complete(ctx, id)
}
