// internal/core/service/service.go

// Package service provides the orchestration layer for LeadFlow.
// Thin coordination layer delegating to the store, rules, and activity
// packages; every lead lifecycle write funnels through it so workflow
// processing has a single dispatch point.
package service

import (
	"context"
	"fmt"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/rules"
	"github.com/leadflow/leadflow/internal/store"
	"github.com/leadflow/leadflow/internal/types"
)

// Service exposes the public operations of the workflow engine: lead
// lifecycle writes that trigger rule processing, rule and template
// management, dry-run testing, and the activity trail.
type Service struct {
	rules     *store.RuleStore
	leads     *store.LeadStore
	tasks     *store.TaskStore
	templates *store.TemplateStore
	activity  *store.ActivityStore
	processor *rules.Processor
}

// New creates a service instance over the prepared query set.
func New(q *db.Queries) (*Service, error) {
	if q == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}

	s := &Service{
		rules:     store.NewRuleStore(q),
		leads:     store.NewLeadStore(q),
		tasks:     store.NewTaskStore(q),
		templates: store.NewTemplateStore(q),
		activity:  store.NewActivityStore(q),
	}
	s.processor = rules.NewProcessor(s.rules, &leadWriter{svc: s}, s.tasks, s.activity)
	return s, nil
}

// leadWriter is the persistence seam handed to the processor. Every
// lead write lands here: it persists first, then re-enters the
// processor for an updated pass unless SuppressWorkflow is set. The
// processor always sets SuppressWorkflow on its own final write, which
// is what keeps rule chains from recursing forever.
type leadWriter struct {
	svc *Service
}

func (w *leadWriter) Update(ctx context.Context, id int64, lead types.Lead, opts types.UpdateOptions) (types.Lead, error) {
	updated, err := w.svc.leads.Update(ctx, id, lead)
	if err != nil {
		return types.Lead{}, err
	}
	if opts.SuppressWorkflow {
		return updated, nil
	}
	return w.svc.processor.Process(ctx, updated, types.EventUpdated)
}
