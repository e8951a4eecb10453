// internal/core/service/activity.go
package service

import (
	"context"

	"github.com/leadflow/leadflow/internal/activity"
	"github.com/leadflow/leadflow/internal/types"
)

// Activity returns the newest activity records up to limit. A
// non-positive limit returns the full retained window.
func (s *Service) Activity(ctx context.Context, limit int) ([]types.ActivityRecord, error) {
	return s.activity.List(ctx, limit)
}

// ActivityByRule returns the newest activity records for a single rule.
func (s *Service) ActivityByRule(ctx context.Context, ruleID int64) ([]types.ActivityRecord, error) {
	return s.activity.ListByRule(ctx, ruleID)
}

// Stats aggregates rule inventory and activity outcomes over the
// retained activity window.
func (s *Service) Stats(ctx context.Context) (activity.Stats, error) {
	ruleList, err := s.rules.List(ctx)
	if err != nil {
		return activity.Stats{}, err
	}
	records, err := s.activity.List(ctx, types.MaxActivityRecords)
	if err != nil {
		return activity.Stats{}, err
	}
	return activity.ComputeStats(ruleList, records), nil
}
