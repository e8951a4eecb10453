// internal/store/activity.go
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/types"
)

// ActivityStore is the durable activity trail. It implements the engine's
// Recorder contract with the same retention semantics as the in-memory
// log: at most types.MaxActivityRecords rows, oldest evicted on overflow,
// reads newest-first.
type ActivityStore struct {
	q *db.Queries

	// Appends are serialized so id allocation and trimming do not race
	// between concurrent processor passes on one instance.
	mu sync.Mutex
}

// NewActivityStore creates an activity store over loaded queries.
func NewActivityStore(q *db.Queries) *ActivityStore {
	return &ActivityStore{q: q}
}

// Append inserts one record and evicts beyond-capacity rows.
func (s *ActivityStore) Append(ctx context.Context, rec types.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	if err := s.q.Get(ctx, "next-activity-id", &id); err != nil {
		return fmt.Errorf("allocate activity id: %w", err)
	}

	if rec.TriggeredAt.IsZero() {
		rec.TriggeredAt = time.Now().UTC()
	}

	_, err := s.q.Exec(ctx, "append-activity",
		id, rec.RuleID, rec.RuleName, rec.LeadID, rec.LeadName,
		rec.Action, rec.ActionValue, string(rec.Status), rec.TriggeredAt,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}

	if _, err := s.q.Exec(ctx, "trim-activity", types.MaxActivityRecords); err != nil {
		return fmt.Errorf("trim activity: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns the
// full retained window.
func (s *ActivityStore) List(ctx context.Context, limit int) ([]types.ActivityRecord, error) {
	if limit <= 0 || limit > types.MaxActivityRecords {
		limit = types.MaxActivityRecords
	}
	var records []types.ActivityRecord
	if err := s.q.Select(ctx, "list-activity", &records, limit); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return records, nil
}

// ListByRule returns all retained records for one rule, newest first.
func (s *ActivityStore) ListByRule(ctx context.Context, ruleID int64) ([]types.ActivityRecord, error) {
	var records []types.ActivityRecord
	if err := s.q.Select(ctx, "list-activity-by-rule", &records, ruleID); err != nil {
		return nil, fmt.Errorf("list activity for rule %d: %w", ruleID, err)
	}
	return records, nil
}

// Count returns the number of retained records.
func (s *ActivityStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.q.Get(ctx, "count-activity", &n); err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return n, nil
}
