// Package activity provides the append-only, capacity-bounded audit log of
// rule firings.
//
// Records are immutable once written. The log retains the most recent
// types.MaxActivityRecords entries, evicting the oldest on overflow, and
// serves reads newest-first. Appends are mutex-serialized so insertion
// order is preserved when independent processor passes run concurrently.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/leadflow/leadflow/internal/types"
)

// Log is an in-memory bounded activity log. The zero value is not usable;
// use NewLog.
type Log struct {
	mu      sync.Mutex
	records []types.ActivityRecord // newest first
	nextID  int64
}

// NewLog creates an empty activity log.
func NewLog() *Log {
	return &Log{nextID: 1}
}

// Append records one activity entry, assigning its id and trigger time if
// unset. Implements the engine's Recorder interface; the error return is
// always nil for the in-memory log.
func (l *Log) Append(ctx context.Context, rec types.ActivityRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.ID = l.nextID
	l.nextID++
	if rec.TriggeredAt.IsZero() {
		rec.TriggeredAt = time.Now()
	}

	l.records = append([]types.ActivityRecord{rec}, l.records...)
	if len(l.records) > types.MaxActivityRecords {
		l.records = l.records[:types.MaxActivityRecords]
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all
// retained records.
func (l *Log) List(limit int) []types.ActivityRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]types.ActivityRecord, n)
	copy(out, l.records[:n])
	return out
}

// ListByRule returns all retained records for one rule, newest first.
func (l *Log) ListByRule(ruleID int64) []types.ActivityRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []types.ActivityRecord
	for _, rec := range l.records {
		if rec.RuleID == ruleID {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of retained records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
