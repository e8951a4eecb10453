// Package store implements the leadflow repositories over named SQL
// queries: rules, leads, tasks, templates, and the durable activity trail.
//
// Structured columns (conditions, actions, tags, history lists) are stored
// as JSON text and decoded at the store boundary, so the rest of the
// system only ever sees domain types. Sentinel not-found errors from
// internal/types are returned instead of sql.ErrNoRows.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/types"
)

// RuleStore persists workflow rules. ListActive implements the engine's
// RuleSource contract.
type RuleStore struct {
	q *db.Queries
}

// NewRuleStore creates a rule store over loaded queries.
func NewRuleStore(q *db.Queries) *RuleStore {
	return &RuleStore{q: q}
}

// ruleRow is the flat database shape of a rule.
type ruleRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	Priority    int       `db:"priority"`
	TriggerType string    `db:"trigger_type"`
	Conditions  string    `db:"conditions"`
	Actions     string    `db:"actions"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	CreatedBy   string    `db:"created_by"`
}

func (r ruleRow) toRule() (types.Rule, error) {
	var conditions []types.Condition
	if err := json.Unmarshal([]byte(r.Conditions), &conditions); err != nil {
		return types.Rule{}, fmt.Errorf("rule %d: decode conditions: %w", r.ID, err)
	}
	var actions []types.Action
	if err := json.Unmarshal([]byte(r.Actions), &actions); err != nil {
		return types.Rule{}, fmt.Errorf("rule %d: decode actions: %w", r.ID, err)
	}

	return types.Rule{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		Priority:    r.Priority,
		Trigger: types.Trigger{
			Type:       types.TriggerType(r.TriggerType),
			Conditions: conditions,
		},
		Actions:   actions,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		CreatedBy: r.CreatedBy,
	}, nil
}

func encodeRule(rule types.Rule) (conditions, actions string, err error) {
	c, err := json.Marshal(rule.Trigger.Conditions)
	if err != nil {
		return "", "", fmt.Errorf("encode conditions: %w", err)
	}
	a, err := json.Marshal(rule.Actions)
	if err != nil {
		return "", "", fmt.Errorf("encode actions: %w", err)
	}
	return string(c), string(a), nil
}

// List returns all rules ordered by id.
func (s *RuleStore) List(ctx context.Context) ([]types.Rule, error) {
	var rows []ruleRow
	if err := s.q.Select(ctx, "list-rules", &rows); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return decodeRuleRows(rows)
}

// GetByID returns one rule or types.ErrRuleNotFound.
func (s *RuleStore) GetByID(ctx context.Context, id int64) (types.Rule, error) {
	var row ruleRow
	if err := s.q.Get(ctx, "get-rule", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Rule{}, types.ErrRuleNotFound
		}
		return types.Rule{}, fmt.Errorf("get rule %d: %w", id, err)
	}
	return row.toRule()
}

// ListActive returns the active rules subscribed to a trigger type, in id
// order. The processor treats the result as a point-in-time snapshot.
func (s *RuleStore) ListActive(ctx context.Context, trigger types.TriggerType) ([]types.Rule, error) {
	var rows []ruleRow
	if err := s.q.Select(ctx, "list-active-rules", &rows, true, string(trigger)); err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return decodeRuleRows(rows)
}

// Create persists a new rule and returns it with id and timestamps set.
// Callers are expected to have validated the draft already.
func (s *RuleStore) Create(ctx context.Context, draft types.Rule) (types.Rule, error) {
	conditions, actions, err := encodeRule(draft)
	if err != nil {
		return types.Rule{}, err
	}

	var id int64
	if err := s.q.Get(ctx, "next-rule-id", &id); err != nil {
		return types.Rule{}, fmt.Errorf("allocate rule id: %w", err)
	}

	now := time.Now().UTC()
	draft.ID = id
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if draft.CreatedBy == "" {
		draft.CreatedBy = "User"
	}

	_, err = s.q.Exec(ctx, "create-rule",
		draft.ID, draft.Name, draft.Description, draft.IsActive, draft.Priority,
		string(draft.Trigger.Type), conditions, actions,
		draft.CreatedAt, draft.UpdatedAt, draft.CreatedBy,
	)
	if err != nil {
		return types.Rule{}, fmt.Errorf("create rule: %w", err)
	}
	return draft, nil
}

// Update overwrites a rule's definition. Returns types.ErrRuleNotFound
// for unknown ids.
func (s *RuleStore) Update(ctx context.Context, id int64, rule types.Rule) (types.Rule, error) {
	conditions, actions, err := encodeRule(rule)
	if err != nil {
		return types.Rule{}, err
	}

	rule.ID = id
	rule.UpdatedAt = time.Now().UTC()

	res, err := s.q.Exec(ctx, "update-rule",
		rule.Name, rule.Description, rule.IsActive, rule.Priority,
		string(rule.Trigger.Type), conditions, actions, rule.UpdatedAt, id,
	)
	if err != nil {
		return types.Rule{}, fmt.Errorf("update rule %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.Rule{}, types.ErrRuleNotFound
	}
	return rule, nil
}

// Delete removes a rule. Returns types.ErrRuleNotFound for unknown ids.
func (s *RuleStore) Delete(ctx context.Context, id int64) error {
	res, err := s.q.Exec(ctx, "delete-rule", id)
	if err != nil {
		return fmt.Errorf("delete rule %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrRuleNotFound
	}
	return nil
}

// SetActive toggles a rule without touching the rest of its definition.
func (s *RuleStore) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.q.Exec(ctx, "set-rule-active", active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("toggle rule %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrRuleNotFound
	}
	return nil
}

func decodeRuleRows(rows []ruleRow) ([]types.Rule, error) {
	out := make([]types.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := row.toRule()
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}
