// internal/store/leads.go
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

// LeadStore persists leads. It performs plain persistence only; workflow
// dispatch on create/update lives in the service layer, which is where
// the SuppressWorkflow guard is enforced.
type LeadStore struct {
	q *db.Queries
}

// NewLeadStore creates a lead store over loaded queries.
func NewLeadStore(q *db.Queries) *LeadStore {
	return &LeadStore{q: q}
}

// leadRow is the flat database shape of a lead.
type leadRow struct {
	ID                int64     `db:"id"`
	Name              string    `db:"name"`
	Title             string    `db:"title"`
	Company           string    `db:"company"`
	Email             string    `db:"email"`
	Phone             string    `db:"phone"`
	Address           string    `db:"address"`
	Source            string    `db:"source"`
	Status            string    `db:"status"`
	Value             float64   `db:"value"`
	Priority          string    `db:"priority"`
	Score             float64   `db:"score"`
	AssignedUser      string    `db:"assigned_user"`
	Tags              string    `db:"tags"`
	CustomFields      string    `db:"custom_fields"`
	AssignmentHistory string    `db:"assignment_history"`
	StatusHistory     string    `db:"status_history"`
	Notes             string    `db:"notes"`
	Notifications     string    `db:"notifications"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r leadRow) toLead() (types.Lead, error) {
	lead := types.Lead{
		ID:           r.ID,
		Name:         r.Name,
		Title:        r.Title,
		Company:      r.Company,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		Source:       r.Source,
		Status:       r.Status,
		Value:        r.Value,
		Priority:     r.Priority,
		Score:        r.Score,
		AssignedUser: r.AssignedUser,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	embedded := []struct {
		raw  string
		dest any
	}{
		{r.Tags, &lead.Tags},
		{r.CustomFields, &lead.CustomFields},
		{r.AssignmentHistory, &lead.AssignmentHistory},
		{r.StatusHistory, &lead.StatusHistory},
		{r.Notes, &lead.Notes},
		{r.Notifications, &lead.Notifications},
	}
	for _, col := range embedded {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return types.Lead{}, fmt.Errorf("lead %d: decode embedded column: %w", r.ID, err)
		}
	}
	return lead, nil
}

// encodeLead serializes the lead's structured columns. Nil slices encode
// as empty JSON collections so the columns stay NOT NULL.
func encodeLead(lead types.Lead) (tags, customFields, assignments, statuses, notes, notifications string, err error) {
	enc := func(v any, empty string) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		s := string(b)
		if s == "null" {
			s = empty
		}
		return s, nil
	}

	if tags, err = enc(lead.Tags, "[]"); err != nil {
		return
	}
	if customFields, err = enc(lead.CustomFields, "{}"); err != nil {
		return
	}
	if assignments, err = enc(lead.AssignmentHistory, "[]"); err != nil {
		return
	}
	if statuses, err = enc(lead.StatusHistory, "[]"); err != nil {
		return
	}
	if notes, err = enc(lead.Notes, "[]"); err != nil {
		return
	}
	notifications, err = enc(lead.Notifications, "[]")
	return
}

// List returns all leads ordered by id.
func (s *LeadStore) List(ctx context.Context) ([]types.Lead, error) {
	var rows []leadRow
	if err := s.q.Select(ctx, "list-leads", &rows); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return decodeLeadRows(rows)
}

// ListByStatus returns leads in a given status, ordered by id.
func (s *LeadStore) ListByStatus(ctx context.Context, status string) ([]types.Lead, error) {
	var rows []leadRow
	if err := s.q.Select(ctx, "list-leads-by-status", &rows, status); err != nil {
		return nil, fmt.Errorf("list leads by status: %w", err)
	}
	return decodeLeadRows(rows)
}

// GetByID returns one lead or types.ErrLeadNotFound.
func (s *LeadStore) GetByID(ctx context.Context, id int64) (types.Lead, error) {
	var row leadRow
	if err := s.q.Get(ctx, "get-lead", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Lead{}, types.ErrLeadNotFound
		}
		return types.Lead{}, fmt.Errorf("get lead %d: %w", id, err)
	}
	return row.toLead()
}

// Create persists a new lead. New leads start in status New unless the
// draft says otherwise.
func (s *LeadStore) Create(ctx context.Context, draft types.Lead) (types.Lead, error) {
	var id int64
	if err := s.q.Get(ctx, "next-lead-id", &id); err != nil {
		return types.Lead{}, fmt.Errorf("allocate lead id: %w", err)
	}

	now := time.Now().UTC()
	draft.ID = id
	if draft.Status == "" {
		draft.Status = "New"
	}
	draft.CreatedAt = now
	draft.UpdatedAt = now

	tags, customFields, assignments, statuses, notes, notifications, err := encodeLead(draft)
	if err != nil {
		return types.Lead{}, fmt.Errorf("encode lead: %w", err)
	}

	_, err = s.q.Exec(ctx, "create-lead",
		draft.ID, draft.Name, draft.Title, draft.Company, draft.Email, draft.Phone, draft.Address,
		draft.Source, draft.Status, draft.Value, draft.Priority, draft.Score, draft.AssignedUser,
		tags, customFields, assignments, statuses, notes, notifications,
		draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return types.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return draft, nil
}

// Update overwrites a lead. Returns types.ErrLeadNotFound for unknown ids.
func (s *LeadStore) Update(ctx context.Context, id int64, lead types.Lead) (types.Lead, error) {
	lead.ID = id
	lead.UpdatedAt = time.Now().UTC()

	tags, customFields, assignments, statuses, notes, notifications, err := encodeLead(lead)
	if err != nil {
		return types.Lead{}, fmt.Errorf("encode lead: %w", err)
	}

	res, err := s.q.Exec(ctx, "update-lead",
		lead.Name, lead.Title, lead.Company, lead.Email, lead.Phone, lead.Address,
		lead.Source, lead.Status, lead.Value, lead.Priority, lead.Score, lead.AssignedUser,
		tags, customFields, assignments, statuses, notes, notifications,
		lead.UpdatedAt, id,
	)
	if err != nil {
		return types.Lead{}, fmt.Errorf("update lead %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.Lead{}, types.ErrLeadNotFound
	}
	return lead, nil
}

// Delete removes a lead. Returns types.ErrLeadNotFound for unknown ids.
func (s *LeadStore) Delete(ctx context.Context, id int64) error {
	res, err := s.q.Exec(ctx, "delete-lead", id)
	if err != nil {
		return fmt.Errorf("delete lead %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrLeadNotFound
	}
	return nil
}

func decodeLeadRows(rows []leadRow) ([]types.Lead, error) {
	out := make([]types.Lead, 0, len(rows))
	for _, row := range rows {
		lead, err := row.toLead()
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, nil
}
