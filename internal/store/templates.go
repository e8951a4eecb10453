// internal/store/templates.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/types"
)

// TemplateStore reads the seeded rule-template catalog. Templates are
// read-only: they are created by migration, never through the API.
type TemplateStore struct {
	q *db.Queries
}

// NewTemplateStore creates a template store over loaded queries.
func NewTemplateStore(q *db.Queries) *TemplateStore {
	return &TemplateStore{q: q}
}

type templateRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Category    string `db:"category"`
	TriggerType string `db:"trigger_type"`
	Conditions  string `db:"conditions"`
	Actions     string `db:"actions"`
}

func (r templateRow) toTemplate() (types.Template, error) {
	var conditions []types.Condition
	if err := json.Unmarshal([]byte(r.Conditions), &conditions); err != nil {
		return types.Template{}, fmt.Errorf("template %d: decode conditions: %w", r.ID, err)
	}
	var actions []types.Action
	if err := json.Unmarshal([]byte(r.Actions), &actions); err != nil {
		return types.Template{}, fmt.Errorf("template %d: decode actions: %w", r.ID, err)
	}

	return types.Template{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Trigger: types.Trigger{
			Type:       types.TriggerType(r.TriggerType),
			Conditions: conditions,
		},
		Actions: actions,
	}, nil
}

// List returns the full template catalog.
func (s *TemplateStore) List(ctx context.Context) ([]types.Template, error) {
	var rows []templateRow
	if err := s.q.Select(ctx, "list-templates", &rows); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	out := make([]types.Template, 0, len(rows))
	for _, row := range rows {
		tpl, err := row.toTemplate()
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

// GetByID returns one template or types.ErrTemplateNotFound.
func (s *TemplateStore) GetByID(ctx context.Context, id int64) (types.Template, error) {
	var row templateRow
	if err := s.q.Get(ctx, "get-template", &row, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Template{}, types.ErrTemplateNotFound
		}
		return types.Template{}, fmt.Errorf("get template %d: %w", id, err)
	}
	return row.toTemplate()
}
