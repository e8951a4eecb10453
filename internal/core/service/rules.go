// internal/core/service/rules.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadflow/leadflow/internal/rules"
	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Rule and template management.
 *
 * Create and update are guarded by the validator: a draft that fails
 * validation is rejected with ErrInvalidRule carrying every message,
 * so rule builders can show the full list in one round trip. Toggle,
 * delete, and reads pass straight through to the store.
 *
 * Templates are read-only blueprints seeded by migration. Instantiating
 * one produces an inactive rule draft that goes through the same
 * validated create path as a hand-written rule.
 */

// ListRules returns all rules.
func (s *Service) ListRules(ctx context.Context) ([]types.Rule, error) {
	return s.rules.List(ctx)
}

// GetRule returns the rule by id.
func (s *Service) GetRule(ctx context.Context, id int64) (types.Rule, error) {
	return s.rules.GetByID(ctx, id)
}

// CreateRule validates and persists a new rule.
func (s *Service) CreateRule(ctx context.Context, draft types.Rule) (types.Rule, error) {
	if err := checkRule(draft); err != nil {
		return types.Rule{}, err
	}
	return s.rules.Create(ctx, draft)
}

// UpdateRule validates and persists changes to an existing rule.
func (s *Service) UpdateRule(ctx context.Context, id int64, rule types.Rule) (types.Rule, error) {
	if err := checkRule(rule); err != nil {
		return types.Rule{}, err
	}
	return s.rules.Update(ctx, id, rule)
}

// DeleteRule removes the rule. Its activity records are retained.
func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	return s.rules.Delete(ctx, id)
}

// ToggleRule flips the rule's active flag and returns the new state.
func (s *Service) ToggleRule(ctx context.Context, id int64) (bool, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	active := !rule.IsActive
	if err := s.rules.SetActive(ctx, id, active); err != nil {
		return false, err
	}
	return active, nil
}

// ValidateRule reports every validation problem with the draft.
func (s *Service) ValidateRule(draft types.Rule) rules.ValidationResult {
	return rules.ValidateRule(draft)
}

// TestRule dry-runs the draft against the stored lead. Nothing is
// persisted and no tasks are created.
func (s *Service) TestRule(ctx context.Context, draft types.Rule, leadID int64) (rules.TestOutcome, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return rules.TestOutcome{}, err
	}
	return rules.TestRule(ctx, draft, lead), nil
}

// ListTemplates returns all rule templates.
func (s *Service) ListTemplates(ctx context.Context) ([]types.Template, error) {
	return s.templates.List(ctx)
}

// GetTemplate returns the template by id.
func (s *Service) GetTemplate(ctx context.Context, id int64) (types.Template, error) {
	return s.templates.GetByID(ctx, id)
}

// CreateRuleFromTemplate instantiates the template and persists the
// resulting draft as an inactive rule.
func (s *Service) CreateRuleFromTemplate(ctx context.Context, templateID int64) (types.Rule, error) {
	tmpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return types.Rule{}, err
	}
	return s.CreateRule(ctx, tmpl.Instantiate())
}

// checkRule maps a failed validation to ErrInvalidRule with every
// message joined, so errors.Is works and the caller still sees the
// full list.
func checkRule(draft types.Rule) error {
	result := rules.ValidateRule(draft)
	if result.IsValid {
		return nil
	}
	return fmt.Errorf("%w: %s", types.ErrInvalidRule, strings.Join(result.Errors, "; "))
}
