// internal/types/rules.go
package types

import "time"

/*
 * Domain types for workflow rule definitions.
 *
 * Provides Rule, Trigger, Condition, Action, and Template structures used by
 * internal/engine for evaluation and by internal/store for persistence.
 * Enum values are strings matching the historical rule-definition format
 * ("lead_created", "equals", "assign_user", ...) so stored rules parse
 * unchanged.
 *
 * Key types:
 *   - Rule: Complete rule definition (trigger conditions + actions)
 *   - Trigger: Lifecycle event type plus its AND-joined condition list
 *   - Condition: Single field/operator/value comparison
 *   - Action: Single mutation or side-effecting request
 *   - Template: Read-only blueprint used to seed new rules
 */

// Event is a lead lifecycle event the engine reacts to.
type Event string

const (
	EventCreated Event = "created"
	EventUpdated Event = "updated"
)

// Trigger returns the trigger type rules use to subscribe to this event.
func (e Event) Trigger() TriggerType {
	return TriggerType("lead_" + string(e))
}

// TriggerType identifies which lifecycle event a rule listens for.
type TriggerType string

const (
	TriggerLeadCreated TriggerType = "lead_created"
	TriggerLeadUpdated TriggerType = "lead_updated"
)

// Operator is a condition comparison operator.
type Operator string

const (
	OpEquals           Operator = "equals"
	OpNotEquals        Operator = "not_equals"
	OpContains         Operator = "contains"
	OpNotContains      Operator = "not_contains"
	OpGreaterThan      Operator = "greater_than"
	OpLessThan         Operator = "less_than"
	OpGreaterThanEqual Operator = "greater_than_equal"
	OpLessThanEqual    Operator = "less_than_equal"
	OpIsEmpty          Operator = "is_empty"
	OpIsNotEmpty       Operator = "is_not_empty"
)

// RequiresValue reports whether the operator needs a comparison value.
// Emptiness checks compare against nothing.
func (op Operator) RequiresValue() bool {
	return op != OpIsEmpty && op != OpIsNotEmpty
}

// ActionType identifies what an action does when its rule matches.
type ActionType string

const (
	ActionAssignUser       ActionType = "assign_user"
	ActionSetStatus        ActionType = "set_status"
	ActionAddTag           ActionType = "add_tag"
	ActionSetPriority      ActionType = "set_priority"
	ActionAddNote          ActionType = "add_note"
	ActionCreateTask       ActionType = "create_task"
	ActionSendNotification ActionType = "send_notification"
	ActionUpdateField      ActionType = "update_field"
)

// Condition is a single comparison evaluated against a lead. Field names
// resolve against known lead attributes first, then custom fields.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value,omitempty"`
}

// Action is one mutation or side-effecting request applied on match.
// Field is only meaningful for update_field.
type Action struct {
	Type  ActionType `json:"type"`
	Value string     `json:"value,omitempty"`
	Field string     `json:"field,omitempty"`
}

// Trigger binds a lifecycle event to the conditions that must all hold.
type Trigger struct {
	Type       TriggerType `json:"type"`
	Conditions []Condition `json:"conditions"`
}

// Rule is a complete workflow rule. A persisted rule always has at least
// one condition and one action; the validator enforces this before
// create/update, the engine assumes it at run time.
type Rule struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	Priority    int       `json:"priority,omitempty" db:"priority"`
	Trigger     Trigger   `json:"trigger"`
	Actions     []Action  `json:"actions"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	CreatedBy   string    `json:"createdBy" db:"created_by"`
}

// EffectivePriority returns the rank used for execution ordering. Zero
// means unset and maps to the DefaultRulePriority sentinel, so
// unprioritized rules run after every explicitly prioritized one.
func (r Rule) EffectivePriority() int {
	if r.Priority == 0 {
		return DefaultRulePriority
	}
	return r.Priority
}

// Template is a read-only rule blueprint. Templates are never executed
// directly; they seed new rule drafts via Instantiate.
type Template struct {
	ID          int64    `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Category    string   `json:"category" db:"category"`
	Trigger     Trigger  `json:"trigger"`
	Actions     []Action `json:"actions"`
}

// Instantiate produces a rule draft from the template. The draft is
// inactive until a caller reviews and persists it.
func (t Template) Instantiate() Rule {
	return Rule{
		Name:        t.Name,
		Description: t.Description,
		IsActive:    false,
		Trigger: Trigger{
			Type:       t.Trigger.Type,
			Conditions: append([]Condition(nil), t.Trigger.Conditions...),
		},
		Actions: append([]Action(nil), t.Actions...),
	}
}
