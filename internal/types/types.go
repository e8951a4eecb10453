// Package types provides domain models shared across leadflow components.
//
// Hand-written types only: the engine, stores, and CLI all exchange these
// structs directly. JSON tags follow the historical wire format of the lead
// records (camelCase) so exported leads and rule definitions round-trip
// against existing data files.
package types

import "time"

// AutomationActor is the attribution recorded on every mutation the
// workflow engine makes to a lead (assignment history, status history,
// notes, notifications, tasks).
const AutomationActor = "Workflow Automation"

// NotificationTypeAutomation marks notifications appended by the engine.
const NotificationTypeAutomation = "automation"

// Engine-wide resource limits and sentinels.
const (
	// MaxActivityRecords bounds the activity log. On overflow the oldest
	// record is evicted; reads are newest-first.
	MaxActivityRecords = 1000

	// DefaultRulePriority is the effective priority of a rule with no
	// explicit priority. Large sentinel so unprioritized rules run last.
	DefaultRulePriority = 999

	// TaskDueOffset is how far in the future automated tasks are due.
	TaskDueOffset = 24 * time.Hour
)

// Lead is the subject entity the engine evaluates and mutates. The engine
// receives a copy, mutates the copy, and hands it back for persistence; it
// never holds a long-lived reference to a stored lead.
type Lead struct {
	ID           int64             `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Title        string            `json:"title" db:"title"`
	Company      string            `json:"company" db:"company"`
	Email        string            `json:"email" db:"email"`
	Phone        string            `json:"phone" db:"phone"`
	Address      string            `json:"address" db:"address"`
	Source       string            `json:"source" db:"source"`
	Status       string            `json:"status" db:"status"`
	Value        float64           `json:"value" db:"value"`
	Priority     string            `json:"priority" db:"priority"`
	Score        float64           `json:"score" db:"score"`
	AssignedUser string            `json:"assignedUser" db:"assigned_user"`
	Tags         []string          `json:"tags"`
	CustomFields map[string]string `json:"customFields"`

	// Append-only mutation history embedded in the lead. The engine
	// appends when executing the corresponding action types.
	AssignmentHistory []Assignment   `json:"assignmentHistory"`
	StatusHistory     []StatusChange `json:"statusHistory"`
	Notes             []Note         `json:"notes"`
	Notifications     []Notification `json:"notifications"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy of the lead. Slices and maps are copied so
// mutations to the clone never leak into the original snapshot.
func (l Lead) Clone() Lead {
	c := l
	if l.Tags != nil {
		c.Tags = append([]string(nil), l.Tags...)
	}
	if l.CustomFields != nil {
		c.CustomFields = make(map[string]string, len(l.CustomFields))
		for k, v := range l.CustomFields {
			c.CustomFields[k] = v
		}
	}
	if l.AssignmentHistory != nil {
		c.AssignmentHistory = append([]Assignment(nil), l.AssignmentHistory...)
	}
	if l.StatusHistory != nil {
		c.StatusHistory = append([]StatusChange(nil), l.StatusHistory...)
	}
	if l.Notes != nil {
		c.Notes = append([]Note(nil), l.Notes...)
	}
	if l.Notifications != nil {
		c.Notifications = append([]Notification(nil), l.Notifications...)
	}
	return c
}

// UpdateOptions controls side effects of a lead update. SuppressWorkflow
// is the recursion guard: the rule processor sets it on its own persistence
// writes so they are not fed back into the processor as updated events.
type UpdateOptions struct {
	SuppressWorkflow bool
}

// Assignment is one entry in a lead's assignment history.
type Assignment struct {
	AssignedUser string    `json:"assignedUser"`
	AssignedAt   time.Time `json:"assignedAt"`
	AssignedBy   string    `json:"assignedBy"`
	Reason       string    `json:"reason,omitempty"`
}

// StatusChange is one entry in a lead's status history.
type StatusChange struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
	ChangedBy string    `json:"changedBy"`
}

// Note is a free-form note attached to a lead.
type Note struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// Notification is a recorded notification request. Delivery is out of
// scope; this is an audit entry on the lead itself.
type Notification struct {
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
	SentBy  string    `json:"sentBy"`
	Type    string    `json:"type"`
}

// Task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task is a follow-up item, optionally linked to a lead.
type Task struct {
	ID            int64      `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	AssignedUser  string     `json:"assignedUser" db:"assigned_user"`
	DueDate       time.Time  `json:"dueDate" db:"due_date"`
	Priority      string     `json:"priority" db:"priority"`
	Status        string     `json:"status" db:"status"`
	LeadID        int64      `json:"leadId" db:"lead_id"`
	CreatedBy     string     `json:"createdBy" db:"created_by"`
	CompletedDate *time.Time `json:"completedDate" db:"completed_date"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssignedUser string    `json:"assignedUser"`
	DueDate      time.Time `json:"dueDate"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	LeadID       int64     `json:"leadId"`
	CreatedBy    string    `json:"createdBy"`
}

// ActivityStatus is the outcome recorded on an activity record.
type ActivityStatus string

const (
	ActivitySuccess ActivityStatus = "success"
	ActivityError   ActivityStatus = "error"
)

// ActivityActionRuleExecution is the sentinel action recorded when a whole
// rule fails, as opposed to one record per successfully executed action.
const ActivityActionRuleExecution = "rule_execution"

// ActivityRecord is one immutable audit-log entry: a single fired action,
// or a single rule-level failure.
type ActivityRecord struct {
	ID          int64          `json:"id" db:"id"`
	RuleID      int64          `json:"ruleId" db:"rule_id"`
	RuleName    string         `json:"ruleName" db:"rule_name"`
	LeadID      int64          `json:"leadId" db:"lead_id"`
	LeadName    string         `json:"leadName" db:"lead_name"`
	Action      string         `json:"action" db:"action"`
	ActionValue string         `json:"actionValue" db:"action_value"`
	Status      ActivityStatus `json:"status" db:"status"`
	TriggeredAt time.Time      `json:"triggeredAt" db:"triggered_at"`
}
