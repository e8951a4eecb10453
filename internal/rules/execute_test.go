// internal/rules/execute_test.go
package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leadflow/leadflow/internal/types"
)

type fakeTasks struct {
	drafts []types.TaskDraft
	err    error
}

func (f *fakeTasks) CreateTask(ctx context.Context, draft types.TaskDraft) (types.Task, error) {
	if f.err != nil {
		return types.Task{}, f.err
	}
	f.drafts = append(f.drafts, draft)
	return types.Task{ID: int64(len(f.drafts)), Title: draft.Title}, nil
}

func fixedClock() (time.Time, func() time.Time) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return at, func() time.Time { return at }
}

func TestExecute_AssignUser(t *testing.T) {
	at, clock := fixedClock()
	e := NewExecutor(nil)
	e.now = clock

	lead := sampleLead()
	updated, err := e.Execute(context.Background(), lead, []types.Action{
		{Type: types.ActionAssignUser, Value: "Alice"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	if updated.AssignedUser != "Alice" {
		t.Errorf("AssignedUser = %q, want Alice", updated.AssignedUser)
	}
	if len(updated.AssignmentHistory) != 1 {
		t.Fatalf("AssignmentHistory length = %d, want 1", len(updated.AssignmentHistory))
	}
	entry := updated.AssignmentHistory[0]
	if entry.AssignedBy != types.AutomationActor {
		t.Errorf("AssignedBy = %q, want %q", entry.AssignedBy, types.AutomationActor)
	}
	if entry.Reason != "Automated assignment" {
		t.Errorf("Reason = %q, want Automated assignment", entry.Reason)
	}
	if !entry.AssignedAt.Equal(at) {
		t.Errorf("AssignedAt = %v, want %v", entry.AssignedAt, at)
	}
	if !updated.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, at)
	}

	// Input snapshot untouched
	if lead.AssignedUser != "" || len(lead.AssignmentHistory) != 0 {
		t.Errorf("input lead mutated: %+v", lead)
	}
}

func TestExecute_SetStatus(t *testing.T) {
	_, clock := fixedClock()
	e := NewExecutor(nil)
	e.now = clock

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionSetStatus, Value: "Qualified"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if updated.Status != "Qualified" {
		t.Errorf("Status = %q, want Qualified", updated.Status)
	}
	if len(updated.StatusHistory) != 1 || updated.StatusHistory[0].ChangedBy != types.AutomationActor {
		t.Errorf("unexpected status history: %+v", updated.StatusHistory)
	}
}

func TestExecute_AddTagDeduplicates(t *testing.T) {
	e := NewExecutor(nil)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionAddTag, Value: "hot"},
		{Type: types.ActionAddTag, Value: "hot"},
		{Type: types.ActionAddTag, Value: "inbound"}, // already on the lead
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	want := []string{"inbound", "enterprise", "hot"}
	if len(updated.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", updated.Tags, want)
	}
	for i := range want {
		if updated.Tags[i] != want[i] {
			t.Errorf("Tags[%d] = %q, want %q", i, updated.Tags[i], want[i])
		}
	}
}

func TestExecute_NoteAndNotification(t *testing.T) {
	e := NewExecutor(nil)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionAddNote, Value: "Follow up next week"},
		{Type: types.ActionSendNotification, Value: "New lead assigned"},
		{Type: types.ActionSetPriority, Value: "Urgent"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if len(updated.Notes) != 1 || updated.Notes[0].Content != "Follow up next week" {
		t.Errorf("unexpected notes: %+v", updated.Notes)
	}
	if len(updated.Notifications) != 1 {
		t.Fatalf("Notifications length = %d, want 1", len(updated.Notifications))
	}
	n := updated.Notifications[0]
	if n.Type != types.NotificationTypeAutomation || n.SentBy != types.AutomationActor {
		t.Errorf("unexpected notification: %+v", n)
	}
	if updated.Priority != "Urgent" {
		t.Errorf("Priority = %q, want Urgent", updated.Priority)
	}
}

func TestExecute_UpdateField(t *testing.T) {
	e := NewExecutor(nil)

	tests := []struct {
		name   string
		action types.Action
		want   map[string]string
	}{
		{
			"sets custom field",
			types.Action{Type: types.ActionUpdateField, Field: "segment", Value: "SMB"},
			map[string]string{"region": "EMEA", "segment": "SMB"},
		},
		{
			"missing field name is a no-op",
			types.Action{Type: types.ActionUpdateField, Value: "SMB"},
			map[string]string{"region": "EMEA"},
		},
		{
			"missing value is a no-op",
			types.Action{Type: types.ActionUpdateField, Field: "segment"},
			map[string]string{"region": "EMEA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{tt.action})
			if err != nil {
				t.Fatalf("Execute() error = %v, want nil", err)
			}
			if len(updated.CustomFields) != len(tt.want) {
				t.Fatalf("CustomFields = %v, want %v", updated.CustomFields, tt.want)
			}
			for k, v := range tt.want {
				if updated.CustomFields[k] != v {
					t.Errorf("CustomFields[%q] = %q, want %q", k, updated.CustomFields[k], v)
				}
			}
		})
	}
}

func TestExecute_CreateTask(t *testing.T) {
	at, clock := fixedClock()
	tasks := &fakeTasks{}
	e := NewExecutor(tasks)
	e.now = clock

	lead := sampleLead()
	lead.AssignedUser = "Bob"

	if _, err := e.Execute(context.Background(), lead, []types.Action{
		{Type: types.ActionCreateTask, Value: "Call back"},
	}); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	if len(tasks.drafts) != 1 {
		t.Fatalf("task drafts = %d, want 1", len(tasks.drafts))
	}
	draft := tasks.drafts[0]
	if draft.Title != "Call back" {
		t.Errorf("Title = %q, want Call back", draft.Title)
	}
	if draft.Description != "Automated task created for lead: Jane Smith" {
		t.Errorf("Description = %q", draft.Description)
	}
	if draft.AssignedUser != "Bob" {
		t.Errorf("AssignedUser = %q, want Bob", draft.AssignedUser)
	}
	if !draft.DueDate.Equal(at.Add(types.TaskDueOffset)) {
		t.Errorf("DueDate = %v, want %v", draft.DueDate, at.Add(types.TaskDueOffset))
	}
	if draft.Priority != "Medium" || draft.Status != types.TaskStatusPending {
		t.Errorf("draft = %+v", draft)
	}
	if draft.LeadID != lead.ID || draft.CreatedBy != types.AutomationActor {
		t.Errorf("draft = %+v", draft)
	}
}

func TestExecute_CreateTaskUnassignedFallback(t *testing.T) {
	tasks := &fakeTasks{}
	e := NewExecutor(tasks)

	if _, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionCreateTask, Value: "Call back"},
	}); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if tasks.drafts[0].AssignedUser != "Unassigned" {
		t.Errorf("AssignedUser = %q, want Unassigned", tasks.drafts[0].AssignedUser)
	}
}

func TestExecute_TaskFailureDoesNotAbortRule(t *testing.T) {
	tasks := &fakeTasks{err: errors.New("task store down")}
	e := NewExecutor(tasks)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionCreateTask, Value: "Call back"},
		{Type: types.ActionSetStatus, Value: "Contacted"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil despite task failure", err)
	}
	if updated.Status != "Contacted" {
		t.Errorf("Status = %q, want Contacted after failed create_task", updated.Status)
	}
}

func TestExecute_NilTaskCreatorSkipsTasks(t *testing.T) {
	e := NewExecutor(nil)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionCreateTask, Value: "Call back"},
		{Type: types.ActionAddTag, Value: "hot"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !containsTag(updated.Tags, "hot") {
		t.Errorf("Tags = %v, want hot present", updated.Tags)
	}
}

func TestExecute_UnknownActionSkipped(t *testing.T) {
	e := NewExecutor(nil)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: "launch_rockets", Value: "now"},
		{Type: types.ActionSetPriority, Value: "Low"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if updated.Priority != "Low" {
		t.Errorf("Priority = %q, want Low after unknown action", updated.Priority)
	}
}

func TestExecute_ActionsAccumulate(t *testing.T) {
	e := NewExecutor(nil)

	updated, err := e.Execute(context.Background(), sampleLead(), []types.Action{
		{Type: types.ActionSetStatus, Value: "Contacted"},
		{Type: types.ActionSetStatus, Value: "Qualified"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if updated.Status != "Qualified" {
		t.Errorf("Status = %q, want Qualified", updated.Status)
	}
	if len(updated.StatusHistory) != 2 {
		t.Errorf("StatusHistory length = %d, want 2", len(updated.StatusHistory))
	}
}

func TestExecute_CanceledContext(t *testing.T) {
	e := NewExecutor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lead := sampleLead()
	updated, err := e.Execute(ctx, lead, []types.Action{
		{Type: types.ActionSetStatus, Value: "Contacted"},
	})
	if err == nil {
		t.Fatal("Execute() error = nil, want context error")
	}
	if updated.Status != lead.Status {
		t.Errorf("Status = %q, want input snapshot unchanged", updated.Status)
	}
}
