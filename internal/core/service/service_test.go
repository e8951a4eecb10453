// internal/core/service/service_test.go
package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leadflow/leadflow/internal/core/db"
	"github.com/leadflow/leadflow/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	conn, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "leadflow.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.MigrateUp(conn); err != nil {
		t.Fatalf("MigrateUp() error = %v", err)
	}
	queries, err := db.LoadQueries(conn)
	if err != nil {
		t.Fatalf("LoadQueries() error = %v", err)
	}
	svc, err := New(queries)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func websiteAssignmentRule() types.Rule {
	return types.Rule{
		Name:     "Website assignment",
		IsActive: true,
		Priority: 1,
		Trigger: types.Trigger{
			Type: types.TriggerLeadCreated,
			Conditions: []types.Condition{
				{Field: "source", Operator: types.OpEquals, Value: "Website"},
			},
		},
		Actions: []types.Action{
			{Type: types.ActionAssignUser, Value: "Alice"},
		},
	}
}

func TestService_CreateLeadRunsWorkflow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, websiteAssignmentRule()); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Website"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.AssignedUser != "Alice" {
		t.Errorf("AssignedUser = %q, want Alice", lead.AssignedUser)
	}
	if len(lead.AssignmentHistory) != 1 {
		t.Errorf("AssignmentHistory = %+v, want one entry", lead.AssignmentHistory)
	}

	// The workflow result is what got persisted.
	stored, err := svc.GetLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLead() error = %v", err)
	}
	if stored.AssignedUser != "Alice" {
		t.Errorf("stored AssignedUser = %q, want Alice", stored.AssignedUser)
	}

	records, err := svc.Activity(ctx, 0)
	if err != nil {
		t.Fatalf("Activity() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("activity records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Action != "assign_user" || rec.ActionValue != "Alice" || rec.Status != types.ActivitySuccess {
		t.Errorf("record = %+v", rec)
	}
	if rec.LeadName != "Jane Smith" {
		t.Errorf("LeadName = %q, want Jane Smith", rec.LeadName)
	}
}

func TestService_UpdateLeadTriggersUpdatedRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule := websiteAssignmentRule()
	rule.Name = "Qualified notification"
	rule.Trigger.Type = types.TriggerLeadUpdated
	rule.Trigger.Conditions = []types.Condition{
		{Field: "status", Operator: types.OpEquals, Value: "Qualified"},
	}
	rule.Actions = []types.Action{
		{Type: types.ActionAddTag, Value: "qualified"},
	}
	if _, err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Referral"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	lead.Status = "Qualified"
	updated, err := svc.UpdateLead(ctx, lead.ID, lead, types.UpdateOptions{})
	if err != nil {
		t.Fatalf("UpdateLead() error = %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "qualified" {
		t.Errorf("Tags = %v, want [qualified]", updated.Tags)
	}

	// One record from the single matched rule; the engine's own
	// persistence write must not have re-fired it.
	records, err := svc.Activity(ctx, 0)
	if err != nil {
		t.Fatalf("Activity() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("activity records = %d, want 1", len(records))
	}
}

func TestService_SuppressWorkflowSkipsRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule := websiteAssignmentRule()
	rule.Trigger.Type = types.TriggerLeadUpdated
	if _, err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Website"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	lead.Company = "Acme Corp"
	updated, err := svc.UpdateLead(ctx, lead.ID, lead, types.UpdateOptions{SuppressWorkflow: true})
	if err != nil {
		t.Fatalf("UpdateLead() error = %v", err)
	}
	if updated.AssignedUser != "" {
		t.Errorf("AssignedUser = %q, want unassigned with workflow suppressed", updated.AssignedUser)
	}
	if records, _ := svc.Activity(ctx, 0); len(records) != 0 {
		t.Errorf("activity records = %d, want 0", len(records))
	}
}

func TestService_CreateTaskAction(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule := websiteAssignmentRule()
	rule.Name = "High value follow-up"
	rule.Trigger.Conditions = []types.Condition{
		{Field: "value", Operator: types.OpGreaterThan, Value: "10000"},
	}
	rule.Actions = []types.Action{
		{Type: types.ActionCreateTask, Value: "Follow up"},
	}
	if _, err := svc.CreateRule(ctx, rule); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Big Fish", Value: 50000})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	tasks, err := svc.ListTasksByLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("ListTasksByLead() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Follow up" || task.Status != types.TaskStatusPending {
		t.Errorf("task = %+v", task)
	}
	if task.AssignedUser != "Unassigned" {
		t.Errorf("AssignedUser = %q, want Unassigned fallback", task.AssignedUser)
	}
	if task.CreatedBy != types.AutomationActor {
		t.Errorf("CreatedBy = %q, want %q", task.CreatedBy, types.AutomationActor)
	}

	if err := svc.CompleteTask(ctx, task.ID); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if pending, _ := svc.ListPendingTasks(ctx); len(pending) != 0 {
		t.Errorf("pending tasks = %d, want 0", len(pending))
	}
}

func TestService_CreateRuleRejectsInvalidDraft(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateRule(context.Background(), types.Rule{Name: "incomplete"})
	if !errors.Is(err, types.ErrInvalidRule) {
		t.Fatalf("CreateRule() error = %v, want ErrInvalidRule", err)
	}
	// Every violation is reported, not just the first.
	if got := err.Error(); !containsAll(got,
		"At least one trigger condition is required",
		"At least one action is required") {
		t.Errorf("error = %q, want both validation messages", got)
	}
}

func TestService_ToggleRule(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, websiteAssignmentRule())
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}

	active, err := svc.ToggleRule(ctx, rule.ID)
	if err != nil {
		t.Fatalf("ToggleRule() error = %v", err)
	}
	if active {
		t.Error("ToggleRule() = true, want false after toggling an active rule")
	}

	// A disabled rule no longer fires.
	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Website"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.AssignedUser != "" {
		t.Errorf("AssignedUser = %q, want unassigned", lead.AssignedUser)
	}

	if _, err := svc.ToggleRule(ctx, 404); !errors.Is(err, types.ErrRuleNotFound) {
		t.Errorf("ToggleRule() error = %v, want ErrRuleNotFound", err)
	}
}

func TestService_CreateRuleFromTemplate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	templates, err := svc.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(templates) == 0 {
		t.Fatal("no seeded templates")
	}

	rule, err := svc.CreateRuleFromTemplate(ctx, templates[0].ID)
	if err != nil {
		t.Fatalf("CreateRuleFromTemplate() error = %v", err)
	}
	if rule.IsActive {
		t.Error("template rule must start inactive")
	}
	if rule.ID == 0 {
		t.Error("template rule not persisted")
	}
	if len(rule.Trigger.Conditions) == 0 || len(rule.Actions) == 0 {
		t.Errorf("template payload missing: %+v", rule)
	}
}

func TestService_TestRuleIsPure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	lead, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Website"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	draft := websiteAssignmentRule()
	draft.Actions = append(draft.Actions, types.Action{Type: types.ActionCreateTask, Value: "Call"})

	outcome, err := svc.TestRule(ctx, draft, lead.ID)
	if err != nil {
		t.Fatalf("TestRule() error = %v", err)
	}
	if !outcome.Matches {
		t.Fatal("Matches = false, want true")
	}
	if outcome.Result.AssignedUser != "Alice" {
		t.Errorf("Result.AssignedUser = %q, want Alice", outcome.Result.AssignedUser)
	}

	// Nothing persisted by the dry run.
	stored, _ := svc.GetLead(ctx, lead.ID)
	if stored.AssignedUser != "" {
		t.Errorf("stored AssignedUser = %q, want untouched", stored.AssignedUser)
	}
	if tasks, _ := svc.ListTasks(ctx); len(tasks) != 0 {
		t.Errorf("tasks = %d, want 0 after dry run", len(tasks))
	}
	if records, _ := svc.Activity(ctx, 0); len(records) != 0 {
		t.Errorf("activity records = %d, want 0 after dry run", len(records))
	}
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, websiteAssignmentRule())
	if err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	if _, err := svc.CreateLead(ctx, types.Lead{Name: "Jane Smith", Source: "Website"}); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRules != 1 || stats.ActiveRules != 1 {
		t.Errorf("rule counts = %d/%d, want 1/1", stats.TotalRules, stats.ActiveRules)
	}
	if stats.SuccessfulRuns != 1 || stats.FailedRuns != 0 {
		t.Errorf("runs = %d/%d, want 1/0", stats.SuccessfulRuns, stats.FailedRuns)
	}
	if len(stats.RulePerformance) != 1 {
		t.Fatalf("RulePerformance length = %d, want 1", len(stats.RulePerformance))
	}
	perf := stats.RulePerformance[0]
	if perf.RuleID != rule.ID || perf.TotalRuns != 1 || perf.LastRun == nil {
		t.Errorf("performance = %+v", perf)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
