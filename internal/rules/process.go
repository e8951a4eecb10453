// internal/rules/process.go
package rules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Rule processing orchestration.
 *
 * One lead lifecycle event drives exactly one processor pass:
 *   1. Snapshot active rules for the trigger type (single ListActive call;
 *      concurrent rule edits cannot affect an in-flight pass)
 *   2. Stable-sort by effective priority (unset priority runs last; ties
 *      keep store iteration order)
 *   3. Evaluate each rule against the current working snapshot - rules
 *      compose, later rules observe earlier rules' mutations
 *   4. On match: execute actions, append one success record per action,
 *      adopt the new snapshot
 *   5. On rule failure: append a single rule_execution error record and
 *      continue with the snapshot as it stood before the failing rule
 *   6. Persist the final snapshot with SuppressWorkflow set, so the
 *      engine's own write never re-triggers an updated pass
 *
 * Rules run strictly sequentially within a pass. Independent passes for
 * different leads may run concurrently; the processor holds no cross-pass
 * mutable state beyond the rule source and the activity recorder.
 *
 * Each pass carries a UUIDv7 pass ID on its log lines so operators can
 * correlate a burst of activity records back to one event.
 */

// Processor orchestrates rule evaluation and execution for lead events.
type Processor struct {
	rules    RuleSource
	leads    LeadWriter
	executor *Executor
	activity Recorder
}

// NewProcessor wires a processor from its collaborators. tasks may be nil
// to disable the create_task action.
func NewProcessor(ruleSource RuleSource, leads LeadWriter, tasks TaskCreator, activity Recorder) *Processor {
	return &Processor{
		rules:    ruleSource,
		leads:    leads,
		executor: NewExecutor(tasks),
		activity: activity,
	}
}

// Process runs one pass over the lead for the given lifecycle event and
// returns the final mutated snapshot. Rule failures are recorded in the
// activity log and never abort the pass; only an unknown event, a rule
// snapshot failure, or the final persistence write surface as errors.
func (p *Processor) Process(ctx context.Context, lead types.Lead, event types.Event) (types.Lead, error) {
	if event != types.EventCreated && event != types.EventUpdated {
		return lead, fmt.Errorf("%w: %q", types.ErrUnknownEvent, event)
	}

	snapshot, err := p.rules.ListActive(ctx, event.Trigger())
	if err != nil {
		return lead, fmt.Errorf("list active rules: %w", err)
	}
	ordered := orderByPriority(snapshot)

	passID := types.NewPassID()
	logger := log.With().
		Str("pass", string(passID)).
		Int64("lead", lead.ID).
		Str("event", string(event)).
		Logger()

	working := lead.Clone()
	for _, rule := range ordered {
		if !Evaluate(working, rule.Trigger.Conditions) {
			continue
		}

		updated, err := p.executor.Execute(ctx, working, rule.Actions)
		if err != nil {
			logger.Error().Err(err).Int64("rule", rule.ID).Msg("rule execution failed")
			p.record(ctx, types.ActivityRecord{
				RuleID:      rule.ID,
				RuleName:    rule.Name,
				LeadID:      lead.ID,
				LeadName:    lead.Name,
				Action:      types.ActivityActionRuleExecution,
				ActionValue: err.Error(),
				Status:      types.ActivityError,
				TriggeredAt: time.Now(),
			})
			continue
		}

		logger.Info().Int64("rule", rule.ID).Str("name", rule.Name).Msg("rule matched")
		for _, action := range rule.Actions {
			p.record(ctx, types.ActivityRecord{
				RuleID:      rule.ID,
				RuleName:    rule.Name,
				LeadID:      lead.ID,
				LeadName:    lead.Name,
				Action:      string(action.Type),
				ActionValue: action.Value,
				Status:      types.ActivitySuccess,
				TriggeredAt: time.Now(),
			})
		}
		working = updated
	}

	if p.leads != nil {
		opts := types.UpdateOptions{SuppressWorkflow: true}
		if _, err := p.leads.Update(ctx, lead.ID, working, opts); err != nil {
			return working, fmt.Errorf("persist lead %d: %w", lead.ID, err)
		}
	}

	return working, nil
}

// record appends an activity record, logging append failures. A failed
// append loses one audit entry but never aborts the pass.
func (p *Processor) record(ctx context.Context, rec types.ActivityRecord) {
	if p.activity == nil {
		return
	}
	if err := p.activity.Append(ctx, rec); err != nil {
		log.Error().Err(err).Int64("rule", rec.RuleID).Msg("failed to append activity record")
	}
}

// orderByPriority returns the rules sorted ascending by effective
// priority. Stable sort keeps store iteration order for ties. The input
// slice is left untouched.
func orderByPriority(snapshot []types.Rule) []types.Rule {
	ordered := append([]types.Rule(nil), snapshot...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectivePriority() < ordered[j].EffectivePriority()
	})
	return ordered
}
