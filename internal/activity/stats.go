// internal/activity/stats.go
package activity

import (
	"time"

	"github.com/leadflow/leadflow/internal/types"
)

// Stats summarizes rule inventory and activity outcomes for dashboards.
type Stats struct {
	TotalRules     int               `json:"totalRules"`
	ActiveRules    int               `json:"activeRules"`
	InactiveRules  int               `json:"inactiveRules"`
	TotalActivity  int               `json:"totalActivity"`
	SuccessfulRuns int               `json:"successfulRuns"`
	FailedRuns     int               `json:"failedRuns"`
	RulePerformance []RulePerformance `json:"rulePerformance"`
}

// RulePerformance aggregates activity outcomes for a single rule.
// LastRun is nil for rules that have never fired within log retention.
type RulePerformance struct {
	RuleID         int64      `json:"ruleId"`
	RuleName       string     `json:"ruleName"`
	TotalRuns      int        `json:"totalRuns"`
	SuccessfulRuns int        `json:"successfulRuns"`
	FailedRuns     int        `json:"failedRuns"`
	LastRun        *time.Time `json:"lastRun"`
}

// ComputeStats aggregates the rule list and activity records into Stats.
// Records are expected newest-first, as the log serves them; the first
// record seen per rule is therefore its most recent run.
func ComputeStats(rules []types.Rule, records []types.ActivityRecord) Stats {
	stats := Stats{
		TotalRules:    len(rules),
		TotalActivity: len(records),
	}
	for _, r := range rules {
		if r.IsActive {
			stats.ActiveRules++
		} else {
			stats.InactiveRules++
		}
	}

	byRule := make(map[int64]*RulePerformance, len(rules))
	perf := make([]RulePerformance, len(rules))
	for i, r := range rules {
		perf[i] = RulePerformance{RuleID: r.ID, RuleName: r.Name}
		byRule[r.ID] = &perf[i]
	}

	for _, rec := range records {
		switch rec.Status {
		case types.ActivitySuccess:
			stats.SuccessfulRuns++
		case types.ActivityError:
			stats.FailedRuns++
		}

		p, ok := byRule[rec.RuleID]
		if !ok {
			continue // rule deleted since the record was written
		}
		p.TotalRuns++
		if rec.Status == types.ActivitySuccess {
			p.SuccessfulRuns++
		} else {
			p.FailedRuns++
		}
		if p.LastRun == nil {
			t := rec.TriggeredAt
			p.LastRun = &t
		}
	}

	stats.RulePerformance = perf
	return stats
}
