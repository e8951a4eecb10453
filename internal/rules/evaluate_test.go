// internal/rules/evaluate_test.go
package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/leadflow/leadflow/internal/types"
)

func sampleLead() types.Lead {
	return types.Lead{
		ID:       42,
		Name:     "Jane Smith",
		Company:  "Acme Corp",
		Email:    "jane@acme.example",
		Source:   "Website",
		Status:   "New",
		Value:    5000,
		Score:    72,
		Tags:     []string{"inbound", "enterprise"},
		Phone:    "",
		Priority: "High",
		CustomFields: map[string]string{
			"region": "EMEA",
		},
	}
}

func TestEvaluate_Operators(t *testing.T) {
	lead := sampleLead()

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{"equals match", types.Condition{Field: "status", Operator: types.OpEquals, Value: "New"}, true},
		{"equals mismatch", types.Condition{Field: "status", Operator: types.OpEquals, Value: "Qualified"}, false},
		{"equals is case sensitive", types.Condition{Field: "status", Operator: types.OpEquals, Value: "new"}, false},
		{"equals never coerces numbers", types.Condition{Field: "value", Operator: types.OpEquals, Value: "5000"}, false},
		{"equals on absent field", types.Condition{Field: "missing", Operator: types.OpEquals, Value: "x"}, false},
		{"not_equals match", types.Condition{Field: "status", Operator: types.OpNotEquals, Value: "Qualified"}, true},
		{"not_equals mismatch", types.Condition{Field: "status", Operator: types.OpNotEquals, Value: "New"}, false},
		{"not_equals on absent field", types.Condition{Field: "missing", Operator: types.OpNotEquals, Value: "x"}, true},

		{"contains case insensitive", types.Condition{Field: "company", Operator: types.OpContains, Value: "acme"}, true},
		{"contains mismatch", types.Condition{Field: "company", Operator: types.OpContains, Value: "globex"}, false},
		{"contains on absent field", types.Condition{Field: "missing", Operator: types.OpContains, Value: "x"}, false},
		{"contains over tag list", types.Condition{Field: "tags", Operator: types.OpContains, Value: "enterprise"}, true},
		{"not_contains match", types.Condition{Field: "company", Operator: types.OpNotContains, Value: "globex"}, true},
		{"not_contains on absent field", types.Condition{Field: "missing", Operator: types.OpNotContains, Value: "x"}, true},

		{"greater_than numeric field", types.Condition{Field: "value", Operator: types.OpGreaterThan, Value: "1000"}, true},
		{"greater_than equal boundary", types.Condition{Field: "value", Operator: types.OpGreaterThan, Value: "5000"}, false},
		{"greater_than unparseable target", types.Condition{Field: "value", Operator: types.OpGreaterThan, Value: "abc"}, false},
		{"greater_than non-numeric field", types.Condition{Field: "company", Operator: types.OpGreaterThan, Value: "50"}, false},
		{"greater_than numeric custom field", types.Condition{Field: "region", Operator: types.OpGreaterThan, Value: "1"}, false},
		{"less_than numeric field", types.Condition{Field: "score", Operator: types.OpLessThan, Value: "100"}, true},
		{"greater_than_equal boundary", types.Condition{Field: "value", Operator: types.OpGreaterThanEqual, Value: "5000"}, true},
		{"less_than_equal boundary", types.Condition{Field: "value", Operator: types.OpLessThanEqual, Value: "5000"}, true},
		{"less_than_equal mismatch", types.Condition{Field: "value", Operator: types.OpLessThanEqual, Value: "4999"}, false},

		{"is_empty on empty string", types.Condition{Field: "phone", Operator: types.OpIsEmpty}, true},
		{"is_empty on absent field", types.Condition{Field: "missing", Operator: types.OpIsEmpty}, true},
		{"is_empty on populated field", types.Condition{Field: "company", Operator: types.OpIsEmpty}, false},
		{"is_not_empty on populated field", types.Condition{Field: "company", Operator: types.OpIsNotEmpty}, true},
		{"is_not_empty on empty string", types.Condition{Field: "phone", Operator: types.OpIsNotEmpty}, false},

		{"custom field equals", types.Condition{Field: "region", Operator: types.OpEquals, Value: "EMEA"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(lead, []types.Condition{tt.cond})
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_WhitespaceOnlyIsEmpty(t *testing.T) {
	lead := sampleLead()
	lead.CustomFields["notes"] = "   "

	cond := types.Condition{Field: "notes", Operator: types.OpIsEmpty}
	if !Evaluate(lead, []types.Condition{cond}) {
		t.Errorf("Evaluate() = false, want true for whitespace-only value")
	}
}

func TestEvaluate_ConjunctionShortCircuits(t *testing.T) {
	lead := sampleLead()

	conditions := []types.Condition{
		{Field: "source", Operator: types.OpEquals, Value: "Website"},
		{Field: "status", Operator: types.OpEquals, Value: "New"},
	}
	if !Evaluate(lead, conditions) {
		t.Errorf("Evaluate() = false, want true when every condition matches")
	}

	conditions[0].Value = "Referral"
	if Evaluate(lead, conditions) {
		t.Errorf("Evaluate() = true, want false when any condition fails")
	}
}

func TestEvaluate_UnknownOperatorFailsRule(t *testing.T) {
	lead := sampleLead()

	conditions := []types.Condition{
		{Field: "status", Operator: "matches_regex", Value: ".*"},
	}
	if Evaluate(lead, conditions) {
		t.Errorf("Evaluate() = true, want false for unknown operator")
	}
}

func TestEvaluate_EmptyConditionListMatches(t *testing.T) {
	if !Evaluate(sampleLead(), nil) {
		t.Errorf("Evaluate() = false, want true for empty condition list")
	}
}

// Property-based test: adding a condition never turns a non-match into a match
func TestEvaluate_PropertyConjunctionMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	operators := []types.Operator{
		types.OpEquals, types.OpNotEquals, types.OpContains, types.OpNotContains,
		types.OpGreaterThan, types.OpLessThan, types.OpIsEmpty, types.OpIsNotEmpty,
	}
	fields := []string{"status", "source", "company", "value", "missing"}

	properties.Property("conjunction is monotone under extension", prop.ForAll(
		func(opIdx, fieldIdx int, value string) bool {
			lead := sampleLead()
			base := []types.Condition{
				{Field: "status", Operator: types.OpEquals, Value: "New"},
			}
			extra := types.Condition{
				Field:    fields[fieldIdx%len(fields)],
				Operator: operators[opIdx%len(operators)],
				Value:    value,
			}
			extended := append(append([]types.Condition(nil), base...), extra)

			if !Evaluate(lead, base) && Evaluate(lead, extended) {
				return false
			}
			return true
		},
		gen.IntRange(0, 7),
		gen.IntRange(0, 4),
		gen.AlphaString(),
	))

	properties.Property("evaluation is deterministic", prop.ForAll(
		func(opIdx, fieldIdx int, value string) bool {
			lead := sampleLead()
			conditions := []types.Condition{
				{
					Field:    fields[fieldIdx%len(fields)],
					Operator: operators[opIdx%len(operators)],
					Value:    value,
				},
			}
			return Evaluate(lead, conditions) == Evaluate(lead, conditions)
		},
		gen.IntRange(0, 7),
		gen.IntRange(0, 4),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
