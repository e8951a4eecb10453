// internal/rules/fields.go
package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Field resolution for lead records.
 *
 * Resolves a condition's field name against the known lead attribute set
 * first, falling back to the lead's custom-fields map. The lookup is
 * centralized here so the condition evaluator and the update_field action
 * share identical field semantics.
 *
 * Key functions:
 *   - ResolveField: field name -> (value, found)
 *   - fieldString: renders a resolved value for substring/emptiness checks
 *   - fieldFloat: parses a resolved value for numeric comparison
 *
 * Resolved values keep their native type (string, float64, []string,
 * time.Time); operators decide how strictly to compare them.
 */

// ResolveField looks up a field value on a lead. Known attributes resolve
// to their typed values; anything else resolves against custom fields.
// The second return reports whether the field carries a value at all.
func ResolveField(lead types.Lead, field string) (any, bool) {
	switch field {
	case "source":
		return lead.Source, true
	case "status":
		return lead.Status, true
	case "value":
		return lead.Value, true
	case "assignedUser":
		return lead.AssignedUser, true
	case "company":
		return lead.Company, true
	case "email":
		return lead.Email, true
	case "phone":
		return lead.Phone, true
	case "address":
		return lead.Address, true
	case "name":
		return lead.Name, true
	case "title":
		return lead.Title, true
	case "priority":
		return lead.Priority, true
	case "tags":
		return lead.Tags, true
	case "score":
		return lead.Score, true
	case "createdAt":
		return lead.CreatedAt, true
	case "updatedAt":
		return lead.UpdatedAt, true
	default:
		v, ok := lead.CustomFields[field]
		if !ok {
			return nil, false
		}
		return v, true
	}
}

// fieldString renders a resolved field value for substring and emptiness
// checks. Tag lists render comma-joined, timestamps as RFC 3339.
func fieldString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case []string:
		return strings.Join(s, ",")
	case time.Time:
		if s.IsZero() {
			return ""
		}
		return s.Format(time.RFC3339)
	default:
		return ""
	}
}

// fieldFloat parses a resolved field value as a float for ordering
// operators. Non-numeric values report false; the caller treats that the
// way NaN comparisons behave, every comparison fails.
func fieldFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseFloat parses a condition's comparison value. Same strictness as
// fieldFloat so both sides of an ordering operator follow one rule.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
