// internal/rules/operators.go
package rules

import (
	"strings"

	"github.com/leadflow/leadflow/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the 10 condition operators against a resolved field value.
 * Values arrive from ResolveField with their native type; each operator
 * decides how strictly to compare.
 *
 * Operators:
 *   - equals/not_equals: Strict equality, no coercion. Only string-typed
 *     field values can equal the condition's string value; absent or
 *     non-string values never equal.
 *   - contains/not_contains: Case-insensitive substring over the rendered
 *     value. Absent field: contains false, not_contains true.
 *   - greater_than/less_than/greater_than_equal/less_than_equal: Both
 *     operands parsed as floats; a failed parse fails the comparison.
 *   - is_empty/is_not_empty: Absent, or empty after trimming.
 *
 * Why function-based: one switch over a small closed operator set reads
 * better than ten single-method implementations of an interface.
 */

// matchOperator applies op to a resolved field value and the condition's
// comparison value. found reports whether the field resolved at all.
// Unknown operators never match; the caller is responsible for warning.
func matchOperator(op types.Operator, value any, found bool, target string) (bool, bool) {
	switch op {
	case types.OpEquals:
		return matchEquals(value, found, target), true
	case types.OpNotEquals:
		return !matchEquals(value, found, target), true
	case types.OpContains:
		return matchContains(value, found, target), true
	case types.OpNotContains:
		return !matchContains(value, found, target), true
	case types.OpGreaterThan:
		cmp, ok := compareNumeric(value, target)
		return ok && cmp > 0, true
	case types.OpLessThan:
		cmp, ok := compareNumeric(value, target)
		return ok && cmp < 0, true
	case types.OpGreaterThanEqual:
		cmp, ok := compareNumeric(value, target)
		return ok && cmp >= 0, true
	case types.OpLessThanEqual:
		cmp, ok := compareNumeric(value, target)
		return ok && cmp <= 0, true
	case types.OpIsEmpty:
		return matchEmpty(value, found), true
	case types.OpIsNotEmpty:
		return !matchEmpty(value, found), true
	default:
		return false, false
	}
}

// matchEquals performs strict equality without coercion: the field must
// resolve to a string identical to the condition value. Numeric fields
// never equal a string condition value.
func matchEquals(value any, found bool, target string) bool {
	if !found {
		return false
	}
	s, ok := value.(string)
	return ok && s == target
}

// matchContains performs a case-insensitive substring test on the rendered
// field value. Absent fields contain nothing.
func matchContains(value any, found bool, target string) bool {
	if !found || value == nil {
		return false
	}
	rendered := fieldString(value)
	if rendered == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rendered), strings.ToLower(target))
}

// compareNumeric parses both operands as floats and returns a three-way
// comparison (-1/0/1). ok is false when either side fails to parse, which
// fails every ordering operator.
func compareNumeric(value any, target string) (int, bool) {
	fv, ok1 := fieldFloat(value)
	tv, ok2 := parseFloat(target)
	if !ok1 || !ok2 {
		return 0, false
	}
	switch {
	case fv < tv:
		return -1, true
	case fv > tv:
		return 1, true
	default:
		return 0, true
	}
}

// matchEmpty reports whether the field is absent or renders to an empty
// string after trimming.
func matchEmpty(value any, found bool) bool {
	if !found || value == nil {
		return true
	}
	return strings.TrimSpace(fieldString(value)) == ""
}
