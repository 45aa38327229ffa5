// Package benchmark implements the UX-benchmark data contract: the
// success-rule evaluator, the dataset normalizer for the two study
// documents, per-heuristic score gathering, the standard year-over-year
// analysis and qualitative note extraction. The same semantics are shipped
// to the model as a helper snippet (internal/prompt), so changes here must
// stay in lockstep with that snippet.
package benchmark

import (
	"strconv"
	"strings"
)

// CheckSuccess reports whether a score satisfies a heuristic's success rule.
//
// Rules are case-insensitive comparator expressions: "=5", ">3", ">=4",
// "<=2", "<4", or a bare number (implicit equality). The compound form
// "=4 and =5" is set membership: the score passes when it equals ANY of
// the listed values. That reads like a conjunction but is not one;
// historical catalogs and generated programs depend on the membership
// semantics, so it is preserved as-is.
//
// A nil score fails. Any rule that does not parse fails closed.
func CheckSuccess(score *float64, rule string) bool {
	if score == nil {
		return false
	}
	s := *score
	r := strings.ToLower(strings.TrimSpace(rule))
	if r == "" {
		return false
	}

	// Compound form: "=4 and =5" lists the accepted values.
	if strings.Contains(r, " and ") {
		for _, part := range strings.Split(r, " and ") {
			part = strings.TrimSpace(strings.ReplaceAll(part, "=", ""))
			target, err := strconv.ParseFloat(part, 64)
			if err != nil {
				continue
			}
			if s == target {
				return true
			}
		}
		return false
	}

	// Comparator precedence matters: ">=" must be tested before ">",
	// "<=" before "<".
	switch {
	case strings.HasPrefix(r, ">="):
		return compare(s, r[2:], func(a, b float64) bool { return a >= b })
	case strings.HasPrefix(r, ">"):
		return compare(s, r[1:], func(a, b float64) bool { return a > b })
	case strings.HasPrefix(r, "<="):
		return compare(s, r[2:], func(a, b float64) bool { return a <= b })
	case strings.HasPrefix(r, "<"):
		return compare(s, r[1:], func(a, b float64) bool { return a < b })
	case strings.HasPrefix(r, "="):
		return compare(s, r[1:], func(a, b float64) bool { return a == b })
	}

	// Bare number means equality.
	return compare(s, r, func(a, b float64) bool { return a == b })
}

// CheckSuccessValue adapts CheckSuccess to loosely typed JSON values as
// they come out of the results document (float64, int, numeric string).
func CheckSuccessValue(value interface{}, rule string) bool {
	f, ok := asFloat(value)
	if !ok {
		return false
	}
	return CheckSuccess(&f, rule)
}

func compare(score float64, operand string, cmp func(a, b float64) bool) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(operand), 64)
	if err != nil {
		return false
	}
	return cmp(score, target)
}

// asFloat coerces JSON scalar values to float64.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
