package workflow

import (
	"strconv"
	"strings"

	"approval-backend/internal/domain/approval"
)

// firstMatch returns the first rule whose conditions hold against attrs.
// Rules arrive pre-ordered (priority desc, name asc), so evaluation is
// deterministic. A rule that is somehow both auto-approve and auto-reject
// never fires; authoring validation is the real gate.
func firstMatch(rules []approval.Rule, attrs map[string]any) *approval.Rule {
	for i := range rules {
		r := &rules[i]
		if r.AutoApprove && r.AutoReject {
			continue
		}
		if matchConditions(r.Conditions, attrs) {
			return r
		}
	}
	return nil
}

// matchConditions is a structural predicate over entity attributes. Keys
// may carry an operator suffix ("word_count__gte": 100); a bare key means
// equality. Every condition must hold. An empty condition set matches
// everything.
func matchConditions(conds map[string]any, attrs map[string]any) bool {
	for key, want := range conds {
		field, op := splitOp(key)
		got, ok := attrs[field]
		if !ok {
			return false
		}
		if !matchOne(op, got, want) {
			return false
		}
	}
	return true
}

func splitOp(key string) (field, op string) {
	if i := strings.LastIndex(key, "__"); i > 0 {
		switch suffix := key[i+2:]; suffix {
		case "gte", "gt", "lte", "lt", "ne", "in":
			return key[:i], suffix
		}
	}
	return key, "eq"
}

func matchOne(op string, got, want any) bool {
	switch op {
	case "eq":
		return valuesEqual(got, want)
	case "ne":
		return !valuesEqual(got, want)
	case "in":
		list, ok := want.([]any)
		if !ok {
			return false
		}
		for _, w := range list {
			if valuesEqual(got, w) {
				return true
			}
		}
		return false
	case "gte", "gt", "lte", "lt":
		g, okG := toFloat(got)
		w, okW := toFloat(want)
		if !okG || !okW {
			return false
		}
		switch op {
		case "gte":
			return g >= w
		case "gt":
			return g > w
		case "lte":
			return g <= w
		default:
			return g < w
		}
	}
	return false
}

// valuesEqual compares numerically when both sides are numeric, otherwise
// by string form. JSON decoding yields float64 while drivers yield int64;
// comparing through float keeps 10 == 10.0 true.
func valuesEqual(got, want any) bool {
	if g, ok := toFloat(got); ok {
		if w, ok := toFloat(want); ok {
			return g == w
		}
	}
	if gb, ok := got.(bool); ok {
		if wb, ok := want.(bool); ok {
			return gb == wb
		}
	}
	return stringify(got) == stringify(want)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return ""
	}
}
