// Package criteria evaluates operator-based conditions against flat or nested field maps.
// Hard matching criteria (budget, location, type, rooms) are expressed with it.
package criteria

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Supported operators
const (
	OpEquals   = ""          // default, no prefix - simple equality
	OpContains = "$contains" // array contains value
	OpIn       = "$in"       // value is in array of options
	OpGte      = "$gte"      // greater than or equal
	OpGt       = "$gt"       // greater than
	OpLte      = "$lte"      // less than or equal
	OpLt       = "$lt"       // less than
	OpExists   = "$exists"   // field exists (value should be bool)
	OpNe       = "$ne"       // not equal
)

// Condition represents a single field condition to evaluate
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Result is the outcome of one condition. Evaluable is false when the field is absent and
// the operator needs a value to compare ($exists and $ne are always evaluable).
type Result struct {
	Condition Condition
	Matched   bool
	Evaluable bool
}

// ParseCriteria converts a criteria map to structured conditions.
// Format: {"field": "value"} for equality, {"field": {"$op": "value"}} for operators
func ParseCriteria(criteria map[string]any) []Condition {
	var conditions []Condition

	for field, value := range criteria {
		switch v := value.(type) {
		case map[string]any:
			for op, opValue := range v {
				conditions = append(conditions, Condition{
					Field:    field,
					Operator: op,
					Value:    opValue,
				})
			}
		default:
			conditions = append(conditions, Condition{
				Field:    field,
				Operator: OpEquals,
				Value:    v,
			})
		}
	}

	return conditions
}

// Matches reports whether data satisfies every condition (AND logic). Absent fields fail.
func Matches(data map[string]any, conditions []Condition) bool {
	for _, cond := range conditions {
		if !Evaluate(data, cond).Matched {
			return false
		}
	}
	return true
}

// MatchesCriteria parses and evaluates in one call
func MatchesCriteria(data map[string]any, criteria map[string]any) bool {
	return Matches(data, ParseCriteria(criteria))
}

// EvaluateAll evaluates each condition independently, preserving order
func EvaluateAll(data map[string]any, conditions []Condition) []Result {
	results := make([]Result, len(conditions))
	for i, cond := range conditions {
		results[i] = Evaluate(data, cond)
	}
	return results
}

// Evaluate evaluates a single condition against data
func Evaluate(data map[string]any, cond Condition) Result {
	value, exists := getNestedValue(data, cond.Field)
	result := Result{Condition: cond, Evaluable: exists}

	switch cond.Operator {
	case OpEquals:
		result.Matched = exists && valuesEqual(value, cond.Value)

	case OpNe:
		result.Evaluable = true
		result.Matched = !exists || !valuesEqual(value, cond.Value)

	case OpExists:
		result.Evaluable = true
		expectExists, ok := cond.Value.(bool)
		result.Matched = ok && exists == expectExists

	case OpContains:
		if !exists {
			return result
		}
		arr, ok := toSlice(value)
		if !ok {
			return result
		}
		for _, item := range arr {
			if valuesEqual(item, cond.Value) {
				result.Matched = true
				break
			}
		}

	case OpIn:
		if !exists {
			return result
		}
		options, ok := toSlice(cond.Value)
		if !ok {
			return result
		}
		for _, opt := range options {
			if valuesEqual(value, opt) {
				result.Matched = true
				break
			}
		}

	case OpGte, OpGt, OpLte, OpLt:
		result.Matched = exists && compareNumeric(value, cond.Operator, cond.Value)

	default:
		result.Evaluable = false
	}

	return result
}

// getNestedValue retrieves a value using dot notation. A nil value counts as absent.
func getNestedValue(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// valuesEqual compares two values with type coercion
func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	if reflect.DeepEqual(a, b) {
		return true
	}

	// float64 vs int and similar
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toSlice(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case []string:
		result := make([]any, len(arr))
		for i, s := range arr {
			result[i] = s
		}
		return result, true
	default:
		val := reflect.ValueOf(v)
		if val.Kind() == reflect.Slice {
			result := make([]any, val.Len())
			for i := 0; i < val.Len(); i++ {
				result[i] = val.Index(i).Interface()
			}
			return result, true
		}
		return nil, false
	}
}

func compareNumeric(actual any, op string, expected any) bool {
	actualNum, ok := toFloat64(actual)
	if !ok {
		return false
	}

	expectedNum, ok := toFloat64(expected)
	if !ok {
		return false
	}

	switch op {
	case OpGte:
		return actualNum >= expectedNum
	case OpGt:
		return actualNum > expectedNum
	case OpLte:
		return actualNum <= expectedNum
	case OpLt:
		return actualNum < expectedNum
	default:
		return false
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
