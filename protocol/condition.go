package protocol

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/torontoai/parley/core"
)

// Op enumerates the comparison operators available to transition conditions.
type Op string

const (
	OpEquals      Op = "equals"
	OpNotEquals   Op = "not_equals"
	OpExists      Op = "exists"
	OpContains    Op = "contains"
	OpGreaterThan Op = "greater_than"
	OpLessThan    Op = "less_than"
)

// Condition is a declarative predicate over a message, evaluated when a
// transition is considered. Path is a dot-separated field reference resolved
// through core.Message.Field ("content.priority", "sender.role"); Value is
// the comparison operand, unused for OpExists.
//
// Conditions fail closed: an unresolvable path, an unknown operator or a
// type mismatch all evaluate to false, leaving the conversation in place.
type Condition struct {
	Op    Op     `json:"op" yaml:"op"`
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value,omitempty"`
}

// Evaluate reports whether the condition holds for msg.
func (c Condition) Evaluate(msg core.Message) bool {
	got, ok := msg.Field(c.Path)
	switch c.Op {
	case OpExists:
		return ok
	case OpEquals:
		return ok && valuesEqual(got, c.Value)
	case OpNotEquals:
		return ok && !valuesEqual(got, c.Value)
	case OpContains:
		return ok && valueContains(got, c.Value)
	case OpGreaterThan:
		return ok && numericLess(c.Value, got)
	case OpLessThan:
		return ok && numericLess(got, c.Value)
	default:
		return false
	}
}

// Validate rejects conditions with an unknown operator or an empty path.
func (c Condition) Validate() error {
	switch c.Op {
	case OpEquals, OpNotEquals, OpExists, OpContains, OpGreaterThan, OpLessThan:
	default:
		return fmt.Errorf("unknown condition op %q", c.Op)
	}
	if c.Path == "" {
		return fmt.Errorf("condition path is required")
	}
	return nil
}

// valuesEqual compares condition operands loosely: numeric kinds are
// compared by value regardless of width (JSON decodes numbers as float64,
// YAML as int), everything else via reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func valueContains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		n, ok := needle.(string)
		return ok && strings.Contains(h, n)
	case []any:
		for _, el := range h {
			if valuesEqual(el, needle) {
				return true
			}
		}
	case []string:
		for _, el := range h {
			if valuesEqual(el, needle) {
				return true
			}
		}
	}
	return false
}

func numericLess(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af < bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
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
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
