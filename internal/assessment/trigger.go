package assessment

import (
	"fmt"
	"strconv"
	"strings"
)

type TriggerOp string

const (
	OpLessThan    TriggerOp = "lt"
	OpGreaterThan TriggerOp = "gt"
	OpEquals      TriggerOp = "eq"
)

// Trigger gates a follow-up question on the raw answer of its parent.
// Threshold is used by the numeric ops, Expected by OpEquals.
type Trigger struct {
	Op        TriggerOp `json:"op"`
	Threshold int       `json:"threshold,omitempty"`
	Expected  string    `json:"expected,omitempty"`
}

func LessThan(threshold int) *Trigger {
	return &Trigger{Op: OpLessThan, Threshold: threshold}
}

func GreaterThan(threshold int) *Trigger {
	return &Trigger{Op: OpGreaterThan, Threshold: threshold}
}

func Equals(expected string) *Trigger {
	return &Trigger{Op: OpEquals, Expected: expected}
}

// Evaluate reports whether raw satisfies the trigger. Numeric ops evaluate
// to false when raw is not an integer.
func (t Trigger) Evaluate(raw string) bool {
	switch t.Op {
	case OpLessThan:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		return err == nil && n < t.Threshold
	case OpGreaterThan:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		return err == nil && n > t.Threshold
	case OpEquals:
		return strings.ToLower(strings.TrimSpace(raw)) == strings.ToLower(strings.TrimSpace(t.Expected))
	default:
		return false
	}
}

func (t Trigger) String() string {
	switch t.Op {
	case OpLessThan:
		return fmt.Sprintf("<%d", t.Threshold)
	case OpGreaterThan:
		return fmt.Sprintf(">%d", t.Threshold)
	case OpEquals:
		return t.Expected
	default:
		return string(t.Op)
	}
}

func (t Trigger) validate() error {
	switch t.Op {
	case OpLessThan, OpGreaterThan:
		if t.Expected != "" {
			return fmt.Errorf("numeric trigger %q carries an expected string", t.Op)
		}
	case OpEquals:
		if strings.TrimSpace(t.Expected) == "" {
			return fmt.Errorf("equals trigger needs an expected value")
		}
	default:
		return fmt.Errorf("unknown trigger op %q", t.Op)
	}
	return nil
}
