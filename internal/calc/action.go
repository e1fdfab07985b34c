package calc

import (
	"fmt"
	"strings"
)

// ActionKind identifies one discrete user interaction.
type ActionKind int

const (
	ActionDigit ActionKind = iota + 1
	ActionDecimal
	ActionOperator
	ActionEquals
	ActionClear
	ActionBackspace
	ActionToggleAngle
	ActionSetMode
)

func (k ActionKind) String() string {
	switch k {
	case ActionDigit:
		return "digit"
	case ActionDecimal:
		return "decimal"
	case ActionOperator:
		return "operator"
	case ActionEquals:
		return "equals"
	case ActionClear:
		return "clear"
	case ActionBackspace:
		return "backspace"
	case ActionToggleAngle:
		return "toggle_angle"
	case ActionSetMode:
		return "set_mode"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is the input to Step. Only the field matching Kind is read.
type Action struct {
	Kind     ActionKind
	Digit    int
	Operator Operator
	Mode     Mode
}

func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return fmt.Sprintf("digit(%d)", a.Digit)
	case ActionOperator:
		if a.Operator == nil {
			return "operator(<nil>)"
		}
		return "operator(" + a.Operator.Symbol() + ")"
	case ActionSetMode:
		return "set_mode(" + string(a.Mode) + ")"
	default:
		return a.Kind.String()
	}
}

// ParseKey translates a keypad label into an Action. Labels are those
// returned by Layout, plus operator aliases accepted by LookupOperator.
func ParseKey(key string) (Action, error) {
	k := strings.TrimSpace(key)
	if len(k) == 1 && k[0] >= '0' && k[0] <= '9' {
		return Action{Kind: ActionDigit, Digit: int(k[0] - '0')}, nil
	}

	switch strings.ToLower(k) {
	case ".":
		return Action{Kind: ActionDecimal}, nil
	case "=", "enter":
		return Action{Kind: ActionEquals}, nil
	case "c", "ce", "clear":
		return Action{Kind: ActionClear}, nil
	case "backspace", "⌫", "del":
		return Action{Kind: ActionBackspace}, nil
	case "deg", "rad", "angle":
		return Action{Kind: ActionToggleAngle}, nil
	}

	op, err := LookupOperator(k)
	if err != nil {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return Action{Kind: ActionOperator, Operator: op}, nil
}

// Allows reports whether a is reachable from the keypad of mode m.
func (m Mode) Allows(a Action) bool {
	if m == ModeScientific {
		return true
	}
	switch a.Kind {
	case ActionToggleAngle:
		return false
	case ActionOperator:
		_, basic := a.Operator.(BasicOp)
		return basic
	default:
		return true
	}
}
