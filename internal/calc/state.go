package calc

import (
	"fmt"
	"strings"
)

// AngleMode selects how trigonometric operators read their input.
type AngleMode string

const (
	Degrees AngleMode = "degrees"
	Radians AngleMode = "radians"
)

// ParseAngleMode accepts "degrees"/"deg" and "radians"/"rad" in any case.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrees", "deg":
		return Degrees, nil
	case "radians", "rad":
		return Radians, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAngleMode, s)
	}
}

// Toggle returns the other angle mode.
func (a AngleMode) Toggle() AngleMode {
	if a == Degrees {
		return Radians
	}
	return Degrees
}

// AngleLabel is the label shown on the angle toggle key.
func AngleLabel(a AngleMode) string {
	if a == Radians {
		return "RAD"
	}
	return "DEG"
}

// Mode selects the keypad layout and which operators are reachable.
type Mode string

const (
	ModeBasic      Mode = "Basic"
	ModeScientific Mode = "Scientific"
)

// ParseMode accepts "basic" and "scientific" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return ModeBasic, nil
	case "scientific":
		return ModeScientific, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// PendingOperation is a captured basic operator and its first operand.
type PendingOperation struct {
	Operator BasicOp
	Operand  float64
}

// State is the full calculator state. Transitions never modify a State in
// place; Step returns a new one.
type State struct {
	Value             float64
	Display           string
	Pending           *PendingOperation
	WaitingForOperand bool
	AngleMode         AngleMode
	Mode              Mode
}

// InitialState returns the state of a freshly started calculator.
func InitialState() State {
	return State{
		Value:             0,
		Display:           "0",
		WaitingForOperand: true,
		AngleMode:         Degrees,
		Mode:              ModeScientific,
	}
}

// IsInitial reports whether the entry is untouched. It decides whether the
// clear key acts as clear-all (C) or clear-entry (CE).
func (s State) IsInitial() bool {
	return s.Value == 0 && s.Display == "0" && s.WaitingForOperand
}

// InError reports whether the state is the error condition.
func (s State) InError() bool {
	return s.Display == ErrorToken
}

// ClearLabel is the label shown on the clear key.
func ClearLabel(s State) string {
	if s.IsInitial() {
		return "C"
	}
	return "CE"
}

// PendingView is the JSON form of a pending operation.
type PendingView struct {
	Operator string  `json:"operator"`
	Operand  float64 `json:"operand"`
}

// View is a read-only snapshot of a State for rendering collaborators.
type View struct {
	Display           string       `json:"display"`
	Value             float64      `json:"value"`
	Pending           *PendingView `json:"pending,omitempty"`
	WaitingForOperand bool         `json:"waiting_for_operand"`
	AngleMode         AngleMode    `json:"angle_mode"`
	Mode              Mode         `json:"mode"`
	ClearLabel        string       `json:"clear_label"`
	AngleLabel        string       `json:"angle_label"`
	Error             bool         `json:"error"`
}

// View builds the snapshot of s.
func (s State) View() View {
	v := View{
		Display:           s.Display,
		Value:             s.Value,
		WaitingForOperand: s.WaitingForOperand,
		AngleMode:         s.AngleMode,
		Mode:              s.Mode,
		ClearLabel:        ClearLabel(s),
		AngleLabel:        AngleLabel(s.AngleMode),
		Error:             s.InError(),
	}
	if s.Pending != nil {
		v.Pending = &PendingView{
			Operator: s.Pending.Operator.Symbol(),
			Operand:  s.Pending.Operand,
		}
	}
	return v
}
