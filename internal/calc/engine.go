package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Step applies a to s and returns the next state. When an arithmetic fault
// occurs the returned state is already the error condition and the fault is
// returned alongside it for reporting; callers must not treat it as a
// failure of the transition.
func Step(s State, a Action) (State, error) {
	switch a.Kind {
	case ActionDigit:
		return inputDigit(s, a.Digit), nil
	case ActionDecimal:
		return inputDecimal(s), nil
	case ActionBackspace:
		return backspace(s), nil
	case ActionClear:
		return pressClear(s), nil
	case ActionOperator:
		return pressOperator(s, a.Operator)
	case ActionEquals:
		return equals(s)
	case ActionToggleAngle:
		s.AngleMode = s.AngleMode.Toggle()
		return s, nil
	case ActionSetMode:
		if a.Mode == ModeBasic || a.Mode == ModeScientific {
			s.Mode = a.Mode
		}
		return s, nil
	default:
		return s, nil
	}
}

// Reduce is Step without the fault.
func Reduce(s State, a Action) State {
	next, _ := Step(s, a)
	return next
}

func inputDigit(s State, d int) State {
	if d < 0 || d > 9 {
		return s
	}
	digit := strconv.Itoa(d)

	if s.WaitingForOperand {
		s.Value = float64(d)
		s.Display = digit
		s.WaitingForOperand = false
		return s
	}

	next := s.Display + digit
	if s.Display == "0" {
		next = digit
	}
	if v, ok := parseDisplay(next); ok {
		s.Value = v
	}
	s.Display = next
	return s
}

func inputDecimal(s State) State {
	if s.WaitingForOperand {
		s.Value = 0
		s.Display = "0."
		s.WaitingForOperand = false
		return s
	}
	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

func backspace(s State) State {
	if s.InError() || len([]rune(s.Display)) <= 1 {
		return clearEntry(s)
	}

	r := []rune(s.Display)
	next := string(r[:len(r)-1])
	v, ok := parseDisplay(next)
	if !ok {
		return clearEntry(s)
	}
	s.Display = next
	s.Value = v
	return s
}

func pressClear(s State) State {
	if s.IsInitial() {
		s.Pending = nil
	}
	return clearEntry(s)
}

func clearEntry(s State) State {
	s.Value = 0
	s.Display = "0"
	s.WaitingForOperand = true
	return s
}

func pressOperator(s State, op Operator) (State, error) {
	switch op := op.(type) {
	case BasicOp:
		return pressBasic(s, op)
	case ScientificOp:
		return pressScientific(s, op)
	default:
		return s, nil
	}
}

func pressBasic(s State, op BasicOp) (State, error) {
	if s.Pending == nil {
		s.Pending = &PendingOperation{Operator: op, Operand: s.Value}
		s.WaitingForOperand = true
		return s, nil
	}

	result, err := s.Pending.Operator.Apply(s.Pending.Operand, s.Value)
	if err = checkResult(result, err); err != nil {
		return fail(s), err
	}

	s = commit(s, result)
	s.Pending = &PendingOperation{Operator: op, Operand: result}
	return s, nil
}

func pressScientific(s State, op ScientificOp) (State, error) {
	if s.Pending != nil && !s.WaitingForOperand {
		// A second operand is mid-entry. The deferred basic operator is
		// looked up as a scientific one, which always fails.
		return fail(s), fmt.Errorf("%w: %s then %s", ErrOperatorMismatch, s.Pending.Operator, op)
	}

	result, err := op.Apply(s.Value, s.AngleMode)
	if err = checkResult(result, err); err != nil {
		return fail(s), err
	}

	s = commit(s, result)
	s.Pending = nil
	return s, nil
}

func equals(s State) (State, error) {
	if s.Pending == nil {
		return s, nil
	}

	result, err := s.Pending.Operator.Apply(s.Pending.Operand, s.Value)
	if err = checkResult(result, err); err != nil {
		return fail(s), err
	}

	s = commit(s, result)
	s.Pending = nil
	return s, nil
}

// checkResult folds results the display cannot show into ErrNumericOverflow.
func checkResult(v float64, err error) error {
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > MaxSafeInteger {
		return fmt.Errorf("%w: %g", ErrNumericOverflow, v)
	}
	return nil
}

func commit(s State, v float64) State {
	s.Value = v
	s.Display = Format(v)
	s.WaitingForOperand = true
	return s
}

// fail moves s into the error condition. Mode and angle mode survive.
func fail(s State) State {
	s.Value = 0
	s.Display = ErrorToken
	s.Pending = nil
	s.WaitingForOperand = true
	return s
}

// Engine owns a single calculator State and applies actions to it one at a
// time. It is not safe for concurrent use.
type Engine struct {
	state State
	fault error
}

// NewEngine returns an engine in the initial state.
func NewEngine() *Engine {
	return &Engine{state: InitialState()}
}

// Dispatch applies a. It never fails; an arithmetic fault puts the engine
// into the error condition and is kept for Fault.
func (e *Engine) Dispatch(a Action) {
	e.state, e.fault = Step(e.state, a)
}

// Fault returns the arithmetic fault raised by the most recent action, or
// nil.
func (e *Engine) Fault() error { return e.fault }

// PressDigit enters digit d. Values outside 0-9 are ignored.
func (e *Engine) PressDigit(d int) { e.Dispatch(Action{Kind: ActionDigit, Digit: d}) }

// PressDecimal adds a decimal point to the entry, once.
func (e *Engine) PressDecimal() { e.Dispatch(Action{Kind: ActionDecimal}) }

// PressOperator presses a basic or scientific operator by symbol. Unknown
// symbols are ignored.
func (e *Engine) PressOperator(symbol string) {
	op, err := LookupOperator(symbol)
	if err != nil {
		e.fault = nil
		return
	}
	e.Dispatch(Action{Kind: ActionOperator, Operator: op})
}

// PressEquals resolves the pending basic operation, if any.
func (e *Engine) PressEquals() { e.Dispatch(Action{Kind: ActionEquals}) }

// PressClear clears the entry. On an already cleared entry it also drops
// the pending operation.
func (e *Engine) PressClear() { e.Dispatch(Action{Kind: ActionClear}) }

// PressBackspace removes the last character of the display.
func (e *Engine) PressBackspace() { e.Dispatch(Action{Kind: ActionBackspace}) }

// ToggleAngleMode switches between degrees and radians.
func (e *Engine) ToggleAngleMode() { e.Dispatch(Action{Kind: ActionToggleAngle}) }

// SetMode selects the keypad mode. Unknown modes are ignored.
func (e *Engine) SetMode(m Mode) { e.Dispatch(Action{Kind: ActionSetMode, Mode: m}) }

// DisplayText returns the text currently shown.
func (e *Engine) DisplayText() string { return e.state.Display }

// IsInitialState reports whether the display shows the zero entry.
func (e *Engine) IsInitialState() bool { return e.state.IsInitial() }

// AngleMode returns the angle unit used by trigonometric operators.
func (e *Engine) AngleMode() AngleMode { return e.state.AngleMode }

// Mode returns the keypad mode.
func (e *Engine) Mode() Mode { return e.state.Mode }

// State returns a copy of the current state.
func (e *Engine) State() State { return e.state }

// View returns the serializable readout of the current state.
func (e *Engine) View() View { return e.state.View() }
