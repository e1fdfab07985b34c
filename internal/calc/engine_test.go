package calc

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press feeds keypad labels into e and fails the test on unknown labels.
func press(t *testing.T, e *Engine, keys ...string) {
	t.Helper()
	for _, k := range keys {
		a, err := ParseKey(k)
		require.NoError(t, err, "key %q", k)
		e.Dispatch(a)
	}
}

func TestEngineInitialState(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, "0", e.DisplayText())
	assert.True(t, e.IsInitialState())
	assert.Equal(t, Degrees, e.AngleMode())
	assert.Equal(t, ModeScientific, e.Mode())
	assert.Nil(t, e.State().Pending)
	assert.NoError(t, e.Fault())
}

func TestEngineDigitEntry(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "single digit", keys: []string{"7"}, want: "7"},
		{name: "concatenates", keys: []string{"1", "2", "3"}, want: "123"},
		{name: "zeros collapse", keys: []string{"0", "0", "0"}, want: "0"},
		{name: "leading zero dropped", keys: []string{"0", "0", "4", "0"}, want: "40"},
		{name: "decimal literal", keys: []string{"1", ".", "5"}, want: "1.5"},
		{name: "decimal first", keys: []string{".", "2"}, want: "0.2"},
		{name: "trailing decimal", keys: []string{"1", "2", "."}, want: "12."},
		{name: "decimal is idempotent", keys: []string{"3", ".", ".", "1", "."}, want: "3.1"},
		{name: "no grouping while typing", keys: []string{"1", "2", "3", "4", "5"}, want: "12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			press(t, e, tc.keys...)

			assert.Equal(t, tc.want, e.DisplayText())
			assert.LessOrEqual(t, strings.Count(e.DisplayText(), "."), 1)
		})
	}
}

func TestEngineDigitValueTracksDisplay(t *testing.T) {
	e := NewEngine()
	press(t, e, "4", "2", ".", "2", "5")

	assert.Equal(t, 42.25, e.State().Value)
	assert.False(t, e.State().WaitingForOperand)
}

func TestEngineBasicOperations(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "add", keys: []string{"1", "+", "2", "="}, want: "3"},
		{name: "subtract", keys: []string{"5", "-", "8", "="}, want: "-3"},
		{name: "multiply", keys: []string{"6", "×", "7", "="}, want: "42"},
		{name: "divide", keys: []string{"1", "÷", "4", "="}, want: "0.25"},
		{name: "ascii aliases", keys: []string{"9", "/", "3", "*", "2", "="}, want: "6"},
		{name: "chained", keys: []string{"1", "+", "2", "+", "3", "="}, want: "6"},
		{name: "left to right", keys: []string{"2", "+", "3", "×", "4", "="}, want: "20"},
		{name: "grouping", keys: []string{"1", "2", "3", "4", "×", "1", "0", "0", "0", "="}, want: "1,234,000"},
		{name: "fraction", keys: []string{"1", "2", "3", "4", ".", "5", "+", "0", "="}, want: "1,234.5"},
		{name: "equals without pending", keys: []string{"8", "="}, want: "8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			press(t, e, tc.keys...)
			assert.Equal(t, tc.want, e.DisplayText())
			assert.NoError(t, e.Fault())
		})
	}
}

func TestEngineChainingShowsIntermediateResult(t *testing.T) {
	e := NewEngine()
	press(t, e, "1", "+", "2", "+")

	assert.Equal(t, "3", e.DisplayText())
	require.NotNil(t, e.State().Pending)
	assert.Equal(t, OpAdd, e.State().Pending.Operator)
	assert.Equal(t, 3.0, e.State().Pending.Operand)
	assert.True(t, e.State().WaitingForOperand)
}

func TestEngineOperatorCapturesWithoutEvaluating(t *testing.T) {
	e := NewEngine()
	press(t, e, "9", "÷")

	assert.Equal(t, "9", e.DisplayText())
	require.NotNil(t, e.State().Pending)
	assert.Equal(t, PendingOperation{Operator: OpDivide, Operand: 9}, *e.State().Pending)
}

func TestEngineDivisionByZero(t *testing.T) {
	e := NewEngine()
	press(t, e, "0", "÷", "0", "=")

	assert.Equal(t, ErrorToken, e.DisplayText())
	assert.ErrorIs(t, e.Fault(), ErrDivisionByZero)
	assert.Nil(t, e.State().Pending)
	assert.Equal(t, 0.0, e.State().Value)
	assert.True(t, e.State().WaitingForOperand)

	e.PressDigit(5)
	assert.Equal(t, "5", e.DisplayText())
	assert.Nil(t, e.State().Pending)
	assert.NoError(t, e.Fault())
}

func TestEngineErrorKeepsModes(t *testing.T) {
	e := NewEngine()
	e.ToggleAngleMode()
	e.SetMode(ModeBasic)
	press(t, e, "7", "÷", "0", "+")

	assert.Equal(t, ErrorToken, e.DisplayText())
	assert.Equal(t, Radians, e.AngleMode())
	assert.Equal(t, ModeBasic, e.Mode())
}

func TestEngineNegativeRoot(t *testing.T) {
	e := NewEngine()
	press(t, e, "0", "-", "4", "=", "√")

	assert.Equal(t, ErrorToken, e.DisplayText())
	assert.ErrorIs(t, e.Fault(), ErrNegativeRoot)
}

func TestEngineOverflow(t *testing.T) {
	t.Run("result above safe integer", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "9", "9", "9", "9", "9", "9", "9", "9", "x²")

		assert.Equal(t, ErrorToken, e.DisplayText())
		assert.ErrorIs(t, e.Fault(), ErrNumericOverflow)
	})

	t.Run("tan of 90 degrees", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "9", "0", "tan")

		assert.Equal(t, ErrorToken, e.DisplayText())
		assert.ErrorIs(t, e.Fault(), ErrNumericOverflow)
	})
}

func TestEngineScientificOperations(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "square", keys: []string{"1", "2", "x²"}, want: "144"},
		{name: "sqrt", keys: []string{"8", "1", "√"}, want: "9"},
		{name: "cos degrees", keys: []string{"6", "0", "cos"}, want: "0.5"},
		{name: "sin degrees", keys: []string{"3", "0", "sin"}, want: "0.5"},
		{name: "tan degrees", keys: []string{"4", "5", "tan"}, want: "1"},
		{name: "sin of zero", keys: []string{"0", "sin"}, want: "0"},
		{name: "result feeds basic op", keys: []string{"9", "√", "+", "1", "="}, want: "4"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			press(t, e, tc.keys...)
			assert.Equal(t, tc.want, e.DisplayText())
			assert.True(t, e.State().WaitingForOperand)
			assert.Nil(t, e.State().Pending)
		})
	}
}

func TestEngineAngleMode(t *testing.T) {
	e := NewEngine()
	press(t, e, "9", "0", "sin")
	assert.InDelta(t, 1.0, e.State().Value, 1e-12)

	e.ToggleAngleMode()
	assert.Equal(t, Radians, e.AngleMode())
	assert.Equal(t, "1", e.DisplayText(), "toggling must not touch the display")

	s := e.State()
	s.Value = math.Pi / 2
	s.WaitingForOperand = true
	next := Reduce(s, Action{Kind: ActionOperator, Operator: OpSin})
	assert.InDelta(t, 1.0, next.Value, 1e-12)

	e.ToggleAngleMode()
	assert.Equal(t, Degrees, e.AngleMode())
}

func TestEngineScientificWhileWaitingAfterOperator(t *testing.T) {
	e := NewEngine()
	press(t, e, "4", "+", "√")

	assert.Equal(t, "2", e.DisplayText())
	assert.Nil(t, e.State().Pending)
}

func TestEngineScientificWithSecondOperandMidEntry(t *testing.T) {
	e := NewEngine()
	press(t, e, "2", "+", "3", "sin")

	assert.Equal(t, ErrorToken, e.DisplayText())
	assert.ErrorIs(t, e.Fault(), ErrOperatorMismatch)
	assert.Equal(t, "operator_mismatch", FaultKind(e.Fault()))
	assert.Nil(t, e.State().Pending)
	assert.True(t, e.State().WaitingForOperand)

	e.PressDigit(4)
	assert.Equal(t, "4", e.DisplayText())
	assert.NoError(t, e.Fault())
}

func TestEngineSquareRootWithSecondOperandMidEntry(t *testing.T) {
	e := NewEngine()
	e.ToggleAngleMode()
	press(t, e, "2", "+", "3", "√")

	assert.Equal(t, ErrorToken, e.DisplayText())
	assert.Equal(t, 0.0, e.State().Value)
	assert.Nil(t, e.State().Pending)
	assert.Equal(t, Radians, e.AngleMode())
}

func TestEngineClear(t *testing.T) {
	t.Run("clear entry keeps pending operation", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "1", "+", "2", "=")
		assert.Equal(t, "3", e.DisplayText())

		press(t, e, "+", "1")
		assert.False(t, e.IsInitialState())
		e.PressClear()
		assert.Equal(t, "0", e.DisplayText())
		assert.True(t, e.IsInitialState())
		require.NotNil(t, e.State().Pending)

		press(t, e, "2", "=")
		assert.Equal(t, "5", e.DisplayText())

		press(t, e, "+", "1", "C", "=")
		assert.Equal(t, "5", e.DisplayText())
	})

	t.Run("clear all drops pending operation", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "7", "×", "3")
		e.PressClear()
		require.NotNil(t, e.State().Pending)

		e.PressClear()
		assert.Nil(t, e.State().Pending)
		assert.True(t, e.IsInitialState())

		press(t, e, "4", "=")
		assert.Equal(t, "4", e.DisplayText())
	})

	t.Run("clear keeps modes", func(t *testing.T) {
		e := NewEngine()
		e.ToggleAngleMode()
		e.SetMode(ModeBasic)
		press(t, e, "5", "C", "C")

		assert.Equal(t, Radians, e.AngleMode())
		assert.Equal(t, ModeBasic, e.Mode())
	})

	t.Run("clear after error", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "1", "÷", "0", "=")
		assert.False(t, e.IsInitialState())

		e.PressClear()
		assert.Equal(t, "0", e.DisplayText())
		assert.True(t, e.IsInitialState())
	})
}

func TestEngineBackspace(t *testing.T) {
	t.Run("undoes digit entry", func(t *testing.T) {
		for _, digits := range []string{"7", "12", "905", "31415"} {
			e := NewEngine()
			for _, d := range digits {
				e.PressDigit(int(d - '0'))
			}
			for range digits {
				e.PressBackspace()
			}

			assert.Equal(t, "0", e.DisplayText(), digits)
			assert.True(t, e.IsInitialState(), digits)
		}
	})

	t.Run("reparses value", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "1", "2", ".", "5", "backspace")

		assert.Equal(t, "12.", e.DisplayText())
		assert.Equal(t, 12.0, e.State().Value)

		e.PressBackspace()
		assert.Equal(t, "12", e.DisplayText())
		assert.Equal(t, 12.0, e.State().Value)
	})

	t.Run("on error token", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "1", "÷", "0", "=", "backspace")

		assert.Equal(t, "0", e.DisplayText())
		assert.True(t, e.IsInitialState())
	})

	t.Run("on formatted result", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "1", "2", "3", "4", "+", "0", "=", "backspace")

		assert.Equal(t, "1,23", e.DisplayText())
		assert.Equal(t, 123.0, e.State().Value)
	})

	t.Run("on unparsable remainder", func(t *testing.T) {
		e := NewEngine()
		press(t, e, "0", "-", "5", "=")
		assert.Equal(t, "-5", e.DisplayText())

		e.PressBackspace()
		assert.Equal(t, "0", e.DisplayText())
		assert.True(t, e.IsInitialState())
	})
}

func TestEngineSetMode(t *testing.T) {
	e := NewEngine()
	press(t, e, "4", "2")

	e.SetMode(ModeBasic)
	assert.Equal(t, ModeBasic, e.Mode())
	assert.Equal(t, "42", e.DisplayText())

	e.SetMode(Mode("Graphing"))
	assert.Equal(t, ModeBasic, e.Mode())
}

func TestEngineIgnoresInvalidInput(t *testing.T) {
	e := NewEngine()
	press(t, e, "3")

	e.PressDigit(12)
	e.PressOperator("mod")
	e.Dispatch(Action{})

	assert.Equal(t, "3", e.DisplayText())
	assert.NoError(t, e.Fault())
}

func TestStepIsPure(t *testing.T) {
	s := InitialState()
	s = Reduce(s, Action{Kind: ActionDigit, Digit: 6})
	s = Reduce(s, Action{Kind: ActionOperator, Operator: OpMultiply})

	before := *s.Pending
	next := Reduce(s, Action{Kind: ActionDigit, Digit: 2})
	next = Reduce(next, Action{Kind: ActionOperator, Operator: OpAdd})

	assert.Equal(t, before, *s.Pending)
	assert.Equal(t, "6", s.Display)
	assert.Equal(t, "12", next.Display)
}

func TestStepReportsFault(t *testing.T) {
	s := InitialState()
	s = Reduce(s, Action{Kind: ActionOperator, Operator: OpDivide})

	next, err := Step(s, Action{Kind: ActionEquals})
	require.ErrorIs(t, err, ErrDivisionByZero)
	assert.True(t, next.InError())
	assert.Equal(t, "division_by_zero", FaultKind(err))
}
