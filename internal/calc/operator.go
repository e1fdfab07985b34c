package calc

import (
	"fmt"
	"math"
)

// Operator is either a BasicOp or a ScientificOp.
type Operator interface {
	Symbol() string
	operator()
}

// BasicOp is a two-operand operator whose evaluation is deferred until the
// second operand is known.
type BasicOp int

const (
	OpAdd BasicOp = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
)

func (BasicOp) operator() {}

// Symbol returns the keypad label of the operator.
func (o BasicOp) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return fmt.Sprintf("BasicOp(%d)", int(o))
	}
}

func (o BasicOp) String() string { return o.Symbol() }

// Apply evaluates a op b.
func (o BasicOp) Apply(a, b float64) (float64, error) {
	switch o {
	case OpAdd:
		return a + b, nil
	case OpSubtract:
		return a - b, nil
	case OpMultiply:
		return a * b, nil
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g ÷ %g", ErrDivisionByZero, a, b)
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownOperator, o)
	}
}

// ScientificOp is a single-operand operator evaluated immediately against
// the current value.
type ScientificOp int

const (
	OpSin ScientificOp = iota + 1
	OpCos
	OpTan
	OpSquare
	OpSqrt
)

func (ScientificOp) operator() {}

// Symbol returns the keypad label of the operator.
func (o ScientificOp) Symbol() string {
	switch o {
	case OpSin:
		return "sin"
	case OpCos:
		return "cos"
	case OpTan:
		return "tan"
	case OpSquare:
		return "x²"
	case OpSqrt:
		return "√"
	default:
		return fmt.Sprintf("ScientificOp(%d)", int(o))
	}
}

func (o ScientificOp) String() string { return o.Symbol() }

// Apply evaluates the operator on x. Trigonometric operators read x as
// degrees when angle is Degrees.
func (o ScientificOp) Apply(x float64, angle AngleMode) (float64, error) {
	switch o {
	case OpSin:
		return math.Sin(toRadians(x, angle)), nil
	case OpCos:
		return math.Cos(toRadians(x, angle)), nil
	case OpTan:
		return math.Tan(toRadians(x, angle)), nil
	case OpSquare:
		return x * x, nil
	case OpSqrt:
		if x < 0 {
			return 0, fmt.Errorf("%w: √%g", ErrNegativeRoot, x)
		}
		return math.Sqrt(x), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownOperator, o)
	}
}

func toRadians(x float64, angle AngleMode) float64 {
	if angle == Degrees {
		return x * math.Pi / 180
	}
	return x
}

var operatorSymbols = map[string]Operator{
	"+": OpAdd,
	"-": OpSubtract,
	"×": OpMultiply,
	"*": OpMultiply,
	"x": OpMultiply,
	"÷": OpDivide,
	"/": OpDivide,

	"sin":    OpSin,
	"cos":    OpCos,
	"tan":    OpTan,
	"x²":     OpSquare,
	"square": OpSquare,
	"^2":     OpSquare,
	"√":      OpSqrt,
	"sqrt":   OpSqrt,
}

// LookupOperator resolves a keypad symbol or one of its ASCII aliases.
func LookupOperator(symbol string) (Operator, error) {
	op, ok := operatorSymbols[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, symbol)
	}
	return op, nil
}
