package calc

import "errors"

// Arithmetic faults. The engine never returns these to a caller of an action;
// they move the state into the error condition instead.
var (
	ErrDivisionByZero  = errors.New("calc: division by zero")
	ErrNegativeRoot    = errors.New("calc: square root of negative number")
	ErrNumericOverflow = errors.New("calc: numeric overflow")

	// ErrOperatorMismatch is raised when a scientific key is pressed while
	// the second operand of a basic operation is being typed.
	ErrOperatorMismatch = errors.New("calc: basic operator has no scientific form")
)

// Input errors, returned while translating external input into actions.
var (
	ErrUnknownOperator  = errors.New("calc: unknown operator")
	ErrUnknownKey       = errors.New("calc: unknown key")
	ErrKeyUnavailable   = errors.New("calc: key not available in mode")
	ErrInvalidMode      = errors.New("calc: invalid mode")
	ErrInvalidAngleMode = errors.New("calc: invalid angle mode")
)

// FaultKind names an arithmetic fault for logs and metrics. It returns ""
// for nil or non-arithmetic errors.
func FaultKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrNegativeRoot):
		return "negative_root"
	case errors.Is(err, ErrNumericOverflow):
		return "numeric_overflow"
	case errors.Is(err, ErrOperatorMismatch):
		return "operator_mismatch"
	default:
		return ""
	}
}
