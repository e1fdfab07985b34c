package calc

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// ErrorToken is displayed while the engine is in the error condition.
	ErrorToken = "ERROR"

	// MaxSafeInteger is the largest magnitude the display treats as exact.
	MaxSafeInteger = 1<<53 - 1

	expUpperBound     = 1e12
	expLowerBound     = 1e-4
	maxFractionDigits = 8
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders v the way the display shows a committed value. It never
// fails: values that cannot be shown map to ErrorToken.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorToken
	}

	abs := math.Abs(v)
	if abs > MaxSafeInteger {
		return ErrorToken
	}
	if v == 0 {
		return "0"
	}
	if abs > expUpperBound || abs < expLowerBound {
		return formatExponent(v)
	}

	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}

// formatExponent writes v as d.dde±x with a minimal exponent.
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'e', 2, 64)

	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}

	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}

	sign := "+"
	if n < 0 {
		sign = "-"
		n = -n
	}
	return mantissa + "e" + sign + strconv.Itoa(n)
}

// parseDisplay reads a display string back into a number, ignoring
// grouping separators.
func parseDisplay(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
