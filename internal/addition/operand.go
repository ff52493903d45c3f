// Package addition implements long-hand column addition over decimal strings:
// operand alignment with padding provenance, the column stepper, the exact
// big-integer result and the Spanish narration of every step.
//
// Everything in this package is pure. Pacing, rendering and persistence are
// left to callers.
package addition

import (
	"strings"

	"golang.org/x/text/width"
)

// MinOperands is the smallest operand count a calculation accepts.
const MinOperands = 2

// Operand is a parsed, non-negative decimal operand.
type Operand struct {
	Raw      string // as typed
	IntPart  string // digits before the separator, never empty, no redundant leading zeros
	FracPart string // digits after the separator, possibly empty
}

// Digits returns the operand digits without separator.
func (o Operand) Digits() string {
	return o.IntPart + o.FracPart
}

// String renders the canonical form of the operand, e.g. "0.5" for ".5".
func (o Operand) String() string {
	if o.FracPart == "" {
		return o.IntPart
	}
	return o.IntPart + "." + o.FracPart
}

// CleanOperand folds full-width characters, trims whitespace and accepts a
// comma as decimal separator.
func CleanOperand(raw string) string {
	s := width.Narrow.String(raw)
	s = strings.TrimSpace(s)
	return strings.Replace(s, ",", ".", 1)
}

// ParseOperand validates raw against [-]?digits[.digits]? (".5" and "5." are
// accepted) and splits it into integer and fractional parts.
func ParseOperand(raw string) (Operand, error) {
	s := CleanOperand(raw)
	if s == "" {
		return Operand{}, &InvalidOperandError{Index: -1, Value: raw, Reason: "empty value"}
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	}

	intPart, fracPart, hasSep := strings.Cut(s, ".")
	if hasSep && strings.Contains(fracPart, ".") {
		return Operand{}, &InvalidOperandError{Index: -1, Value: raw, Reason: "more than one decimal separator"}
	}
	if intPart == "" && fracPart == "" {
		return Operand{}, &InvalidOperandError{Index: -1, Value: raw, Reason: "no digits"}
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Operand{}, &InvalidOperandError{Index: -1, Value: raw, Reason: "not a decimal number"}
	}
	if negative {
		return Operand{}, &InvalidOperandError{Index: -1, Value: raw, Reason: "negative operands cannot be added in columns"}
	}

	// Leading zeros carry no place value and do not count as original digits.
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}

	return Operand{Raw: raw, IntPart: intPart, FracPart: fracPart}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
