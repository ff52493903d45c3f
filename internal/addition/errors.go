package addition

import (
	"errors"
	"fmt"
)

// ErrResultMismatch is returned when the digits read back from the steps
// disagree with the exact big-integer sum.
var ErrResultMismatch = errors.New("step digits disagree with exact result")

// InvalidOperandError reports an operand that does not match the decimal
// grammar. Index is -1 when the operand was parsed on its own.
type InvalidOperandError struct {
	Index  int
	Value  string
	Reason string
}

func (e *InvalidOperandError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid operand %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid operand %d (%q): %s", e.Index, e.Value, e.Reason)
}

// InsufficientOperandsError reports a calculation with fewer than two operands.
type InsufficientOperandsError struct {
	Count int
}

func (e *InsufficientOperandsError) Error() string {
	return fmt.Sprintf("at least %d operands are required, got %d", MinOperands, e.Count)
}
