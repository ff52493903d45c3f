package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotStepping       = errors.New("no calculation is stepping")
	ErrNotComplete       = errors.New("no completed calculation to replay")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTooManySessions   = errors.New("too many sessions")
	ErrOperandOutOfRange = errors.New("operand index out of range")
)

// ConcurrentCalculationError is returned when a calculation is started while
// another one is still stepping on the same session.
type ConcurrentCalculationError struct {
	SessionID string
	Phase     Phase
}

func (e *ConcurrentCalculationError) Error() string {
	return fmt.Sprintf("session %s: calculation already in progress (phase %s)", e.SessionID, e.Phase)
}
