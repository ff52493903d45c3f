// Package session tracks one learner's calculation through the Idle,
// Stepping and Complete phases.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"sumtutor/internal/addition"
)

// Phase is the calculation state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStepping
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStepping:
		return "stepping"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = PhaseIdle
	case "stepping":
		*p = PhaseStepping
	case "complete":
		*p = PhaseComplete
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Frame is one produced step with its narration.
type Frame struct {
	Step      addition.Step `json:"step"`
	Narration string        `json:"narration"`
	Summary   string        `json:"summary"`
	Label     string        `json:"label"`
	Last      bool          `json:"last"`
}

// Session is a single calculation engine instance. Only one calculation can
// be stepping at a time; all methods are safe for concurrent use.
type Session struct {
	id       string
	narrator addition.Narrator

	mu               sync.Mutex
	phase            Phase
	operands         []string
	result           *addition.CalculationResult
	cursor           *addition.Cursor
	frames           []Frame
	paddingExplained bool
}

// New returns an idle session.
func New(id string, narrator addition.Narrator) *Session {
	return &Session{id: id, narrator: narrator}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Operands returns a copy of the operand list.
func (s *Session) Operands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.operands)
}

// AddOperand appends a validated operand and returns the session to Idle.
func (s *Session) AddOperand(value string) error {
	op, err := addition.ParseOperand(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.operands = append(s.operands, addition.CleanOperand(op.Raw))
	s.resetLocked()
	return nil
}

// EditOperand replaces operand index. An invalid value keeps the previous one.
func (s *Session) EditOperand(index int, value string) error {
	op, err := addition.ParseOperand(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.operands) {
		return fmt.Errorf("%w: %d", ErrOperandOutOfRange, index)
	}
	s.operands[index] = addition.CleanOperand(op.Raw)
	s.resetLocked()
	return nil
}

// RemoveOperand deletes operand index.
func (s *Session) RemoveOperand(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.operands) {
		return fmt.Errorf("%w: %d", ErrOperandOutOfRange, index)
	}
	s.operands = slices.Delete(s.operands, index, index+1)
	s.resetLocked()
	return nil
}

// SetOperands replaces the whole operand list. Nothing changes when any value
// is invalid.
func (s *Session) SetOperands(values []string) error {
	cleaned := make([]string, len(values))
	for i, v := range values {
		op, err := addition.ParseOperand(v)
		if err != nil {
			var invalid *addition.InvalidOperandError
			if errors.As(err, &invalid) {
				invalid.Index = i
			}
			return err
		}
		cleaned[i] = addition.CleanOperand(op.Raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.operands = cleaned
	s.resetLocked()
	return nil
}

// Start normalizes the current operands and begins stepping. The returned
// result is final and can be stored right away.
func (s *Session) Start(ctx context.Context) (addition.CalculationResult, error) {
	if err := ctx.Err(); err != nil {
		return addition.CalculationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseStepping {
		return addition.CalculationResult{}, &ConcurrentCalculationError{SessionID: s.id, Phase: s.phase}
	}

	aligned, err := addition.Normalize(s.operands)
	if err != nil {
		return addition.CalculationResult{}, err
	}

	result := addition.CalculationResult{
		ResultString: addition.ComputeExactResult(aligned),
		Aligned:      aligned,
	}
	s.beginLocked(&result)
	return result, nil
}

// Next produces the next step. After the last step the session is Complete
// and the written digits have been checked against the exact result.
func (s *Session) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseStepping {
		return Frame{}, ErrNotStepping
	}

	step, ok := s.cursor.Next()
	if !ok {
		// zero-width calculations cannot be normalized, so this is unreachable
		s.phase = PhaseComplete
		return Frame{}, ErrNotStepping
	}

	aligned := s.result.Aligned
	var narration string
	narration, s.paddingExplained = s.narrator.Explain(step, aligned, s.paddingExplained)

	frame := Frame{
		Step:      step,
		Narration: narration,
		Summary:   addition.Summarize(step, aligned.DecimalPosition),
		Label:     addition.ColumnLabel(step.ColumnIndex, aligned.DecimalPosition),
		Last:      !s.cursor.HasNext(),
	}
	s.frames = append(s.frames, frame)

	if frame.Last {
		s.phase = PhaseComplete
		s.cursor = nil
		if err := addition.CheckAgreement(aligned, s.steps()); err != nil {
			return frame, err
		}
	}
	return frame, nil
}

// Replay steps the completed calculation again over the same aligned
// operands.
func (s *Session) Replay(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseComplete || s.result == nil {
		return ErrNotComplete
	}
	s.beginLocked(s.result)
	return nil
}

// Reset abandons any calculation and returns to Idle. Operands are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Load shows a stored calculation as already complete. Padding is treated as
// explained, so narration of loaded steps skips the alignment remark.
func (s *Session) Load(result addition.CalculationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseStepping {
		return &ConcurrentCalculationError{SessionID: s.id, Phase: s.phase}
	}

	s.result = &result
	s.operands = slices.Clone(result.Aligned.OriginalOperands)
	s.cursor = nil
	s.paddingExplained = true
	s.frames = Frames(s.narrator, result.Aligned, addition.ComputeSteps(result.Aligned), true)
	s.phase = PhaseComplete
	return nil
}

// Frames narrates a complete step sequence, threading the padding flag from
// paddingExplained through every step.
func Frames(n addition.Narrator, aligned addition.AlignedOperandSet, steps []addition.Step, paddingExplained bool) []Frame {
	frames := make([]Frame, len(steps))
	for i, step := range steps {
		var narration string
		narration, paddingExplained = n.Explain(step, aligned, paddingExplained)
		frames[i] = Frame{
			Step:      step,
			Narration: narration,
			Summary:   addition.Summarize(step, aligned.DecimalPosition),
			Label:     addition.ColumnLabel(step.ColumnIndex, aligned.DecimalPosition),
			Last:      i == len(steps)-1,
		}
	}
	return frames
}

func (s *Session) beginLocked(result *addition.CalculationResult) {
	s.result = result
	s.cursor = addition.NewCursor(result.Aligned)
	s.frames = nil
	s.paddingExplained = false
	s.phase = PhaseStepping
}

func (s *Session) resetLocked() {
	s.phase = PhaseIdle
	s.result = nil
	s.cursor = nil
	s.frames = nil
	s.paddingExplained = false
}

func (s *Session) steps() []addition.Step {
	steps := make([]addition.Step, len(s.frames))
	for i, f := range s.frames {
		steps[i] = f.Step
	}
	return steps
}

// Snapshot is a serialisable view of a session.
type Snapshot struct {
	ID               string                      `json:"id"`
	Phase            Phase                       `json:"phase"`
	Operands         []string                    `json:"operands"`
	Result           *addition.CalculationResult `json:"result,omitempty"`
	Frames           []Frame                     `json:"frames"`
	PaddingExplained bool                        `json:"padding_explained"`
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		Phase:            s.phase,
		Operands:         slices.Clone(s.operands),
		Frames:           slices.Clone(s.frames),
		PaddingExplained: s.paddingExplained,
	}
	if snap.Operands == nil {
		snap.Operands = []string{}
	}
	if snap.Frames == nil {
		snap.Frames = []Frame{}
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
