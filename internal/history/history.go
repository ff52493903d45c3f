// Package history stores completed calculations so they can be listed and
// replayed without re-deriving the aligned operands.
package history

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"sumtutor/internal/addition"
)

// ErrNotFound is returned when no calculation has the requested ID.
var ErrNotFound = errors.New("calculation not found")

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Calculation is an immutable completed sum.
type Calculation struct {
	ID              string    `json:"id"`
	Operands        []string  `json:"operands"`
	PaddedDigits    []string  `json:"padded_digits"`
	DecimalPosition int       `json:"decimal_position"`
	PaddingMask     [][]bool  `json:"padding_mask"`
	Result          string    `json:"result"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewCalculation captures result under a fresh ID.
func NewCalculation(result addition.CalculationResult, now time.Time) Calculation {
	a := result.Aligned
	mask := make([][]bool, len(a.PaddingMask))
	for i, row := range a.PaddingMask {
		mask[i] = slices.Clone(row)
	}
	return Calculation{
		ID:              uuid.New().String(),
		Operands:        slices.Clone(a.OriginalOperands),
		PaddedDigits:    slices.Clone(a.PaddedDigits),
		DecimalPosition: a.DecimalPosition,
		PaddingMask:     mask,
		Result:          result.ResultString,
		CreatedAt:       now.UTC(),
	}
}

// Aligned rehydrates the stored aligned operand set.
func (c Calculation) Aligned() addition.AlignedOperandSet {
	return addition.AlignedOperandSet{
		PaddedDigits:     c.PaddedDigits,
		DecimalPosition:  c.DecimalPosition,
		PaddingMask:      c.PaddingMask,
		OriginalOperands: c.Operands,
	}
}

// CalculationResult returns the stored calculation as engine input for replay.
func (c Calculation) CalculationResult() addition.CalculationResult {
	return addition.CalculationResult{ResultString: c.Result, Aligned: c.Aligned()}
}

// Equation renders the history line, e.g. "12,5 + 7,25 = 19,75".
func (c Calculation) Equation() string {
	return addition.FormatEquation(c.Operands, c.Result)
}

// Store persists calculations.
type Store interface {
	Save(ctx context.Context, calc Calculation) error
	Get(ctx context.Context, id string) (Calculation, error)
	// List returns at most limit calculations, newest first.
	List(ctx context.Context, limit int) ([]Calculation, error)
	Close() error
}
