package addition

import (
	"errors"
	"strings"
)

// AlignedOperandSet holds the operands padded to a common width.
// It is created once per calculation and never mutated afterwards.
type AlignedOperandSet struct {
	PaddedDigits     []string `json:"padded_digits"`
	DecimalPosition  int      `json:"decimal_position"`
	PaddingMask      [][]bool `json:"padding_mask"`
	OriginalOperands []string `json:"original_operands"`
}

// Width is the length W shared by every padded digit string.
func (a AlignedOperandSet) Width() int {
	if len(a.PaddedDigits) == 0 {
		return 0
	}
	return len(a.PaddedDigits[0])
}

// IntegerWidth is the number of integer columns.
func (a AlignedOperandSet) IntegerWidth() int {
	return a.Width() - a.DecimalPosition
}

// IsPadding reports whether the digit of operand row at string position pos
// was synthesised for alignment. Out of range positions report false.
func (a AlignedOperandSet) IsPadding(row, pos int) bool {
	if row < 0 || row >= len(a.PaddingMask) {
		return false
	}
	mask := a.PaddingMask[row]
	if pos < 0 || pos >= len(mask) {
		return false
	}
	return mask[pos]
}

// Normalize parses the raw operands and aligns them on the decimal separator.
func Normalize(operands []string) (AlignedOperandSet, error) {
	if len(operands) < MinOperands {
		return AlignedOperandSet{}, &InsufficientOperandsError{Count: len(operands)}
	}

	parsed := make([]Operand, len(operands))
	for i, raw := range operands {
		op, err := ParseOperand(raw)
		if err != nil {
			var invalid *InvalidOperandError
			if errors.As(err, &invalid) {
				invalid.Index = i
			}
			return AlignedOperandSet{}, err
		}
		parsed[i] = op
	}

	return Align(parsed), nil
}

// Align pads already parsed operands. Integer parts are zero-filled on the
// left and fractional parts on the right.
func Align(operands []Operand) AlignedOperandSet {
	maxIntLen, maxFracLen := 0, 0
	for _, op := range operands {
		maxIntLen = max(maxIntLen, len(op.IntPart))
		maxFracLen = max(maxFracLen, len(op.FracPart))
	}
	width := maxIntLen + maxFracLen

	aligned := AlignedOperandSet{
		PaddedDigits:     make([]string, len(operands)),
		DecimalPosition:  maxFracLen,
		PaddingMask:      make([][]bool, len(operands)),
		OriginalOperands: make([]string, len(operands)),
	}

	for r, op := range operands {
		lead := maxIntLen - len(op.IntPart)
		trail := maxFracLen - len(op.FracPart)

		var b strings.Builder
		b.Grow(width)
		b.WriteString(strings.Repeat("0", lead))
		b.WriteString(op.IntPart)
		b.WriteString(op.FracPart)
		b.WriteString(strings.Repeat("0", trail))
		aligned.PaddedDigits[r] = b.String()

		mask := make([]bool, width)
		for k := 0; k < lead; k++ {
			mask[k] = true
		}
		for k := maxIntLen + len(op.FracPart); k < width; k++ {
			mask[k] = true
		}
		aligned.PaddingMask[r] = mask
		aligned.OriginalOperands[r] = op.Raw
	}

	return aligned
}
