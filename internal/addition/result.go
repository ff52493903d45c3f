package addition

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// CalculationResult is a completed calculation: the aligned operands and the
// exact decimal sum.
type CalculationResult struct {
	ResultString string            `json:"result"`
	Aligned      AlignedOperandSet `json:"aligned"`
}

// ComputeExactResult sums the padded digit strings as arbitrary precision
// integers and formats the total with DecimalPosition fractional digits.
func ComputeExactResult(aligned AlignedOperandSet) string {
	total := new(big.Int)
	n := new(big.Int)
	for _, digits := range aligned.PaddedDigits {
		// digit strings are validated by Normalize
		if _, ok := n.SetString(digits, 10); ok {
			total.Add(total, n)
		}
	}
	return formatFixed(total.String(), aligned.DecimalPosition)
}

// formatFixed inserts a decimal separator decimals digits from the right,
// zero-filling so at least one integer digit remains.
func formatFixed(digits string, decimals int) string {
	if len(digits) < decimals+1 {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}
	if decimals == 0 {
		return digits
	}
	cut := len(digits) - decimals
	return digits[:cut] + "." + digits[cut:]
}

// DigitsResult reads the written digits back from steps, leftmost first, and
// formats them like ComputeExactResult.
func DigitsResult(steps []Step, decimalPosition int) string {
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteString(strconv.Itoa(steps[i].ResultDigit))
	}
	return formatFixed(b.String(), decimalPosition)
}

// CheckAgreement verifies that steps write down exactly the exact result.
func CheckAgreement(aligned AlignedOperandSet, steps []Step) error {
	exact := ComputeExactResult(aligned)
	got := DigitsResult(steps, aligned.DecimalPosition)
	if got != exact {
		return fmt.Errorf("%w: steps give %s, exact sum is %s", ErrResultMismatch, got, exact)
	}
	return nil
}

// Calculate normalizes operands and returns the exact result together with
// the full step sequence.
func Calculate(operands []string) (CalculationResult, []Step, error) {
	aligned, err := Normalize(operands)
	if err != nil {
		return CalculationResult{}, nil, err
	}

	steps := ComputeSteps(aligned)
	if err := CheckAgreement(aligned, steps); err != nil {
		return CalculationResult{}, nil, err
	}

	return CalculationResult{
		ResultString: ComputeExactResult(aligned),
		Aligned:      aligned,
	}, steps, nil
}
