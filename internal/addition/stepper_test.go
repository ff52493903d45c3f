package addition

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustNormalize(t *testing.T, operands ...string) AlignedOperandSet {
	t.Helper()
	aligned, err := Normalize(operands)
	if err != nil {
		t.Fatalf("normalize %v: %v", operands, err)
	}
	return aligned
}

func TestComputeStepsMixedFractionLengths(t *testing.T) {
	aligned := mustNormalize(t, "12.5", "7.25")

	if diff := cmp.Diff([]string{"1250", "0725"}, aligned.PaddedDigits); diff != "" {
		t.Fatalf("padded digits mismatch (-want +got):\n%s", diff)
	}
	if aligned.DecimalPosition != 2 {
		t.Fatalf("expected decimal position 2, got %d", aligned.DecimalPosition)
	}

	want := []Step{
		{Digits: []int{0, 5}, Sum: 5, ResultDigit: 5, ColumnIndex: 0},
		{Digits: []int{5, 2}, Sum: 7, ResultDigit: 7, ColumnIndex: 1},
		{Digits: []int{2, 7}, Sum: 9, ResultDigit: 9, ColumnIndex: 2},
		{Digits: []int{1, 0}, Sum: 1, ResultDigit: 1, ColumnIndex: 3},
	}
	if diff := cmp.Diff(want, ComputeSteps(aligned)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	if got := ComputeExactResult(aligned); got != "19.75" {
		t.Fatalf("expected result 19.75, got %q", got)
	}
}

func TestComputeStepsFinalCarry(t *testing.T) {
	aligned := mustNormalize(t, "9", "9", "9")

	want := []Step{
		{Digits: []int{9, 9, 9}, Sum: 27, ResultDigit: 7, CarryOut: 2, ColumnIndex: 0},
		{Digits: []int{}, CarryIn: 2, Sum: 2, ResultDigit: 2, IsFinalCarry: true, ColumnIndex: 1},
	}
	if diff := cmp.Diff(want, ComputeSteps(aligned)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	if got := ComputeExactResult(aligned); got != "27" {
		t.Fatalf("expected result 27, got %q", got)
	}
}

func TestComputeStepsFractionalOverflow(t *testing.T) {
	aligned := mustNormalize(t, "0.9", "0.9")

	if diff := cmp.Diff([]string{"09", "09"}, aligned.PaddedDigits); diff != "" {
		t.Fatalf("padded digits mismatch (-want +got):\n%s", diff)
	}

	want := []Step{
		{Digits: []int{9, 9}, Sum: 18, ResultDigit: 8, CarryOut: 1, ColumnIndex: 0},
		{Digits: []int{0, 0}, CarryIn: 1, Sum: 1, ResultDigit: 1, ColumnIndex: 1},
	}
	if diff := cmp.Diff(want, ComputeSteps(aligned)); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	if got := ComputeExactResult(aligned); got != "1.8" {
		t.Fatalf("expected result 1.8, got %q", got)
	}
}

func TestFinalCarryWiderThanOneDigit(t *testing.T) {
	operands := make([]string, 12)
	for i := range operands {
		operands[i] = "9"
	}
	aligned := mustNormalize(t, operands...)
	steps := ComputeSteps(aligned)

	last := steps[len(steps)-1]
	if !last.IsFinalCarry || last.ResultDigit != 10 {
		t.Fatalf("expected final carry step writing 10, got %+v", last)
	}
	if err := CheckAgreement(aligned, steps); err != nil {
		t.Fatalf("agreement: %v", err)
	}
	if got := ComputeExactResult(aligned); got != "108" {
		t.Fatalf("expected 108, got %q", got)
	}
}

func TestCursorMatchesEagerSteps(t *testing.T) {
	aligned := mustNormalize(t, "999.99", "1.01", "0.5")

	cursor := NewCursor(aligned)
	var lazy []Step
	for cursor.HasNext() {
		step, ok := cursor.Next()
		if !ok {
			t.Fatal("HasNext reported true but Next returned nothing")
		}
		lazy = append(lazy, step)
	}
	if _, ok := cursor.Next(); ok {
		t.Fatal("expected exhausted cursor")
	}

	if diff := cmp.Diff(ComputeSteps(aligned), lazy); diff != "" {
		t.Fatalf("lazy and eager steps differ (-eager +lazy):\n%s", diff)
	}
}

func TestComputeStepsIsIdempotent(t *testing.T) {
	aligned := mustNormalize(t, "45.678", "0.0009", "12345")

	first := ComputeSteps(aligned)
	second := ComputeSteps(aligned)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("replay produced different steps:\n%s", diff)
	}
}

func TestExactResultUnboundedMagnitude(t *testing.T) {
	a := "123456789012345678901234567890.123456789"
	b := "987654321098765432109876543210.987654321"
	aligned := mustNormalize(t, a, b)

	if got, want := ComputeExactResult(aligned), "1111111110111111111011111111101.111111110"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestExactResultLeadingZeroFraction(t *testing.T) {
	aligned := mustNormalize(t, "0.01", "0.02")
	if got := ComputeExactResult(aligned); got != "0.03" {
		t.Fatalf("expected 0.03, got %q", got)
	}
}

func TestStepsAgreeWithExactResult(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 500; i++ {
		count := 2 + rng.IntN(14)
		operands := make([]string, count)
		for r := range operands {
			operands[r] = randomOperand(rng)
		}

		aligned, err := Normalize(operands)
		if err != nil {
			t.Fatalf("normalize %v: %v", operands, err)
		}
		steps := ComputeSteps(aligned)

		if got, want := DigitsResult(steps, aligned.DecimalPosition), ComputeExactResult(aligned); got != want {
			t.Fatalf("operands %v: digits give %s, exact result %s", operands, got, want)
		}
		if got, want := ComputeExactResult(aligned), ratSum(t, operands, aligned.DecimalPosition); got != want {
			t.Fatalf("operands %v: exact result %s, rational sum %s", operands, got, want)
		}

		for _, step := range steps {
			if step.IsFinalCarry {
				if step.CarryOut != 0 || len(step.Digits) != 0 || step.ResultDigit != step.CarryIn {
					t.Fatalf("malformed final carry step %+v", step)
				}
				continue
			}
			if step.CarryOut < 0 || step.CarryOut > count {
				t.Fatalf("operands %v: carry %d out of bounds", operands, step.CarryOut)
			}
			if step.CarryOut != step.Sum/10 || step.ResultDigit != step.Sum%10 {
				t.Fatalf("inconsistent step %+v", step)
			}
		}
	}
}

func TestCheckAgreementDetectsMismatch(t *testing.T) {
	aligned := mustNormalize(t, "1", "2")
	steps := ComputeSteps(aligned)
	steps[0].ResultDigit = 4

	if err := CheckAgreement(aligned, steps); !errors.Is(err, ErrResultMismatch) {
		t.Fatalf("expected ErrResultMismatch, got %v", err)
	}
}

func TestCalculate(t *testing.T) {
	result, steps, err := Calculate([]string{"12,5", "7.25"})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.ResultString != "19.75" {
		t.Fatalf("expected 19.75, got %q", result.ResultString)
	}
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if diff := cmp.Diff([]string{"12,5", "7.25"}, result.Aligned.OriginalOperands); diff != "" {
		t.Fatalf("original operands not preserved:\n%s", diff)
	}
}

func randomOperand(rng *rand.Rand) string {
	var b strings.Builder
	intLen := rng.IntN(25)
	for i := 0; i < intLen; i++ {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	if fracLen := rng.IntN(8); fracLen > 0 || intLen == 0 {
		b.WriteByte('.')
		for i := 0; i < max(fracLen, 1); i++ {
			b.WriteByte(byte('0' + rng.IntN(10)))
		}
	}
	return b.String()
}

// ratSum adds operands as rationals and formats with decimals digits.
func ratSum(t *testing.T, operands []string, decimals int) string {
	t.Helper()
	total := new(big.Rat)
	for _, op := range operands {
		if strings.HasPrefix(op, ".") {
			op = "0" + op
		}
		r, ok := new(big.Rat).SetString(op)
		if !ok {
			t.Fatalf("big.Rat cannot parse %q", op)
		}
		total.Add(total, r)
	}
	return total.FloatString(decimals)
}
