package addition

// Step records the addition of one column, rightmost column first.
// The synthetic final-carry step has no digits and writes down the carry.
type Step struct {
	Digits       []int `json:"digits"`
	CarryIn      int   `json:"carry_in"`
	CarryOut     int   `json:"carry_out"`
	Sum          int   `json:"sum"`
	ResultDigit  int   `json:"result_digit"`
	IsFinalCarry bool  `json:"is_final_carry,omitempty"`
	ColumnIndex  int   `json:"column_index"`
}

// Cursor produces steps one at a time. It holds only the running carry, so
// pausing between calls to Next is free and has no effect on the output.
type Cursor struct {
	aligned AlignedOperandSet
	column  int
	carry   int
	done    bool
}

// NewCursor starts a cursor at the rightmost column of aligned.
func NewCursor(aligned AlignedOperandSet) *Cursor {
	return &Cursor{aligned: aligned}
}

// HasNext reports whether Next will return another step.
func (c *Cursor) HasNext() bool {
	if c.done {
		return false
	}
	return c.column < c.aligned.Width() || c.carry > 0
}

// Next returns the next step, or false once the cursor is exhausted.
func (c *Cursor) Next() (Step, bool) {
	if !c.HasNext() {
		c.done = true
		return Step{}, false
	}

	width := c.aligned.Width()
	if c.column >= width {
		// leftover carry becomes the leading digit
		step := Step{
			Digits:       []int{},
			CarryIn:      c.carry,
			Sum:          c.carry,
			ResultDigit:  c.carry,
			IsFinalCarry: true,
			ColumnIndex:  width,
		}
		c.carry = 0
		c.done = true
		return step, true
	}

	digitIndex := width - 1 - c.column
	step := Step{
		Digits:      make([]int, len(c.aligned.PaddedDigits)),
		CarryIn:     c.carry,
		ColumnIndex: c.column,
	}
	sum := c.carry
	for r, digits := range c.aligned.PaddedDigits {
		d := int(digits[digitIndex] - '0')
		step.Digits[r] = d
		sum += d
	}
	step.Sum = sum
	step.ResultDigit = sum % 10
	step.CarryOut = sum / 10

	c.carry = step.CarryOut
	c.column++
	return step, true
}

// ComputeSteps returns every step of the calculation eagerly. It drains a
// fresh Cursor, so the sequence is identical to paced consumption.
func ComputeSteps(aligned AlignedOperandSet) []Step {
	steps := make([]Step, 0, aligned.Width()+1)
	cursor := NewCursor(aligned)
	for {
		step, ok := cursor.Next()
		if !ok {
			return steps
		}
		steps = append(steps, step)
	}
}
