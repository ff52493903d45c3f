package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sumtutor/internal/addition"
)

// noActive renders a board without a highlighted column.
const noActive = -1

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	digitStyle   = lipgloss.NewStyle()
	paddingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")).Faint(true)
	carryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Reverse(true).Bold(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E")).Italic(true)
)

// renderBoard draws the column addition as written on paper: place labels,
// carries, the aligned operands with synthetic zeros dimmed, and the result
// digits produced so far. active is the column being explained, the aligned
// width for the final carry, or noActive.
func renderBoard(aligned addition.AlignedOperandSet, steps []addition.Step, active int) string {
	width := aligned.Width()

	produced := make(map[int]addition.Step, len(steps))
	var final *addition.Step
	for i := range steps {
		if steps[i].IsFinalCarry {
			final = &steps[i]
			continue
		}
		produced[steps[i].ColumnIndex] = steps[i]
	}

	row := func(lead string, leadStyle lipgloss.Style, sep string, cell func(col int) (string, lipgloss.Style)) string {
		var b strings.Builder
		b.WriteString(leadStyle.Render(fmt.Sprintf("%3s", lead)))
		for pos := 0; pos < width; pos++ {
			if pos == aligned.IntegerWidth() && aligned.DecimalPosition > 0 {
				b.WriteString(sep)
			}
			col := width - 1 - pos
			text, style := cell(col)
			if col == active {
				style = activeStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%2s", text)))
		}
		return b.String()
	}

	lines := []string{
		row("", labelStyle, " ", func(col int) (string, lipgloss.Style) {
			return addition.ColumnLabel(col, aligned.DecimalPosition), labelStyle
		}),
		row("", carryStyle, " ", func(col int) (string, lipgloss.Style) {
			if s, ok := produced[col]; ok && s.CarryIn > 0 {
				return strconv.Itoa(s.CarryIn), carryStyle
			}
			return "", carryStyle
		}),
	}

	for r, digits := range aligned.PaddedDigits {
		lead := ""
		if r == len(aligned.PaddedDigits)-1 {
			lead = "+"
		}
		lines = append(lines, row(lead, digitStyle, ",", func(col int) (string, lipgloss.Style) {
			pos := width - 1 - col
			if aligned.IsPadding(r, pos) {
				return digits[pos : pos+1], paddingStyle
			}
			return digits[pos : pos+1], digitStyle
		}))
	}

	// 3 lead cells, 2 per column, 1 for the separator
	ruleWidth := 3 + 2*width
	if aligned.DecimalPosition > 0 {
		ruleWidth++
	}
	lines = append(lines, ruleStyle.Render(strings.Repeat("─", ruleWidth)))

	finalLead, finalStyle := "", resultStyle
	if final != nil {
		finalLead = strconv.Itoa(final.ResultDigit)
		if active == width {
			finalStyle = activeStyle
		}
	}
	lines = append(lines, row(finalLead, finalStyle, ",", func(col int) (string, lipgloss.Style) {
		if s, ok := produced[col]; ok {
			return strconv.Itoa(s.ResultDigit), resultStyle
		}
		return "", resultStyle
	}))

	return strings.Join(lines, "\n")
}
