package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sumtutor/internal/addition"
	"sumtutor/internal/session"
)

var explainJSON bool

// explainCmd prints the whole procedure at once
var explainCmd = &cobra.Command{
	Use:   "explain [operand...]",
	Short: "Print every step of a column addition at once",
	Long: `Computes all the columns up front and prints the finished board followed
by the explanation of each column. Nothing is stored in history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print the steps as JSON")
}

func runExplain(cmd *cobra.Command, args []string) error {
	result, steps, err := addition.Calculate(args)
	if err != nil {
		return err
	}
	frames := session.Frames(narrator(), result.Aligned, steps, false)

	out := cmd.OutOrStdout()
	if explainJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Aligned addition.AlignedOperandSet `json:"aligned"`
			Steps   []session.Frame            `json:"steps"`
			Result  string                     `json:"result"`
		}{result.Aligned, frames, result.ResultString})
	}

	printProcedure(out, result, steps, frames)
	return nil
}

// printProcedure writes the finished board, each column's explanation and
// the final equation.
func printProcedure(out io.Writer, result addition.CalculationResult, steps []addition.Step, frames []session.Frame) {
	aligned := result.Aligned
	fmt.Fprintln(out, renderBoard(aligned, steps, noActive))
	fmt.Fprintln(out)

	for i, f := range frames {
		name := addition.ColumnName(f.Step.ColumnIndex, aligned.DecimalPosition)
		if f.Step.IsFinalCarry {
			name = "llevada final"
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, labelStyle.Render(name))
		fmt.Fprintf(out, "   %s\n", f.Narration)
		fmt.Fprintf(out, "   %s\n", noteStyle.Render(f.Summary))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, resultStyle.Render(addition.FormatEquation(aligned.OriginalOperands, result.ResultString)))
}
