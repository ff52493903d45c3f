package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumtutor/internal/addition"
	"sumtutor/internal/animate"
	"sumtutor/internal/session"
)

var (
	addDelay time.Duration
	addQuiet bool
)

// addCmd animates a stepping session
var addCmd = &cobra.Command{
	Use:   "add [operand...]",
	Short: "Walk through a column addition step by step",
	Long: `Adds the operands column by column, redrawing the board after each step
and narrating what happens in that column.

Example:
  sumtutor add 58.7 63,45 0.05 --delay 1s`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().DurationVar(&addDelay, "delay", 800*time.Millisecond, "Pause between columns (0 shows every step at once)")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "Show the board only, without narration")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	n := narrator()

	if err := checkAudience(); err != nil {
		return err
	}

	sess := session.New(uuid.NewString(), n)
	if err := sess.SetOperands(args); err != nil {
		return err
	}
	result, err := sess.Start(ctx)
	if err != nil {
		return err
	}
	// Record before animating so an interrupted run is still in history.
	if err := recordHistory(ctx, result); err != nil {
		return err
	}
	aligned := result.Aligned

	logger.Debug("stepping started",
		zap.String("session_id", sess.ID()),
		zap.Strings("padded_digits", aligned.PaddedDigits),
		zap.Int("decimal_position", aligned.DecimalPosition),
	)

	fmt.Fprintln(out, renderBoard(aligned, nil, noActive))

	var steps []addition.Step
	err = animate.Play(ctx, animate.SessionSource{Session: sess}, addDelay, func(f session.Frame) error {
		steps = append(steps, f.Step)
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderBoard(aligned, steps, f.Step.ColumnIndex))
		if !addQuiet {
			fmt.Fprintln(out, f.Narration)
		}
		fmt.Fprintln(out, noteStyle.Render(f.Summary))
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, resultStyle.Render(addition.FormatEquation(aligned.OriginalOperands, result.ResultString)))

	phrase, err := addition.Motivation(addition.Audience(audience), n.Pick, len(steps))
	if err != nil {
		return err
	}
	fmt.Fprintln(out, phrase)
	return nil
}

func checkAudience() error {
	switch addition.Audience(audience) {
	case addition.AudienceKid, addition.AudienceAdult:
		return nil
	}
	return fmt.Errorf("unknown audience %q (want kid or adult)", audience)
}
