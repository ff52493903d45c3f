package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumtutor/internal/addition"
	"sumtutor/internal/history"
	"sumtutor/internal/history/sqlite"
	"sumtutor/internal/session"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past calculations",
	Long: `Lists the calculations stored in the --history SQLite file, newest first.

Use "sumtutor history show <id>" to see one of them again.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full procedure of a past calculation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultListLimit, "Maximum number of calculations to list")
	historyCmd.AddCommand(historyShowCmd)
}

var errNoHistory = errors.New("no history file configured (use --history or SUMTUTOR_HISTORY_PATH)")

func openHistory() (*sqlite.Store, error) {
	if historyPath == "" {
		return nil, errNoHistory
	}
	return sqlite.Open(historyPath)
}

// recordHistory stores a finished calculation when history is enabled.
func recordHistory(ctx context.Context, result addition.CalculationResult) error {
	if historyPath == "" {
		return nil
	}
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	calc := history.NewCalculation(result, time.Now())
	if err := store.Save(ctx, calc); err != nil {
		return fmt.Errorf("save calculation: %w", err)
	}
	logger.Debug("calculation saved", zap.String("id", calc.ID), zap.String("path", historyPath))
	return nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	calcs, err := store.List(commandContext(cmd), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(calcs) == 0 {
		fmt.Fprintln(out, noteStyle.Render("Todavía no hay sumas guardadas."))
		return nil
	}
	for _, c := range calcs {
		fmt.Fprintf(out, "%s  %s  %s\n",
			labelStyle.Render(c.ID),
			noteStyle.Render(c.CreatedAt.Local().Format("2006-01-02 15:04")),
			c.Equation(),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	calc, err := store.Get(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	aligned := calc.Aligned()
	steps := addition.ComputeSteps(aligned)
	printProcedure(cmd.OutOrStdout(), calc.CalculationResult(), steps, session.Frames(narrator(), aligned, steps, true))
	return nil
}
