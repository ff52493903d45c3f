// Command sumtutor walks through multi-operand column additions in the
// terminal, one column at a time, explaining every carry in Spanish.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumtutor/internal/addition"
	"sumtutor/internal/observability"
)

var (
	verbose       bool
	historyPath   string
	audience      string
	randomPhrases bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sumtutor",
	Short: "Column addition tutor",
	Long: `sumtutor aligns decimal numbers on the comma, pads them with zeros and
adds them column by column, right to left, explaining each carry the way it
is done on the blackboard.

Operands accept either '.' or ',' as decimal separator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := observability.InitConsoleLogger(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = observability.Logger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		observability.SyncLogger()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	flags.StringVar(&historyPath, "history", os.Getenv("SUMTUTOR_HISTORY_PATH"), "SQLite file that keeps past calculations (empty disables history)")
	flags.StringVar(&audience, "audience", string(addition.AudienceKid), "Encouragement style: kid or adult")
	flags.BoolVar(&randomPhrases, "random", false, "Vary narration phrases randomly instead of rotating them")

	rootCmd.AddCommand(addCmd, explainCmd, historyCmd, motivationCmd)
}

func narrator() addition.Narrator {
	if randomPhrases {
		return addition.Narrator{Pick: addition.RandomPicker}
	}
	return addition.Narrator{Pick: addition.RotatingPicker}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
