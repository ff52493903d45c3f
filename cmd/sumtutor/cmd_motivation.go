package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sumtutor/internal/addition"
)

var motivationCmd = &cobra.Command{
	Use:   "motivation",
	Short: "Print an encouragement phrase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkAudience(); err != nil {
			return err
		}
		phrase, err := addition.Motivation(addition.Audience(audience), narrator().Pick, time.Now().YearDay())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), phrase)
		return nil
	},
}
