package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history <part>",
	Short: "Show the purchases of one part, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}
		if !l.HasPart(args[0]) {
			return fmt.Errorf("%w: %q", core.ErrUnknownPart, args[0])
		}

		metrics := historyOf(l, args[0])
		if historyJSON {
			return encodeJSON(cmd.OutOrStdout(), metricsJSON(metrics))
		}
		return renderMetrics(cmd.OutOrStdout(), metrics)
	},
}

func historyOf(l *core.Ledger, part string) []analytics.RecordMetric {
	return analytics.History(l.RecordsForPart(part), part)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
}

