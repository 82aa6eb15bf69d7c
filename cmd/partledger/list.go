package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/pkg/analytics"
)

var (
	listJSON    bool
	listPrinter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every purchase with its cost per click",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}

		metrics := analytics.Metrics(l.AllRecords())
		if listPrinter != "" {
			filtered := metrics[:0]
			for _, m := range metrics {
				if m.Record.PrinterID == listPrinter {
					filtered = append(filtered, m)
				}
			}
			metrics = filtered
		}

		if listJSON {
			return encodeJSON(cmd.OutOrStdout(), metricsJSON(metrics))
		}
		return renderMetrics(cmd.OutOrStdout(), metrics)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listPrinter, "printer", "", "Only show purchases for this printer")
}
