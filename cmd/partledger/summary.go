package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/pkg/analytics"
)

var (
	summaryJSONOut   bool
	summaryByPrinter bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show spend, clicks and cost per click for each part",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}
		records := l.AllRecords()
		out := cmd.OutOrStdout()

		if summaryByPrinter {
			printers := analytics.ByPrinter(records)
			if summaryJSONOut {
				return encodeJSON(out, printers)
			}
			return renderPrinters(out, printers)
		}

		summaries := analytics.Summarize(records)
		if summaryJSONOut {
			return encodeJSON(out, summariesJSON(summaries))
		}
		return renderSummaries(out, summaries)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSONOut, "json", false, "Output in JSON format")
	summaryCmd.Flags().BoolVar(&summaryByPrinter, "by-printer", false, "Group by printer instead of part")
}
