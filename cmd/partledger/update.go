package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var updateFlags recordFlags

// updateCmd appends a replacement purchase to an existing part lineage.
// Earlier records are never modified.
var updateCmd = &cobra.Command{
	Use:   "update <part>",
	Short: "Record a replacement for a part already in the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, false)
		if err != nil {
			return err
		}

		updateFlags.part = args[0]
		rec, err := updateFlags.record(time.Now())
		if err != nil {
			return err
		}

		ctx := updateFlags.changeContext(cmd.Context(), fmt.Sprintf("replace %s on %s", rec.PartName, rec.PrinterID))
		if err := l.AppendReplacement(ctx, rec); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Replacement of '%s' recorded.\n\n", rec.PartName)
		return renderMetrics(out, historyOf(l, rec.PartName))
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateFlags.register(updateCmd, false)
}
