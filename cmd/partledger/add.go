package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var addFlags recordFlags

// addCmd records a purchase of any part, new or existing.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new part purchase",
	Example: `  partledger add --printer c4065 --part fuser --cost 150.00 --date 2024-01-10 --clicks 20000
  partledger add -p c2060 --part toner --cost 80 --replaced 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, false)
		if err != nil {
			return err
		}

		rec, err := addFlags.record(time.Now())
		if err != nil {
			return err
		}

		ctx := addFlags.changeContext(cmd.Context(), fmt.Sprintf("buy %s for %s", rec.PartName, rec.PrinterID))
		if err := l.Append(ctx, rec); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Purchase of '%s' recorded (%d records).\n", rec.PartName, l.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addFlags.register(addCmd, true)
	_ = addCmd.MarkFlagRequired("part")
}
