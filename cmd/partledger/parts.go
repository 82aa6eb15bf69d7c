package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List the distinct part names in the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}
		names := l.DistinctPartNames()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No parts recorded yet.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)
}
