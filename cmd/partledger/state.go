package main

import (
	"github.com/spf13/cobra"
)

// stateCmd dumps the introspection state of the ledger (record counts, store details).
var stateCmd = &cobra.Command{
	Use:    "state",
	Short:  "Print the internal state of the ledger as JSON",
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}
		return encodeJSON(cmd.OutOrStdout(), l.State())
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
