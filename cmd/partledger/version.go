package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of partledger",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "partledger version %s\n", partledger.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
