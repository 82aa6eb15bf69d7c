package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export purchases and the per-part summary to an Excel workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, true)
		if err != nil {
			return err
		}

		records := l.AllRecords()
		if err := export.SaveWorkbook(exportOutput, records, analytics.Summarize(records)); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", export.DefaultFilename, "Workbook path")
}
