package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/pkg/adapters/fs"
	"github.com/aretw0/partledger/pkg/adapters/memory"
	"github.com/aretw0/partledger/pkg/core"
)

var (
	importRoot   string
	importDryRun bool
)

// importCmd appends the records of other ledger files (e.g. spreadsheet exports
// from another site). Every record goes through the same validation as add.
var importCmd = &cobra.Command{
	Use:   "import <pattern>",
	Short: "Append records from files matching a glob pattern (e.g. 'exports/**/*.csv')",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, _, err := openLedger(cmd, false)
		if err != nil {
			return err
		}

		root := importRoot
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return err
			}
		}
		batches, err := fs.ImportGlob(root, args[0], nil)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			return fmt.Errorf("no ledger files match %q", args[0])
		}

		target := l
		if importDryRun {
			if target, err = core.Open(cmd.Context(), memory.New(l.AllRecords()...), core.WithPrinters(l.Printers()...)); err != nil {
				return err
			}
		}

		total, err := appendBatches(cmd.Context(), target, batches)
		if err != nil {
			return err
		}

		verb := "Imported"
		if importDryRun {
			verb = "Would import"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d records from %d files.\n", verb, total, len(batches))
		return nil
	},
}

// appendBatches stops at the first rejected record; records before it stay appended.
func appendBatches(ctx context.Context, l *core.Ledger, batches []fs.Batch) (int, error) {
	total := 0
	for _, b := range batches {
		bctx := context.WithValue(ctx, core.ChangeReasonKey, formatReason("import "+b.File))
		for i, rec := range b.Records {
			if err := l.Append(bctx, rec); err != nil {
				return total, fmt.Errorf("%s record %d: %w", b.File, i+1, err)
			}
			total++
		}
		slog.Debug("batch imported", "file", b.File, "records", len(b.Records))
	}
	return total, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importRoot, "root", "", "Directory the pattern is relative to (default: working directory)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without writing")
}
