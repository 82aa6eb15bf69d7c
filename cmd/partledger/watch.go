package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/internal/platform"
	"github.com/aretw0/partledger/pkg/adapters/fs"
	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the part summary again whenever the ledger file changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := platform.Init(ctx, cfg.Ledger, append(cfg.Options(), platform.WithReadOnly(true))...)
		if err != nil {
			return err
		}
		fileStore, ok := store.(*fs.Store)
		if !ok {
			return fmt.Errorf("watch requires the %q adapter", platform.AdapterFS)
		}

		out := cmd.OutOrStdout()
		render := func() {
			l, err := core.Open(ctx, fileStore, core.WithReadOnly(true))
			if err != nil {
				slog.Error("failed to reload ledger", "error", err)
				return
			}
			fmt.Fprintf(out, "\n%s  %s\n", time.Now().Format(time.TimeOnly), fileStore.Path())
			if err := renderSummaries(out, analytics.Summarize(l.AllRecords())); err != nil {
				slog.Error("failed to render summary", "error", err)
			}
		}

		render()
		if err := fileStore.Watch(ctx, render); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
