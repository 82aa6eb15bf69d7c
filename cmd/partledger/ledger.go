package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/internal/platform"
	"github.com/aretw0/partledger/pkg/core"
	"github.com/aretw0/partledger/pkg/git"
)

// resolveConfig merges the config file (explicit or discovered) with the global flags.
func resolveConfig(cmd *cobra.Command) (platform.Config, error) {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return platform.Config{}, err
		}
		if root, err := platform.FindRoot(cwd); err == nil {
			path = filepath.Join(root, platform.ConfigFilename)
		} else {
			path = filepath.Join(cwd, platform.ConfigFilename)
		}
	}

	cfg, err := platform.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("ledger") {
		cfg.Ledger = ledgerPath
	}
	if flags.Changed("adapter") {
		cfg.Adapter = adapterName
	}
	if flags.Changed("git") {
		cfg.Versioned = versioned
	}
	return cfg, nil
}

// openLedger opens the configured ledger. Read-only commands never create files.
func openLedger(cmd *cobra.Command, readOnly bool) (*core.Ledger, platform.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}

	opts := append(cfg.Options(),
		platform.WithLogger(slog.Default()),
		platform.WithReadOnly(readOnly),
		platform.WithAutoInit(true),
	)
	l, err := platform.New(cmd.Context(), cfg.Ledger, opts...)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open ledger %s: %w", cfg.Ledger, err)
	}
	return l, cfg, nil
}

// recordFlags collects the fields of a new purchase from the command line.
type recordFlags struct {
	printer  string
	part     string
	cost     string
	date     string
	replaced string
	clicks   int64
	message  string
}

func (f *recordFlags) register(cmd *cobra.Command, withPart bool) {
	cmd.Flags().StringVarP(&f.printer, "printer", "p", "", "Printer identifier")
	if withPart {
		cmd.Flags().StringVar(&f.part, "part", "", "Part name")
	}
	cmd.Flags().StringVar(&f.cost, "cost", "0", "Part cost")
	cmd.Flags().StringVar(&f.date, "date", "", "Purchase date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.replaced, "replaced", "", "Replacement date YYYY-MM-DD (omit while in service)")
	cmd.Flags().Int64Var(&f.clicks, "clicks", 0, "Clicks printed with this part")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "Change reason recorded in git")
	_ = cmd.MarkFlagRequired("printer")
}

// record coerces the raw flag values into a PurchaseRecord.
func (f *recordFlags) record(now time.Time) (core.PurchaseRecord, error) {
	cost, err := decimal.NewFromString(strings.TrimSpace(f.cost))
	if err != nil {
		return core.PurchaseRecord{}, &core.ValidationError{Field: "cost", Reason: fmt.Sprintf("%q is not a number", f.cost)}
	}

	purchased := core.TruncateDate(now)
	if f.date != "" {
		if purchased, err = core.ParseDate(f.date); err != nil {
			return core.PurchaseRecord{}, &core.ValidationError{Field: "purchase_date", Reason: err.Error()}
		}
	}

	rec := core.PurchaseRecord{
		PrinterID:    f.printer,
		PartName:     f.part,
		Cost:         cost,
		PurchaseDate: purchased,
		Clicks:       f.clicks,
	}
	if f.replaced != "" {
		replaced, err := core.ParseDate(f.replaced)
		if err != nil {
			return core.PurchaseRecord{}, &core.ValidationError{Field: "replacement_date", Reason: err.Error()}
		}
		rec.ReplacementDate = &replaced
	}
	return rec, nil
}

// changeContext attaches the git change reason for versioned ledgers.
func (f *recordFlags) changeContext(ctx context.Context, subject string) context.Context {
	msg := f.message
	if msg == "" {
		msg = subject
	}
	return context.WithValue(ctx, core.ChangeReasonKey, formatReason(msg))
}

func formatReason(subject string) string {
	return git.FormatCommitMessage(git.CommitTypeFeat, "ledger", subject, "")
}
