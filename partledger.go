package partledger

import (
	"context"
	"log/slog"

	"github.com/aretw0/partledger/internal/platform"
	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
)

// Version is the release of the library and CLI.
const Version = "0.3.0"

// --- Configuration ---

// Option defines a functional option for opening a ledger.
type Option = platform.Option

// WithAdapter selects the storage adapter by name: "fs" (default), "sqlite" or "memory".
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger for the ledger and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPrinters restricts appended records to the given printer identifiers.
func WithPrinters(ids ...string) Option {
	return platform.WithPrinters(ids...)
}

// WithStore injects a custom core.Store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithVersioning commits every save of a file ledger to Git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit creates missing directories and Git repositories.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithReadOnly opens the ledger without write access.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// --- Factory ---

// New opens a ledger at uri (a file path for "fs", a DSN for "sqlite").
func New(ctx context.Context, uri string, opts ...Option) (*core.Ledger, error) {
	return platform.New(ctx, uri, opts...)
}

// --- Views ---

// Summarize returns the per-part summary of the ledger's current records.
func Summarize(l *core.Ledger) []analytics.PartSummary {
	return analytics.Summarize(l.AllRecords())
}

// History returns a part's purchases, most recent first, with cost-per-click.
func History(l *core.Ledger, part string) []analytics.RecordMetric {
	return analytics.History(l.RecordsForPart(part), part)
}
