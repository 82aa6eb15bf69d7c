package platform

import (
	"log/slog"

	"github.com/aretw0/partledger/pkg/core"
)

// options holds the internal configuration for opening a ledger.
type options struct {
	store    core.Store
	logger   *slog.Logger
	adapter  string
	printers []string
	config   map[string]any
}

// Option defines a functional option for configuring the ledger.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		config:  make(map[string]any),
	}
}

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger for the ledger and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPrinters sets the printer catalog appended records must belong to.
func WithPrinters(ids ...string) Option {
	return func(o *options) {
		o.printers = ids
	}
}

// WithStore injects a custom store (e.g. mock). The adapter setting is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithVersioning commits every save of a file ledger to Git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["versioned"] = enabled
	}
}

// WithAutoInit creates the ledger directory and runs "git init" when needed.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithReadOnly opens the ledger for reading only.
// Append returns core.ErrReadOnly and no directory or repository is created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}
