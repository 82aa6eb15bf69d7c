package platform

import (
	"context"

	"github.com/aretw0/partledger/pkg/core"
)

// New opens a Ledger on the store selected by opts.
//
//	l, err := platform.New(ctx, "./compras_pecas.csv", platform.WithPrinters("c4065", "c2060"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Ledger, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := o.resolveStore(ctx, uri)
	if err != nil {
		return nil, err
	}

	readOnly, _ := o.config["read_only"].(bool)
	ledgerOpts := []core.LedgerOption{
		core.WithPrinters(o.printers...),
		core.WithReadOnly(readOnly),
	}
	if o.logger != nil {
		ledgerOpts = append(ledgerOpts, core.WithLogger(o.logger))
	}

	return core.Open(ctx, store, ledgerOpts...)
}
