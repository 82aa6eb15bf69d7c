// Package partledger is the composition root for the printer part ledger.
//
// It wires the append-only core.Ledger to a storage adapter (CSV/JSON/YAML
// file, SQLite or memory) using functional options, and re-exports the
// analytics needed by presentation layers.
//
// Usage:
//
//	l, err := partledger.New(ctx, "compras_pecas.csv",
//		partledger.WithPrinters("c4065", "c2060"),
//		partledger.WithLogger(logger),
//	)
//
//	err = l.Append(ctx, core.PurchaseRecord{...})
//	summaries := partledger.Summarize(l)
package partledger
