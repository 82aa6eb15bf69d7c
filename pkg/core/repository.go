package core

import "context"

// Store defines the contract for persisting a ledger.
// Adhering to this interface keeps the Ledger independent of the
// underlying storage mechanism (CSV file, SQLite, memory).
type Store interface {
	// Load returns every persisted record in insertion order.
	// A store that has never been written returns an empty slice and no error.
	Load(ctx context.Context) ([]PurchaseRecord, error)

	// Save replaces the persisted ledger with records (full snapshot).
	Save(ctx context.Context, records []PurchaseRecord) error
}
