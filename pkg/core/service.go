package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Ledger is the append-only, ordered collection of purchase records.
// Every successful Append is written through to the Store before it becomes visible.
type Ledger struct {
	mu       sync.RWMutex
	store    Store
	records  []PurchaseRecord
	printers []string
	readOnly bool
	logger   *slog.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithPrinters restricts printer_id to the given catalog.
// An empty catalog accepts any non-empty printer identifier.
func WithPrinters(ids ...string) LedgerOption {
	return func(l *Ledger) {
		l.printers = slices.Clone(ids)
	}
}

// WithReadOnly makes Append fail with ErrReadOnly.
func WithReadOnly(enabled bool) LedgerOption {
	return func(l *Ledger) {
		l.readOnly = enabled
	}
}

// WithLogger sets the logger for the ledger.
func WithLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// Open creates a Ledger hydrated from store.
func Open(ctx context.Context, store Store, opts ...LedgerOption) (*Ledger, error) {
	l := &Ledger{store: store}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}

	records, err := store.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	l.records = records
	l.logger.Debug("ledger loaded", "records", len(records))
	return l, nil
}

// Append validates rec, adds it as the last record and persists the full ledger.
// On any failure the ledger is left exactly as it was.
func (l *Ledger) Append(ctx context.Context, rec PurchaseRecord) error {
	if l.readOnly {
		return ErrReadOnly
	}

	rec, err := l.coerce(rec)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]PurchaseRecord, len(l.records), len(l.records)+1)
	copy(next, l.records)
	next = append(next, rec)

	if err := l.store.Save(ctx, next); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	l.records = next

	l.logger.Debug("record appended", "part", rec.PartName, "printer", rec.PrinterID, "size", len(next))
	return nil
}

// coerce normalizes free-form input and enforces the record invariants.
func (l *Ledger) coerce(rec PurchaseRecord) (PurchaseRecord, error) {
	rec.PrinterID = strings.TrimSpace(rec.PrinterID)
	rec.PartName = strings.TrimSpace(rec.PartName)

	if rec.PrinterID == "" {
		return rec, &ValidationError{Field: "printer_id", Reason: "must not be empty"}
	}
	if len(l.printers) > 0 && !slices.Contains(l.printers, rec.PrinterID) {
		return rec, &ValidationError{Field: "printer_id", Reason: "unknown printer " + rec.PrinterID}
	}
	if rec.PartName == "" {
		return rec, &ValidationError{Field: "part_name", Reason: "must not be empty"}
	}
	if rec.Cost.IsNegative() {
		return rec, &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	if rec.Clicks < 0 {
		return rec, &ValidationError{Field: "clicks", Reason: "must not be negative"}
	}
	if rec.PurchaseDate.IsZero() {
		return rec, &ValidationError{Field: "purchase_date", Reason: "is required"}
	}
	rec.PurchaseDate = TruncateDate(rec.PurchaseDate)

	if rec.ReplacementDate != nil {
		replaced := TruncateDate(*rec.ReplacementDate)
		if replaced.Before(rec.PurchaseDate) {
			return rec, &ValidationError{Field: "replacement_date", Reason: "is before purchase_date"}
		}
		rec.ReplacementDate = &replaced
	}
	return rec, nil
}

// AllRecords returns every record in insertion order.
// Insertion order is not necessarily chronological.
func (l *Ledger) AllRecords() []PurchaseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records)
}

// RecordsForPart returns the lineage of name (exact match) in insertion order.
func (l *Ledger) RecordsForPart(name string) []PurchaseRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []PurchaseRecord
	for _, r := range l.records {
		if r.PartName == name {
			out = append(out, r)
		}
	}
	return out
}

// DistinctPartNames returns every part name that has appeared, sorted.
func (l *Ledger) DistinctPartNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, r := range l.records {
		if r.PartName == "" {
			continue
		}
		if _, ok := seen[r.PartName]; ok {
			continue
		}
		seen[r.PartName] = struct{}{}
		names = append(names, r.PartName)
	}
	slices.Sort(names)
	return names
}

// HasPart reports whether name has at least one purchase.
func (l *Ledger) HasPart(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.ContainsFunc(l.records, func(r PurchaseRecord) bool { return r.PartName == name })
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Printers returns the configured printer catalog (may be empty).
func (l *Ledger) Printers() []string {
	return slices.Clone(l.printers)
}

// AppendReplacement appends a new purchase for a part that already has history.
// It is the "update a part" flow: prior records are never touched.
func (l *Ledger) AppendReplacement(ctx context.Context, rec PurchaseRecord) error {
	name := strings.TrimSpace(rec.PartName)
	if !l.HasPart(name) {
		return fmt.Errorf("%w: %q", ErrUnknownPart, name)
	}
	return l.Append(ctx, rec)
}
