package core

import (
	"github.com/aretw0/introspection"
)

// LedgerState exposes internal state for observability.
type LedgerState struct {
	Records   int      `json:"records"`
	Parts     int      `json:"parts"`
	Printers  []string `json:"printers,omitempty"`
	ReadOnly  bool     `json:"read_only"`
	StoreType string   `json:"store_type"`
}

// State implements introspection.Introspectable.
func (l *Ledger) State() any {
	parts := len(l.DistinctPartNames())

	l.mu.RLock()
	defer l.mu.RUnlock()

	storeType := "unknown"
	if l.store != nil {
		storeType = "store"
		if comp, ok := l.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return LedgerState{
		Records:   len(l.records),
		Parts:     parts,
		Printers:  l.printers,
		ReadOnly:  l.readOnly,
		StoreType: storeType,
	}
}

// ComponentType implements introspection.Component.
func (l *Ledger) ComponentType() string {
	return "ledger"
}

var _ introspection.Introspectable = (*Ledger)(nil)
var _ introspection.Component = (*Ledger)(nil)
