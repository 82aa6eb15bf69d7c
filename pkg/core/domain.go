// Package core holds the purchase ledger domain: the record shape, the
// append-only Ledger and the Store port it persists through.
package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for persistence and input.
const DateLayout = "2006-01-02"

// PurchaseRecord is one purchase of a consumable part for a printer.
// Records are immutable once appended to a Ledger.
type PurchaseRecord struct {
	PrinterID string
	PartName  string
	Cost      decimal.Decimal
	// PurchaseDate is a calendar date (UTC midnight).
	PurchaseDate time.Time
	// ReplacementDate is nil while the part is still in service.
	ReplacementDate *time.Time
	Clicks          int64
}

// InService reports whether the part has not been replaced yet.
func (r PurchaseRecord) InService() bool {
	return r.ReplacementDate == nil
}

// NewDate returns the calendar date y-m-d at UTC midnight.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the time of day, keeping the calendar date as seen in t's location.
func TruncateDate(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DatePtr is a convenience for optional dates.
func DatePtr(t time.Time) *time.Time {
	return &t
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit message) to versioned stores.
const ChangeReasonKey contextKey = "change_reason"
