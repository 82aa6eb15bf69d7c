// Package analytics derives cost-per-click metrics from ledger snapshots.
//
// Every function is pure: the same input always yields the same output and
// nothing is retained between calls.
package analytics

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/aretw0/partledger/pkg/core"
)

// RecordMetric pairs a record with its cost-per-click.
type RecordMetric struct {
	Record       core.PurchaseRecord
	CostPerClick decimal.Decimal
}

// PartSummary aggregates the lifetime metrics of one part lineage.
type PartSummary struct {
	PartName      string
	TotalCost     decimal.Decimal
	TotalClicks   int64
	PurchaseCount int
	CostPerClick  decimal.Decimal
}

// PrinterSummary aggregates spend and clicks for one printer.
type PrinterSummary struct {
	PrinterID     string
	TotalCost     decimal.Decimal
	TotalClicks   int64
	PurchaseCount int
	CostPerClick  decimal.Decimal
}

// costPerClick divides cost by clicks, defining the ratio as zero when
// clicks is zero so no non-finite value reaches aggregation or display.
func costPerClick(cost decimal.Decimal, clicks int64) decimal.Decimal {
	if clicks <= 0 {
		return decimal.Zero
	}
	return cost.Div(decimal.NewFromInt(clicks))
}

// Metric computes the cost-per-click of a single record.
func Metric(r core.PurchaseRecord) RecordMetric {
	return RecordMetric{Record: r, CostPerClick: costPerClick(r.Cost, r.Clicks)}
}

// Metrics computes Metric for every record, preserving order.
func Metrics(records []core.PurchaseRecord) []RecordMetric {
	out := make([]RecordMetric, len(records))
	for i, r := range records {
		out[i] = Metric(r)
	}
	return out
}

// Summarize groups records by exact part name, in first-seen order.
// The ratio is total cost over total clicks, never an average of row ratios.
// Records without a part name are left out, as in DistinctPartNames.
func Summarize(records []core.PurchaseRecord) []PartSummary {
	index := make(map[string]int)
	var out []PartSummary

	for _, r := range records {
		if r.PartName == "" {
			continue
		}
		i, ok := index[r.PartName]
		if !ok {
			i = len(out)
			index[r.PartName] = i
			out = append(out, PartSummary{PartName: r.PartName, TotalCost: decimal.Zero})
		}
		s := &out[i]
		s.TotalCost = s.TotalCost.Add(r.Cost)
		s.TotalClicks += r.Clicks
		s.PurchaseCount++
	}

	for i := range out {
		out[i].CostPerClick = costPerClick(out[i].TotalCost, out[i].TotalClicks)
	}
	return out
}

// ByPrinter groups records by printer, in first-seen order.
// Records without a printer are left out.
func ByPrinter(records []core.PurchaseRecord) []PrinterSummary {
	index := make(map[string]int)
	var out []PrinterSummary

	for _, r := range records {
		if r.PrinterID == "" {
			continue
		}
		i, ok := index[r.PrinterID]
		if !ok {
			i = len(out)
			index[r.PrinterID] = i
			out = append(out, PrinterSummary{PrinterID: r.PrinterID, TotalCost: decimal.Zero})
		}
		s := &out[i]
		s.TotalCost = s.TotalCost.Add(r.Cost)
		s.TotalClicks += r.Clicks
		s.PurchaseCount++
	}

	for i := range out {
		out[i].CostPerClick = costPerClick(out[i].TotalCost, out[i].TotalClicks)
	}
	return out
}

// Totals returns the grand total cost and clicks across summaries.
func Totals(summaries []PartSummary) (decimal.Decimal, int64) {
	cost := decimal.Zero
	var clicks int64
	for _, s := range summaries {
		cost = cost.Add(s.TotalCost)
		clicks += s.TotalClicks
	}
	return cost, clicks
}

// History returns the metrics of one part, most recent purchase first.
// Records bought on the same day keep their insertion order.
func History(records []core.PurchaseRecord, part string) []RecordMetric {
	var out []RecordMetric
	for _, r := range records {
		if r.PartName == part {
			out = append(out, Metric(r))
		}
	}
	slices.SortStableFunc(out, func(a, b RecordMetric) int {
		return cmp.Compare(b.Record.PurchaseDate.Unix(), a.Record.PurchaseDate.Unix())
	})
	return out
}
