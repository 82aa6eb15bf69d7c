package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
	"github.com/aretw0/partledger/pkg/export"
)

// cpcPlaces is the precision shown for cost-per-click values.
const cpcPlaces = 6

func newTable(w io.Writer, columns []string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	return tw
}

func renderMetrics(w io.Writer, metrics []analytics.RecordMetric) error {
	tw := newTable(w, export.RecordColumns)
	for _, m := range metrics {
		r := m.Record
		replaced := "-"
		if r.ReplacementDate != nil {
			replaced = core.FormatDate(*r.ReplacementDate)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.PrinterID, r.PartName, r.Cost.StringFixed(2), core.FormatDate(r.PurchaseDate),
			replaced, r.Clicks, m.CostPerClick.StringFixed(cpcPlaces))
	}
	return tw.Flush()
}

func renderSummaries(w io.Writer, summaries []analytics.PartSummary) error {
	tw := newTable(w, export.SummaryColumns)
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.PartName, s.TotalCost.StringFixed(2), s.TotalClicks, s.PurchaseCount, s.CostPerClick.StringFixed(cpcPlaces))
	}
	cost, clicks := analytics.Totals(summaries)
	fmt.Fprintf(tw, "Total\t%s\t%d\t\t\n", cost.StringFixed(2), clicks)
	return tw.Flush()
}

func renderPrinters(w io.Writer, summaries []analytics.PrinterSummary) error {
	tw := newTable(w, []string{"Impressora", "Gasto Total", "Clicks Totais", "Compras", "Gasto por Click"})
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.PrinterID, s.TotalCost.StringFixed(2), s.TotalClicks, s.PurchaseCount, s.CostPerClick.StringFixed(cpcPlaces))
	}
	return tw.Flush()
}

type metricJSON struct {
	PrinterID       string `json:"printer_id"`
	PartName        string `json:"part_name"`
	Cost            string `json:"cost"`
	PurchaseDate    string `json:"purchase_date"`
	ReplacementDate string `json:"replacement_date,omitempty"`
	Clicks          int64  `json:"clicks"`
	CostPerClick    string `json:"cost_per_click"`
}

func metricsJSON(metrics []analytics.RecordMetric) []metricJSON {
	out := make([]metricJSON, len(metrics))
	for i, m := range metrics {
		out[i] = metricJSON{
			PrinterID:    m.Record.PrinterID,
			PartName:     m.Record.PartName,
			Cost:         m.Record.Cost.String(),
			PurchaseDate: core.FormatDate(m.Record.PurchaseDate),
			Clicks:       m.Record.Clicks,
			CostPerClick: m.CostPerClick.String(),
		}
		if m.Record.ReplacementDate != nil {
			out[i].ReplacementDate = core.FormatDate(*m.Record.ReplacementDate)
		}
	}
	return out
}

type summaryJSON struct {
	PartName      string `json:"part_name"`
	TotalCost     string `json:"total_cost"`
	TotalClicks   int64  `json:"total_clicks"`
	PurchaseCount int    `json:"purchase_count"`
	CostPerClick  string `json:"cost_per_click"`
}

func summariesJSON(summaries []analytics.PartSummary) []summaryJSON {
	out := make([]summaryJSON, len(summaries))
	for i, s := range summaries {
		out[i] = summaryJSON{
			PartName:      s.PartName,
			TotalCost:     s.TotalCost.String(),
			TotalClicks:   s.TotalClicks,
			PurchaseCount: s.PurchaseCount,
			CostPerClick:  s.CostPerClick.String(),
		}
	}
	return out
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
