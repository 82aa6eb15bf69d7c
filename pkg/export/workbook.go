// Package export renders the ledger and its per-part summary as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
)

// DefaultFilename is the workbook name used when none is given.
const DefaultFilename = "compras_pecas.xlsx"

// Sheet names and column labels are consumed by existing spreadsheets; keep them stable.
const (
	SheetRecords = "Compras de Peças"
	SheetSummary = "Resumo por Peça"
)

var (
	RecordColumns  = []string{"Impressora", "Peça", "Valor", "Data de Compra", "Data de Troca", "Clicks", "Valor por Click"}
	SummaryColumns = []string{"Peça", "Gasto Total", "Clicks Totais", "Compras", "Gasto por Click"}
)

// WriteWorkbook writes a two-sheet workbook: every record with its
// cost-per-click, then one summary row per part.
func WriteWorkbook(w io.Writer, records []core.PurchaseRecord, summaries []analytics.PartSummary) error {
	f, err := build(records, summaries)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, records []core.PurchaseRecord, summaries []analytics.PartSummary) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWorkbook(out, records, summaries); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func build(records []core.PurchaseRecord, summaries []analytics.PartSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRecords); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	recordRows := make([][]any, 0, len(records))
	for _, m := range analytics.Metrics(records) {
		r := m.Record
		replaced := ""
		if r.ReplacementDate != nil {
			replaced = core.FormatDate(*r.ReplacementDate)
		}
		recordRows = append(recordRows, []any{
			r.PrinterID,
			r.PartName,
			r.Cost.InexactFloat64(),
			core.FormatDate(r.PurchaseDate),
			replaced,
			r.Clicks,
			m.CostPerClick.InexactFloat64(),
		})
	}

	summaryRows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		summaryRows = append(summaryRows, []any{
			s.PartName,
			s.TotalCost.InexactFloat64(),
			s.TotalClicks,
			s.PurchaseCount,
			s.CostPerClick.InexactFloat64(),
		})
	}

	if err := writeSheet(f, SheetRecords, RecordColumns, recordRows, header); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSheet(f, SheetSummary, SummaryColumns, summaryRows, header); err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any, headerStyle int) error {
	head := make([]any, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
