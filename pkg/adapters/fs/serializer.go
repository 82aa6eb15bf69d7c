package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/partledger/pkg/core"
)

// Column headers of the ledger CSV. They match the spreadsheet the ledger
// was originally kept in, so existing files load unchanged.
const (
	ColPrinter     = "Impressora"
	ColPart        = "Peça"
	ColCost        = "Valor"
	ColPurchasedAt = "Data de Compra"
	ColReplacedAt  = "Data de Troca"
	ColClicks      = "Clicks"
)

// Columns is the header row written by the CSV serializer.
var Columns = []string{ColPrinter, ColPart, ColCost, ColPurchasedAt, ColReplacedAt, ColClicks}

// Serializer defines how to read and write a ledger in a specific file format.
type Serializer interface {
	// Decode reads every record from r, in file order.
	Decode(r io.Reader) ([]core.PurchaseRecord, error)
	// Encode writes the full record set to w.
	Encode(w io.Writer, records []core.PurchaseRecord) error
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".csv":  CSVSerializer{},
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// row is the persisted shape of a record. Dates are YYYY-MM-DD and an empty
// replacement date means the part is still in service.
type row struct {
	PrinterID       string `json:"printer_id" yaml:"printer_id"`
	PartName        string `json:"part_name" yaml:"part_name"`
	Cost            string `json:"cost" yaml:"cost"`
	PurchaseDate    string `json:"purchase_date" yaml:"purchase_date"`
	ReplacementDate string `json:"replacement_date,omitempty" yaml:"replacement_date,omitempty"`
	Clicks          int64  `json:"clicks" yaml:"clicks"`
}

func toRow(r core.PurchaseRecord) row {
	out := row{
		PrinterID:    r.PrinterID,
		PartName:     r.PartName,
		Cost:         r.Cost.String(),
		PurchaseDate: core.FormatDate(r.PurchaseDate),
		Clicks:       r.Clicks,
	}
	if r.ReplacementDate != nil {
		out.ReplacementDate = core.FormatDate(*r.ReplacementDate)
	}
	return out
}

func fromRow(in row) (core.PurchaseRecord, error) {
	cost, err := parseCost(in.Cost)
	if err != nil {
		return core.PurchaseRecord{}, err
	}
	purchased, err := core.ParseDate(strings.TrimSpace(in.PurchaseDate))
	if err != nil {
		return core.PurchaseRecord{}, fmt.Errorf("%s: %w", ColPurchasedAt, err)
	}
	return core.PurchaseRecord{
		PrinterID:       in.PrinterID,
		PartName:        in.PartName,
		Cost:            cost,
		PurchaseDate:    purchased,
		ReplacementDate: parseOptionalDate(in.ReplacementDate),
		Clicks:          in.Clicks,
	}, nil
}

func parseCost(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid amount %q", ColCost, s)
	}
	return d, nil
}

// parseOptionalDate coerces blank or malformed cells to "not replaced",
// mirroring how the spreadsheet treated them.
func parseOptionalDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := core.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// parseClicks accepts integers and integral floats ("20000.0"), which is how
// spreadsheet tools write count columns.
func parseClicks(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%s: invalid count %q", ColClicks, s)
	}
	return d.IntPart(), nil
}

// --- CSV Serializer ---

// CSVSerializer reads and writes the ledger as a CSV table with a header row.
// Columns are matched by header name; unknown columns are ignored.
type CSVSerializer struct{}

func (CSVSerializer) Decode(r io.Reader) ([]core.PurchaseRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []core.PurchaseRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColPrinter, ColPart, ColCost, ColPurchasedAt} {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", col)
		}
	}

	cell := func(fields []string, col string) string {
		i, ok := pos[col]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	records := make([]core.PurchaseRecord, 0)
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", line, err)
		}

		clicks, err := parseClicks(cell(fields, ColClicks))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rec, err := fromRow(row{
			PrinterID:       cell(fields, ColPrinter),
			PartName:        cell(fields, ColPart),
			Cost:            cell(fields, ColCost),
			PurchaseDate:    cell(fields, ColPurchasedAt),
			ReplacementDate: cell(fields, ColReplacedAt),
			Clicks:          clicks,
		})
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (CSVSerializer) Encode(w io.Writer, records []core.PurchaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		out := toRow(r)
		if err := cw.Write([]string{
			out.PrinterID,
			out.PartName,
			out.Cost,
			out.PurchaseDate,
			out.ReplacementDate,
			strconv.FormatInt(out.Clicks, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// --- JSON Serializer ---

// JSONSerializer stores the ledger as an indented JSON array.
type JSONSerializer struct{}

func (JSONSerializer) Decode(r io.Reader) ([]core.PurchaseRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.PurchaseRecord{}, nil
	}

	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fromRows(rows)
}

func (JSONSerializer) Encode(w io.Writer, records []core.PurchaseRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toRows(records))
}

// --- YAML Serializer ---

// YAMLSerializer stores the ledger as a YAML sequence.
type YAMLSerializer struct{}

func (YAMLSerializer) Decode(r io.Reader) ([]core.PurchaseRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows []row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromRows(rows)
}

func (YAMLSerializer) Encode(w io.Writer, records []core.PurchaseRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toRows(records)); err != nil {
		return err
	}
	return enc.Close()
}

// --- Helpers ---

func toRows(records []core.PurchaseRecord) []row {
	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}
	return rows
}

func fromRows(rows []row) ([]core.PurchaseRecord, error) {
	records := make([]core.PurchaseRecord, 0, len(rows))
	for i, in := range rows {
		rec, err := fromRow(in)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
