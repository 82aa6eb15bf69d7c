// Package sqlite implements core.Store on a SQLite database through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aretw0/partledger/pkg/core"
)

// purchaseRow is the table layout. Seq preserves ledger insertion order.
type purchaseRow struct {
	Seq             int64           `gorm:"primaryKey;autoIncrement:false"`
	PrinterID       string          `gorm:"not null"`
	PartName        string          `gorm:"not null;index"`
	Cost            decimal.Decimal `gorm:"type:text;not null"`
	PurchaseDate    datatypes.Date  `gorm:"not null"`
	ReplacementDate *datatypes.Date
	Clicks          int64 `gorm:"not null"`
}

func (purchaseRow) TableName() string {
	return "purchase_records"
}

// Store implements core.Store using a SQLite database.
type Store struct {
	db       *gorm.DB
	dsn      string
	logger   *slog.Logger
	readOnly bool

	mu    sync.RWMutex
	saves int
}

// Open connects to dsn (a file path or "file::memory:") and migrates the schema.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	s, err := connect(dsn, log)
	if err != nil {
		return nil, err
	}
	if err := s.db.AutoMigrate(&purchaseRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// OpenReadOnly opens dsn for loading only. A database file that does not
// exist is not created and loads as an empty ledger; the schema is never migrated.
// Save returns core.ErrReadOnly.
func OpenReadOnly(dsn string, log *slog.Logger) (*Store, error) {
	if path, ok := filePath(dsn); ok {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return &Store{dsn: dsn, logger: orDiscard(log), readOnly: true}, nil
		}
	}

	s, err := connect(dsn, log)
	if err != nil {
		return nil, err
	}
	s.readOnly = true
	return s, nil
}

func connect(dsn string, log *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", dsn, err)
	}
	return &Store{db: db, dsn: dsn, logger: orDiscard(log)}, nil
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}

// filePath extracts the database file from dsn. In-memory databases have none.
func filePath(dsn string) (string, bool) {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return "", false
	}
	return path, true
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns all rows ordered by insertion sequence.
func (s *Store) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	if s.db == nil || (s.readOnly && !s.db.Migrator().HasTable(&purchaseRow{})) {
		return []core.PurchaseRecord{}, nil
	}

	var rows []purchaseRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	records := make([]core.PurchaseRecord, len(rows))
	for i, r := range rows {
		records[i] = fromRow(r)
	}
	return records, nil
}

// Save replaces the table contents with records inside one transaction,
// so a failed write leaves the previous snapshot in place.
func (s *Store) Save(ctx context.Context, records []core.PurchaseRecord) error {
	if s.readOnly {
		return core.ErrReadOnly
	}

	rows := make([]purchaseRow, len(records))
	for i, r := range records {
		rows[i] = toRow(int64(i+1), r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&purchaseRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	s.logger.Debug("ledger table saved", "dsn", s.dsn, "records", len(rows))
	return nil
}

func toRow(seq int64, r core.PurchaseRecord) purchaseRow {
	row := purchaseRow{
		Seq:          seq,
		PrinterID:    r.PrinterID,
		PartName:     r.PartName,
		Cost:         r.Cost,
		PurchaseDate: datatypes.Date(r.PurchaseDate),
		Clicks:       r.Clicks,
	}
	if r.ReplacementDate != nil {
		d := datatypes.Date(*r.ReplacementDate)
		row.ReplacementDate = &d
	}
	return row
}

func fromRow(row purchaseRow) core.PurchaseRecord {
	r := core.PurchaseRecord{
		PrinterID:    row.PrinterID,
		PartName:     row.PartName,
		Cost:         row.Cost,
		PurchaseDate: core.TruncateDate(time.Time(row.PurchaseDate)),
		Clicks:       row.Clicks,
	}
	if row.ReplacementDate != nil {
		r.ReplacementDate = core.DatePtr(core.TruncateDate(time.Time(*row.ReplacementDate)))
	}
	return r
}
