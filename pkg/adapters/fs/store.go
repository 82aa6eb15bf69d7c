// Package fs implements core.Store on top of a single ledger file.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/partledger/pkg/core"
	"github.com/aretw0/partledger/pkg/git"
)

// DefaultFilename is the ledger file created when no path is configured.
const DefaultFilename = "compras_pecas.csv"

// Store implements core.Store using one file on disk, optionally versioned with Git.
type Store struct {
	path       string
	ext        string
	serializer Serializer
	git        *git.Client
	config     Config

	mu            sync.RWMutex
	saves         int
	lastSave      *time.Time
	watcherActive bool
}

// Config holds the configuration for the file store.
type Config struct {
	Path string
	// Versioned commits every save to the Git repository containing Path.
	Versioned bool
	// AutoInit runs "git init" in the ledger directory when it is not a repository yet.
	AutoInit bool
	Logger   *slog.Logger
	// Serializers overrides DefaultSerializers (keyed by extension, e.g. ".csv").
	Serializers map[string]Serializer
}

// NewStore creates a file store. The serializer is chosen by the file extension.
func NewStore(config Config) (*Store, error) {
	if config.Path == "" {
		config.Path = DefaultFilename
	}
	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers()
	}

	ext := strings.ToLower(filepath.Ext(config.Path))
	serializer, ok := serializers[ext]
	if !ok {
		return nil, fmt.Errorf("no serializer registered for %q", ext)
	}

	s := &Store{
		path:       config.Path,
		ext:        ext,
		serializer: serializer,
		config:     config,
	}
	if config.Versioned {
		s.git = git.NewClient(filepath.Dir(config.Path), config.Logger)
	}
	return s, nil
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) logger() *slog.Logger {
	if s.config.Logger != nil {
		return s.config.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Initialize creates the ledger directory and, when versioned, the Git repository.
func (s *Store) Initialize(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	if !s.config.Versioned {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if s.git.IsRepo() {
		return nil
	}
	if !s.config.AutoInit {
		return fmt.Errorf("path is not a git repository: %s", dir)
	}
	if err := s.git.Init(); err != nil {
		return fmt.Errorf("failed to git init: %w", err)
	}
	return nil
}

// Load reads the ledger file. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.PurchaseRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	records, err := s.serializer.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	s.logger().Debug("ledger file loaded", "path", s.path, "records", len(records))
	return records, nil
}

// Save overwrites the ledger file with records and, when versioned, commits it.
//
// Workflow:
//  1. Serialize the full record set.
//  2. (If versioned) Keep the current file contents.
//  3. Write atomically (temp file + rename) so readers never see a partial file.
//  4. (If versioned) 'git add' and 'git commit' with the change reason from ctx.
//     A failed commit restores the kept contents and unstages the file.
func (s *Store) Save(ctx context.Context, records []core.PurchaseRecord) error {
	var buf bytes.Buffer
	if err := s.serializer.Encode(&buf, records); err != nil {
		return fmt.Errorf("failed to serialize ledger: %w", err)
	}

	var prev snapshot
	if s.config.Versioned {
		var err error
		if prev, err = s.snapshot(); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return err
	}

	if s.config.Versioned {
		if err := s.commit(ctx); err != nil {
			if rbErr := s.rollback(prev); rbErr != nil {
				return errors.Join(err, rbErr)
			}
			return err
		}
	}

	s.mu.Lock()
	now := time.Now()
	s.saves++
	s.lastSave = &now
	s.mu.Unlock()

	s.logger().Debug("ledger file saved", "path", s.path, "records", len(records))
	return nil
}

// snapshot is the ledger file as it was before a save.
type snapshot struct {
	data   []byte
	exists bool
}

func (s *Store) snapshot() (snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return snapshot{data: data, exists: true}, nil
}

// rollback puts prev back on disk and drops the file from the index.
func (s *Store) rollback(prev snapshot) error {
	if prev.exists {
		if err := writeFileAtomic(s.path, prev.data, 0644); err != nil {
			return fmt.Errorf("failed to restore %s: %w", s.path, err)
		}
	} else if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.path, err)
	}

	if err := s.git.Reset(filepath.Base(s.path)); err != nil {
		s.logger().Warn("failed to unstage ledger after rollback", "path", s.path, "error", err)
	}
	s.logger().Debug("ledger file restored after failed commit", "path", s.path)
	return nil
}

func (s *Store) commit(ctx context.Context) error {
	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	name := filepath.Base(s.path)
	if err := s.git.Add(name); err != nil {
		return err
	}

	status, err := s.git.Status(name)
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}

	msg, ok := ctx.Value(core.ChangeReasonKey).(string)
	if !ok || msg == "" {
		msg = git.FormatCommitMessage(git.CommitTypeFeat, "ledger", "record purchase", "")
	}
	return s.git.Commit(msg, name)
}
