package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFilename))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ResolvesRelativeLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFilename)
	content := "ledger: data/ledger.yaml\nprinters: [c4065]\nversioned: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "ledger.yaml"), cfg.Ledger)
	assert.Equal(t, AdapterFS, cfg.Adapter)
	assert.Equal(t, []string{"c4065"}, cfg.Printers)
	assert.True(t, cfg.Versioned)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFilename)
	cfg := DefaultConfig()
	cfg.Adapter = AdapterSQLite
	cfg.Ledger = "ledger.db"

	require.NoError(t, WriteConfig(path, cfg))
	assert.Error(t, WriteConfig(path, cfg), "existing config is never overwritten")

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, AdapterSQLite, got.Adapter)
	assert.Equal(t, filepath.Join(dir, "ledger.db"), got.Ledger)
	assert.Equal(t, DefaultPrinters, got.Printers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("printers: [unclosed\n"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
