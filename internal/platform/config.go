package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilename marks a ledger workspace and holds its settings.
const ConfigFilename = "partledger.yaml"

// DefaultPrinters is the fleet the ledger was first kept for.
var DefaultPrinters = []string{"c4065", "c2060"}

// Config is the on-disk workspace configuration.
type Config struct {
	// Ledger is the store URI; relative file paths resolve against the config directory.
	Ledger    string   `yaml:"ledger"`
	Adapter   string   `yaml:"adapter"`
	Printers  []string `yaml:"printers"`
	Versioned bool     `yaml:"versioned"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Ledger:   "compras_pecas.csv",
		Adapter:  AdapterFS,
		Printers: append([]string(nil), DefaultPrinters...),
	}
}

// LoadConfig reads path, filling unset fields from DefaultConfig.
// A missing file yields the defaults and no error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if file.Ledger != "" {
		cfg.Ledger = file.Ledger
	}
	if file.Adapter != "" {
		cfg.Adapter = file.Adapter
	}
	if file.Printers != nil {
		cfg.Printers = file.Printers
	}
	cfg.Versioned = file.Versioned

	if cfg.Adapter != AdapterMemory && !filepath.IsAbs(cfg.Ledger) {
		cfg.Ledger = filepath.Join(filepath.Dir(path), cfg.Ledger)
	}
	return cfg, nil
}

// WriteConfig writes cfg to path, refusing to overwrite an existing file.
func WriteConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Options converts the configuration into ledger options.
func (c Config) Options() []Option {
	return []Option{
		WithAdapter(c.Adapter),
		WithPrinters(c.Printers...),
		WithVersioning(c.Versioned),
	}
}
