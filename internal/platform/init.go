package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/partledger/pkg/adapters/fs"
	"github.com/aretw0/partledger/pkg/adapters/memory"
	"github.com/aretw0/partledger/pkg/adapters/sqlite"
	"github.com/aretw0/partledger/pkg/core"
)

// Init resolves the store for uri based on the options.
// The uri is adapter-specific: a file path for "fs", a DSN for "sqlite",
// ignored for "memory".
func Init(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.resolveStore(ctx, uri)
}

func (o *options) resolveStore(ctx context.Context, uri string) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterFS:
		return o.initFS(ctx, uri)
	case AdapterSQLite:
		if uri == "" {
			uri = "partledger.db"
		}
		if readOnly, _ := o.config["read_only"].(bool); readOnly {
			return sqlite.OpenReadOnly(uri, o.logger)
		}
		return sqlite.Open(uri, o.logger)
	case AdapterMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS handles the initialization logic for the file adapter.
func (o *options) initFS(ctx context.Context, path string) (core.Store, error) {
	versioned, _ := o.config["versioned"].(bool)
	autoInit, _ := o.config["auto_init"].(bool)
	readOnly, _ := o.config["read_only"].(bool)

	store, err := fs.NewStore(fs.Config{
		Path:      path,
		Versioned: versioned && !readOnly,
		AutoInit:  autoInit,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}

	if readOnly {
		return store, nil
	}
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
