package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/partledger/pkg/adapters/memory"
	"github.com/aretw0/partledger/pkg/core"
)

func TestStore_FailSaves(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l, err := core.Open(ctx, store)
	require.NoError(t, err)

	rec := core.PurchaseRecord{PrinterID: "c4065", PartName: "fuser", Cost: decimal.NewFromInt(150), PurchaseDate: core.NewDate(2024, 1, 10)}
	require.NoError(t, l.Append(ctx, rec))

	store.FailSaves(errors.New("unavailable"))
	err = l.Append(ctx, rec)
	assert.True(t, core.IsPersistence(err))
	assert.Equal(t, 1, l.Len())
	assert.Len(t, store.Snapshot(), 1)

	store.FailSaves(nil)
	require.NoError(t, l.Append(ctx, rec))
	assert.Len(t, store.Snapshot(), 2)
	assert.Equal(t, "memory-store", l.State().(core.LedgerState).StoreType)
}
