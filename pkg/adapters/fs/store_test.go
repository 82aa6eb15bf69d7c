package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/partledger/pkg/adapters/fs"
	"github.com/aretw0/partledger/pkg/analytics"
	"github.com/aretw0/partledger/pkg/core"
	"github.com/aretw0/partledger/pkg/git"
)

func sampleRecords() []core.PurchaseRecord {
	return []core.PurchaseRecord{
		{
			PrinterID:       "c4065",
			PartName:        "fuser",
			Cost:            decimal.RequireFromString("150.00"),
			PurchaseDate:    core.NewDate(2024, 1, 10),
			ReplacementDate: core.DatePtr(core.NewDate(2024, 6, 1)),
			Clicks:          20000,
		},
		{
			PrinterID:    "c2060",
			PartName:     "Peça, com vírgula",
			Cost:         decimal.RequireFromString("160.5"),
			PurchaseDate: core.NewDate(2024, 6, 1),
			Clicks:       0,
		},
	}
}

func assertSameRecords(t *testing.T, want, got []core.PurchaseRecord) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].PrinterID, got[i].PrinterID)
		assert.Equal(t, want[i].PartName, got[i].PartName)
		assert.True(t, want[i].Cost.Equal(got[i].Cost), "cost %d: %s != %s", i, want[i].Cost, got[i].Cost)
		assert.Equal(t, want[i].PurchaseDate, got[i].PurchaseDate)
		assert.Equal(t, want[i].ReplacementDate, got[i].ReplacementDate)
		assert.Equal(t, want[i].Clicks, got[i].Clicks)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"ledger.csv", "ledger.json", "ledger.yaml", "ledger.yml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, err := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), name)})
			require.NoError(t, err)

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, loaded, "missing file is an empty ledger")

			require.NoError(t, store.Save(ctx, sampleRecords()))
			first, err := store.Load(ctx)
			require.NoError(t, err)
			assertSameRecords(t, sampleRecords(), first)

			require.NoError(t, store.Save(ctx, first))
			second, err := store.Load(ctx)
			require.NoError(t, err)
			assertSameRecords(t, first, second)
		})
	}
}

func TestStore_CSVLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "compras_pecas.csv")
	store, err := fs.NewStore(fs.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleRecords()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Impressora,Peça,Valor,Data de Compra,Data de Troca,Clicks\n"+
			"c4065,fuser,150,2024-01-10,2024-06-01,20000\n",
		string(data))
}

func TestStore_LoadsSpreadsheetExport(t *testing.T) {
	// Shape written by the spreadsheet tool: float columns, blank and
	// malformed replacement dates, extra derived column.
	content := "Impressora,Peça,Valor,Data de Compra,Data de Troca,Clicks,Valor por Click\n" +
		"c4065,fuser,150.0,2024-01-10,,20000.0,0.0075\n" +
		"c2060,toner,80.0,2024-02-01,NaT,,0\n"
	path := filepath.Join(t.TempDir(), "compras_pecas.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := fs.NewStore(fs.Config{Path: path})
	require.NoError(t, err)
	records, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Nil(t, records[0].ReplacementDate)
	assert.Equal(t, int64(20000), records[0].Clicks)
	assert.Nil(t, records[1].ReplacementDate)
	assert.Zero(t, records[1].Clicks)
	assert.True(t, records[1].Cost.Equal(decimal.NewFromInt(80)))
}

func TestStore_RejectsMalformedRows(t *testing.T) {
	cases := map[string]string{
		"fractional clicks": "c4065,fuser,150,2024-01-10,,10.5\n",
		"bad cost":          "c4065,fuser,abc,2024-01-10,,10\n",
		"bad purchase date": "c4065,fuser,150,10/01/2024,,10\n",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.csv")
			content := "Impressora,Peça,Valor,Data de Compra,Data de Troca,Clicks\n" + line
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			store, err := fs.NewStore(fs.Config{Path: path})
			require.NoError(t, err)
			_, err = store.Load(context.Background())
			assert.ErrorContains(t, err, "row 2")
		})
	}
}

func TestStore_UnknownExtension(t *testing.T) {
	_, err := fs.NewStore(fs.Config{Path: "ledger.xlsx"})
	assert.Error(t, err)
}

func TestStore_LedgerWriteThrough(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := fs.NewStore(fs.Config{Path: path})
	require.NoError(t, err)

	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		require.NoError(t, l.Append(ctx, r))
	}

	reopened, err := core.Open(ctx, store)
	require.NoError(t, err)
	assertSameRecords(t, l.AllRecords(), reopened.AllRecords())

	state := store.State().(fs.StoreState)
	assert.Equal(t, 2, state.Saves)
	assert.Equal(t, ".csv", state.Format)
	assert.Equal(t, "file-store", reopened.State().(core.LedgerState).StoreType)
}

func TestStore_SaveFailureLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")
	require.NoError(t, os.MkdirAll(dir, 0755))

	store, err := fs.NewStore(fs.Config{Path: filepath.Join(dir, "ledger.csv")})
	require.NoError(t, err)
	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, sampleRecords()[0]))

	require.NoError(t, os.RemoveAll(dir))
	err = l.Append(ctx, sampleRecords()[1])
	assert.True(t, core.IsPersistence(err), "got %v", err)
	assert.Equal(t, 1, l.Len())
}

func TestStore_Versioned(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	dir := t.TempDir()

	store, err := fs.NewStore(fs.Config{Path: filepath.Join(dir, "ledger.csv"), Versioned: true, AutoInit: true})
	require.NoError(t, err)
	require.NoError(t, store.Initialize(ctx))

	client := git.NewClient(dir, nil)
	_, err = client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)

	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, sampleRecords()[0]))

	reason := git.FormatCommitMessage(git.CommitTypeFeat, "ledger", "buy toner", "")
	require.NoError(t, l.Append(context.WithValue(ctx, core.ChangeReasonKey, reason), sampleRecords()[1]))

	subjects, err := client.Log(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"feat(ledger): buy toner", "feat(ledger): record purchase"}, subjects)
}

// versionedStore opens a git-backed store in a fresh repository with an identity configured.
func versionedStore(t *testing.T) (*fs.Store, *git.Client, string) {
	t.Helper()
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()

	store, err := fs.NewStore(fs.Config{Path: filepath.Join(dir, "ledger.csv"), Versioned: true, AutoInit: true})
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))

	client := git.NewClient(dir, nil)
	_, err = client.Run("config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = client.Run("config", "user.name", "Test")
	require.NoError(t, err)
	return store, client, dir
}

func rejectCommits(t *testing.T, dir string) {
	t.Helper()
	hooks := filepath.Join(dir, ".git", "hooks")
	require.NoError(t, os.MkdirAll(hooks, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(hooks, "pre-commit"), []byte("#!/bin/sh\nexit 1\n"), 0755))
}

func TestStore_Versioned_FailedCommitRestoresFile(t *testing.T) {
	ctx := context.Background()
	store, client, dir := versionedStore(t)

	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, sampleRecords()[0]))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	rejectCommits(t, dir)
	err = l.Append(ctx, sampleRecords()[1])
	assert.True(t, core.IsPersistence(err), "got %v", err)
	assert.Equal(t, 1, l.Len())

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	reopened, err := core.Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len(), "disk must match memory after a rejected commit")

	status, err := client.Status("ledger.csv")
	require.NoError(t, err)
	assert.Empty(t, status, "ledger must not stay staged")
}

func TestStore_Versioned_FailedFirstCommitRemovesFile(t *testing.T) {
	ctx := context.Background()
	store, _, dir := versionedStore(t)
	rejectCommits(t, dir)

	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	err = l.Append(ctx, sampleRecords()[0])
	assert.True(t, core.IsPersistence(err), "got %v", err)
	assert.NoFileExists(t, store.Path())

	reopened, err := core.Open(ctx, store)
	require.NoError(t, err)
	assert.Zero(t, reopened.Len())
}

func TestStore_LoadedUnnamedPartsStayOutOfSummary(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "compras_pecas.csv")
	csv := "Impressora,Peça,Valor,Data de Compra,Data de Troca,Clicks\n" +
		"c4065,,10.0,2024-01-05,,100\n" +
		"c4065,fuser,150.0,2024-01-10,,20000\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	store, err := fs.NewStore(fs.Config{Path: path})
	require.NoError(t, err)
	l, err := core.Open(ctx, store)
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	summaries := analytics.Summarize(l.AllRecords())
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.PartName
	}
	assert.Equal(t, l.DistinctPartNames(), names)
}
