package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/partledger/pkg/core"
)

// resetFlags restores every flag a previous run changed; cobra keeps parsed
// values on the package-level command tree between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if _, ok := f.Value.(pflag.SliceValue); !ok {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// workspace returns the global flags pointing at an isolated ledger.
func workspace(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{
		"--config", filepath.Join(dir, "partledger.yaml"),
		"--ledger", filepath.Join(dir, "compras_pecas.csv"),
	}
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "partledger version")
}

func TestCLI_AddAndSummary(t *testing.T) {
	ws := workspace(t)

	_, err := run(t, append([]string{"add", "-p", "c4065", "--part", "fuser", "--cost", "150.00", "--date", "2024-01-10", "--clicks", "20000"}, ws...)...)
	require.NoError(t, err)
	out, err := run(t, append([]string{"add", "-p", "c4065", "--part", "fuser", "--cost", "160.00", "--date", "2024-06-01", "--clicks", "18000"}, ws...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 records)")

	out, err = run(t, append([]string{"summary", "--json"}, ws...)...)
	require.NoError(t, err)

	var summaries []summaryJSON
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "fuser", summaries[0].PartName)
	assert.True(t, decimal.RequireFromString("310").Equal(decimal.RequireFromString(summaries[0].TotalCost)))
	assert.Equal(t, int64(38000), summaries[0].TotalClicks)
	assert.Equal(t, 2, summaries[0].PurchaseCount)
	assert.True(t, strings.HasPrefix(summaries[0].CostPerClick, "0.008157"), summaries[0].CostPerClick)
}

func TestCLI_AddRejectsUnknownPrinter(t *testing.T) {
	ws := workspace(t)

	_, err := run(t, append([]string{"add", "-p", "x9999", "--part", "toner", "--cost", "80"}, ws...)...)
	require.Error(t, err)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "printer_id", verr.Field)
}

func TestCLI_AddRejectsMalformedCost(t *testing.T) {
	ws := workspace(t)

	_, err := run(t, append([]string{"add", "-p", "c2060", "--part", "toner", "--cost", "cheap"}, ws...)...)
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cost", verr.Field)
}

func TestCLI_UpdateAndHistory(t *testing.T) {
	ws := workspace(t)

	_, err := run(t, append([]string{"update", "drum", "-p", "c2060", "--cost", "90"}, ws...)...)
	require.ErrorIs(t, err, core.ErrUnknownPart)

	_, err = run(t, append([]string{"add", "-p", "c2060", "--part", "drum", "--cost", "90", "--date", "2024-01-05", "--clicks", "30000"}, ws...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"update", "drum", "-p", "c2060", "--cost", "95", "--date", "2024-08-20", "--clicks", "25000"}, ws...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Replacement of 'drum' recorded.")

	out, err = run(t, append([]string{"history", "drum", "--json"}, ws...)...)
	require.NoError(t, err)

	var history []metricJSON
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "2024-08-20", history[0].PurchaseDate)
	assert.Equal(t, "2024-01-05", history[1].PurchaseDate)
	assert.Equal(t, "0.0038", history[0].CostPerClick)
}

func TestCLI_ListAndParts(t *testing.T) {
	ws := workspace(t)

	for _, part := range []string{"toner", "fuser", "toner"} {
		_, err := run(t, append([]string{"add", "-p", "c4065", "--part", part, "--cost", "10", "--date", "2024-02-01"}, ws...)...)
		require.NoError(t, err)
	}

	out, err := run(t, append([]string{"parts"}, ws...)...)
	require.NoError(t, err)
	assert.Equal(t, "fuser\ntoner\n", out)

	out, err = run(t, append([]string{"list", "--json"}, ws...)...)
	require.NoError(t, err)
	var rows []metricJSON
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "0", rows[0].CostPerClick, "zero clicks yields zero cost per click")
}

func TestCLI_ReadCommandsDoNotCreateLedger(t *testing.T) {
	ws := workspace(t)

	out, err := run(t, append([]string{"list", "--json"}, ws...)...)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, statErr := os.Stat(ws[3])
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_ReadCommandsDoNotCreateSQLiteDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ledger.db")
	args := []string{"--config", filepath.Join(dir, "partledger.yaml"), "--adapter", "sqlite", "--ledger", db}

	for _, name := range []string{"list", "summary", "parts"} {
		_, err := run(t, append([]string{name}, args...)...)
		require.NoError(t, err, name)
	}
	assert.NoFileExists(t, db)
}

func TestCLI_Init(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized partledger workspace")
	assert.FileExists(t, filepath.Join(dir, "partledger.yaml"))

	_, err = run(t, "init", "--dir", dir)
	assert.Error(t, err, "init must not overwrite an existing workspace")

	cfg := filepath.Join(dir, "partledger.yaml")
	_, err = run(t, "add", "-c", cfg, "-p", "c4065", "--part", "toner", "--cost", "80", "--date", "2024-03-01")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "compras_pecas.csv"))
}

func TestCLI_ImportDryRun(t *testing.T) {
	ws := workspace(t)
	src := t.TempDir()
	csv := "Impressora,Peça,Valor,Data de Compra,Data de Troca,Clicks\n" +
		"c4065,fuser,150.00,2024-01-10,2024-06-01,20000\n"
	require.NoError(t, os.WriteFile(filepath.Join(src, "site.csv"), []byte(csv), 0644))

	out, err := run(t, append([]string{"import", "*.csv", "--root", src, "--dry-run"}, ws...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 1 records from 1 files.")

	out, err = run(t, append([]string{"list", "--json"}, ws...)...)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	out, err = run(t, append([]string{"import", "*.csv", "--root", src}, ws...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 records from 1 files.")
}

func TestCLI_State(t *testing.T) {
	ws := workspace(t)

	out, err := run(t, append([]string{"state"}, ws...)...)
	require.NoError(t, err)

	var state core.LedgerState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, "file-store", state.StoreType)
	assert.True(t, state.ReadOnly)
	assert.Equal(t, []string{"c4065", "c2060"}, state.Printers)
}
