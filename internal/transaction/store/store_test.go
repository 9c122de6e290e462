package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction/store"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func records() []transaction.Record {
	return []transaction.Record{
		{
			Date:    date(2024, 3, 1),
			Payee:   "Kauppa Oy",
			Memo:    "Korttiosto | Ostokset",
			Outflow: decimal.RequireFromString("12.50"),
			Inflow:  decimal.Zero,
		},
		{
			Date:    date(2024, 3, 2),
			Payee:   "Matti; Meikalainen",
			Memo:    "Tilisiirto | \"Lounas\"",
			Outflow: decimal.Zero,
			Inflow:  decimal.RequireFromString("1234.5"),
		},
	}
}

func keys(rs []transaction.Record) []transaction.Key {
	out := make([]transaction.Key, len(rs))
	for i, r := range rs {
		out[i] = r.Key()
	}

	return out
}

func TestStore_LoadLedger_Missing(t *testing.T) {
	s := store.New(t.TempDir(), "", transaction.DefaultFormat)

	got, err := s.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_AppendLedger(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, "", transaction.DefaultFormat)
	ctx := context.Background()

	recs := records()

	require.NoError(t, s.AppendLedger(ctx, recs[:1]))
	require.NoError(t, s.AppendLedger(ctx, recs[1:]))

	raw, err := os.ReadFile(filepath.Join(dir, store.LedgerFileName))
	require.NoError(t, err)
	assert.Equal(t,
		"Date;Payee;Memo;Outflow;Inflow\n"+
			"2024-03-01;Kauppa Oy;Korttiosto | Ostokset;12,50;0,00\n"+
			"2024-03-02;\"Matti; Meikalainen\";\"Tilisiirto | \"\"Lounas\"\"\";0,00;1234,50\n",
		string(raw))

	got, err := s.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, keys(recs), keys(got))
}

func TestStore_AppendLedger_UnterminatedLastRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	content := "Date;Payee;Memo;Outflow;Inflow\n2024-02-28;Kioski;Korttiosto | ;1,00;0,00"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := store.New(dir, path, transaction.DefaultFormat)
	ctx := context.Background()

	require.NoError(t, s.AppendLedger(ctx, records()[:1]))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		content+"\n"+
			"2024-03-01;Kauppa Oy;Korttiosto | Ostokset;12,50;0,00\n",
		string(raw))

	got, err := s.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Kioski", got[0].Payee)
	assert.Equal(t, "Kauppa Oy", got[1].Payee)
}

func TestStore_LoadLedger_BadHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date;Payee;Memo;Amount\n"), 0o644))

	s := store.New(dir, path, transaction.DefaultFormat)

	_, err := s.LoadLedger(context.Background())
	assert.ErrorContains(t, err, "unexpected header")
}

func TestStore_LoadLedger_BadRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.csv")
	content := "Date;Payee;Memo;Outflow;Inflow\n2024-03-01;A;m;abc;0,00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := store.New(dir, path, transaction.DefaultFormat)

	_, err := s.LoadLedger(context.Background())
	assert.ErrorContains(t, err, "row 2")
}

func TestStore_SaveRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "RESULTS")
	s := store.New(dir, "", transaction.DefaultFormat)

	path, err := s.SaveRun(context.Background(), date(2024, 3, 5), records())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "S-Bank_YNAB_2024-03-05.csv"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Date;Payee;Memo;Outflow;Inflow\n")
	assert.Contains(t, string(raw), "2024-03-01;Kauppa Oy;Korttiosto | Ostokset;12,50;0,00\n")

	// A second save on the same day replaces the file.
	_, err = s.SaveRun(context.Background(), date(2024, 3, 5), nil)
	require.NoError(t, err)

	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date;Payee;Memo;Outflow;Inflow\n", string(raw))
}
