package upload_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/category"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/upload"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab/ynabtest"
)

const (
	accountID   = "f51e3268-bcf8-4f2a-9572-90f1302d6739"
	fallbackID  = "54d95049-2a45-42ec-aff5-3eed77855044"
	groceriesID = "0a1b2c3d-0000-4000-8000-000000000001"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(day int, payee, memo, out, in string) transaction.Record {
	return transaction.Record{
		Date:    time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Payee:   payee,
		Memo:    memo,
		Outflow: decimal.RequireFromString(out),
		Inflow:  decimal.RequireFromString(in),
	}
}

func TestMilliunits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "-12.50", want: -12500},
		{in: "2500", want: 2500000},
		{in: "0.01", want: 10},
		{in: "-0.0019", want: -1},
		{in: "1.2345", want: 1234},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, upload.Milliunits(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestImportID(t *testing.T) {
	assert.Equal(t, "YNAB:-12500:2024-03-01:1", upload.ImportID(-12500, "2024-03-01"))
	assert.Equal(t, "YNAB:40000:2024-03-02:1", upload.ImportID(40000, "2024-03-02"))

	assert.Equal(t, upload.ImportID(-100, "2024-03-01"), upload.ImportID(-100, "2024-03-01"))
	assert.NotEqual(t, upload.ImportID(-100, "2024-03-01"), upload.ImportID(-100, "2024-03-02"))
	assert.NotEqual(t, upload.ImportID(-100, "2024-03-01"), upload.ImportID(100, "2024-03-01"))
	assert.NotEqual(t, upload.ImportID(-100, "2024-03-01"), upload.ImportID(-1000, "2024-03-01"))
}

func TestService_Build(t *testing.T) {
	svc := upload.NewService(nil, accountID, fallbackID, discardLogger())
	categories := category.Map{"Kauppa Oy": groceriesID}

	got := svc.Build([]transaction.Record{
		record(1, "Kauppa Oy", "Korttiosto | Ostokset", "12.50", "0"),
		record(2, "Matti", "Tilisiirto | Lounas", "0", "40.00"),
	}, categories)

	require.Len(t, got, 2)

	assert.Equal(t, ynab.SaveTransaction{
		AccountID:  accountID,
		Date:       "2024-03-01",
		Amount:     -12500,
		PayeeName:  "Kauppa Oy",
		CategoryID: groceriesID,
		Memo:       "Korttiosto | Ostokset",
		ImportID:   "YNAB:-12500:2024-03-01:1",
	}, got[0])

	assert.Equal(t, int64(40000), got[1].Amount)
	assert.Equal(t, fallbackID, got[1].CategoryID)
	assert.Equal(t, "YNAB:40000:2024-03-02:1", got[1].ImportID)
}

func TestService_Build_NoCategories(t *testing.T) {
	svc := upload.NewService(nil, accountID, fallbackID, discardLogger())

	got := svc.Build([]transaction.Record{record(1, "Kauppa Oy", "", "1", "0")}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, fallbackID, got[0].CategoryID)
}

func TestService_Upload(t *testing.T) {
	srv := ynabtest.NewServer(t)
	svc := upload.NewService(srv.NewClient(), accountID, fallbackID, discardLogger())

	records := []transaction.Record{
		record(1, "Kauppa Oy", "Korttiosto | Ostokset", "12.50", "0"),
		record(2, "Matti", "Tilisiirto | Lounas", "0", "40.00"),
	}

	got, err := svc.Upload(context.Background(), records, category.Map{})
	require.NoError(t, err)
	assert.False(t, got.Skipped)
	assert.Equal(t, 2, got.Submitted)
	assert.Len(t, got.TransactionIDs, 2)

	bulks := srv.Bulks()
	require.Len(t, bulks, 1)
	assert.Len(t, bulks[0], 2)
	assert.Equal(t, accountID, bulks[0][0].AccountID)
}

func TestService_Upload_EmptySkipsRequest(t *testing.T) {
	srv := ynabtest.NewServer(t)
	svc := upload.NewService(srv.NewClient(), accountID, fallbackID, discardLogger())

	got, err := svc.Upload(context.Background(), nil, category.Map{})
	require.NoError(t, err)
	assert.True(t, got.Skipped)
	assert.Zero(t, srv.Requests())
}

func TestService_Upload_Rejected(t *testing.T) {
	srv := ynabtest.NewServer(t)
	srv.FailWith(ynabtest.EndpointBulk, http.StatusBadRequest)

	svc := upload.NewService(srv.NewClient(), accountID, fallbackID, discardLogger())

	_, err := svc.Upload(context.Background(), []transaction.Record{record(1, "Kauppa Oy", "", "1", "0")}, nil)
	require.Error(t, err)

	var apiErr *ynab.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 1, srv.Requests())
}
