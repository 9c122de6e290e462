package transaction_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

func TestRecord_HasSingleFlow(t *testing.T) {
	tests := []struct {
		name    string
		outflow string
		inflow  string
		want    bool
	}{
		{name: "Outflow Only", outflow: "12.50", inflow: "0", want: true},
		{name: "Inflow Only", outflow: "0", inflow: "3", want: true},
		{name: "Neither", outflow: "0", inflow: "0.00", want: false},
		{name: "Both", outflow: "1", inflow: "1", want: false},
		{name: "Negative", outflow: "-1", inflow: "0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := transaction.Record{
				Outflow: decimal.RequireFromString(tt.outflow),
				Inflow:  decimal.RequireFromString(tt.inflow),
			}
			assert.Equal(t, tt.want, r.HasSingleFlow())
		})
	}
}

func TestRecord_Amount(t *testing.T) {
	out := outflow(date(2024, 3, 1), "Kauppa Oy", "", "12.50")
	in := inflow(date(2024, 3, 1), "Matti", "", "7.25")

	assert.Equal(t, "-12.5", out.Amount().String())
	assert.Equal(t, "7.25", in.Amount().String())
}

func TestFormat_Fields(t *testing.T) {
	r := outflow(date(2024, 3, 1), "Kauppa Oy", "Korttiosto | Ostokset", "12.5")

	fields := transaction.DefaultFormat.Fields(r)
	assert.Equal(t, []string{"2024-03-01", "Kauppa Oy", "Korttiosto | Ostokset", "12,50", "0,00"}, fields)

	back, err := transaction.DefaultFormat.ParseFields(fields)
	require.NoError(t, err)
	assert.Equal(t, r.Key(), back.Key())
}

func TestFormat_ParseFields_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr string
	}{
		{name: "Short Row", fields: []string{"2024-03-01", "A"}, wantErr: "expected 5 fields"},
		{name: "Bad Date", fields: []string{"01.03.2024", "A", "", "1,00", "0,00"}, wantErr: "parse date"},
		{name: "Bad Outflow", fields: []string{"2024-03-01", "A", "", "x", "0,00"}, wantErr: "parse outflow"},
		{name: "Bad Inflow", fields: []string{"2024-03-01", "A", "", "0,00", ""}, wantErr: "parse inflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transaction.DefaultFormat.ParseFields(tt.fields)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
