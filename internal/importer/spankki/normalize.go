package spankki

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

// dateLayout accepts both "01.03.2024" and "1.3.2024".
const dateLayout = "2.1.2006"

// finnishLetters folds the Finnish umlauts to their base letters. Å is left alone.
var finnishLetters = runes.Map(func(r rune) rune {
	switch r {
	case 'ä':
		return 'a'
	case 'ö':
		return 'o'
	case 'Ä':
		return 'A'
	case 'Ö':
		return 'O'
	}

	return r
})

func transliterate(s string) string {
	// NFC first so a decomposed umlaut (a + U+0308) is folded too.
	out, _, err := transform.String(transform.Chain(norm.NFC, finnishLetters), s)
	if err != nil {
		return s
	}

	return out
}

// Normalize turns raw export rows into records in input order.
// Rows whose amount is zero are dropped; a malformed amount or payment date fails the whole batch.
func Normalize(raws []RawRecord) ([]transaction.Record, error) {
	records := make([]transaction.Record, 0, len(raws))

	for _, raw := range raws {
		raw.Payer = transliterate(raw.Payer)
		raw.PayeeName = transliterate(raw.PayeeName)
		raw.Message = transliterate(raw.Message)
		raw.Type = transliterate(raw.Type)

		amount, err := parseFinnishAmount(raw.Amount)
		if err != nil {
			return nil, &ParseError{Line: raw.Line, Column: colAmount, Value: raw.Amount, Err: err}
		}

		outflow, inflow := splitFlow(amount)
		if outflow.IsZero() && inflow.IsZero() {
			continue
		}

		date, err := time.Parse(dateLayout, raw.PaymentDate)
		if err != nil {
			return nil, &ParseError{Line: raw.Line, Column: colPaymentDate, Value: raw.PaymentDate, Err: err}
		}

		records = append(records, transaction.Record{
			Date:    date,
			Payee:   payee(raw, outflow, inflow),
			Memo:    raw.Type + transaction.MemoSeparator + raw.Message,
			Outflow: outflow,
			Inflow:  inflow,
		})
	}

	return records, nil
}

// splitFlow maps a signed amount to non-negative outflow and inflow, at most one non-zero.
func splitFlow(amount decimal.Decimal) (outflow, inflow decimal.Decimal) {
	switch amount.Sign() {
	case -1:
		return amount.Abs(), decimal.Zero
	case 1:
		return decimal.Zero, amount
	}

	return decimal.Zero, decimal.Zero
}

// payee is the counterparty: the recipient for money out, the payer for money in.
func payee(raw RawRecord, outflow, inflow decimal.Decimal) string {
	switch {
	case !outflow.IsZero() && inflow.IsZero():
		return raw.PayeeName
	case !inflow.IsZero() && outflow.IsZero():
		return raw.Payer
	}

	return ""
}
