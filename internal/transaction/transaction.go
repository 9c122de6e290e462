package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Columns is the column order of a normalized table, as written to the ledger and run files.
var Columns = []string{"Date", "Payee", "Memo", "Outflow", "Inflow"}

// MemoSeparator joins the transaction type label and the free-text message.
const MemoSeparator = " | "

// Record is a normalized bank transaction.
// Exactly one of Outflow and Inflow is non-zero, and both are non-negative.
type Record struct {
	Date    time.Time
	Payee   string
	Memo    string
	Outflow decimal.Decimal
	Inflow  decimal.Decimal
}

// Amount returns the signed amount: negative for money out, positive for money in.
func (r Record) Amount() decimal.Decimal {
	return r.Inflow.Sub(r.Outflow)
}

// HasSingleFlow reports whether exactly one of Outflow and Inflow is non-zero.
func (r Record) HasSingleFlow() bool {
	if r.Outflow.IsNegative() || r.Inflow.IsNegative() {
		return false
	}

	return r.Outflow.IsZero() != r.Inflow.IsZero()
}

// Key identifies a record by all five fields.
// Amounts are compared at two decimal places so "12.5" and "12.50" are the same row.
type Key struct {
	Date    string
	Payee   string
	Memo    string
	Outflow string
	Inflow  string
}

func (r Record) Key() Key {
	return Key{
		Date:    r.Date.Format(time.DateOnly),
		Payee:   r.Payee,
		Memo:    r.Memo,
		Outflow: r.Outflow.StringFixed(2),
		Inflow:  r.Inflow.StringFixed(2),
	}
}

// Set is a membership set of records keyed by full-field equality.
type Set map[Key]struct{}

func NewSet(records []Record) Set {
	set := make(Set, len(records))
	for _, r := range records {
		set[r.Key()] = struct{}{}
	}

	return set
}

func (s Set) Contains(r Record) bool {
	_, ok := s[r.Key()]
	return ok
}
