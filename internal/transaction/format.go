package transaction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format describes how records are laid out in a delimited file.
type Format struct {
	Comma      rune
	DecimalSep string
	Places     int32
}

// DefaultFormat matches the Finnish export conventions: semicolon fields, decimal comma.
var DefaultFormat = Format{
	Comma:      ';',
	DecimalSep: ",",
	Places:     2,
}

// FormatAmount renders d with a fixed number of decimal places.
func (f Format) FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(f.Places)
	if f.DecimalSep != "." {
		s = strings.Replace(s, ".", f.DecimalSep, 1)
	}

	return s
}

// ParseAmount is the inverse of FormatAmount.
func (f Format) ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if f.DecimalSep != "." {
		clean = strings.Replace(clean, f.DecimalSep, ".", 1)
	}

	return decimal.NewFromString(clean)
}

// Fields returns the record as a row in Columns order.
func (f Format) Fields(r Record) []string {
	return []string{
		r.Date.Format(time.DateOnly),
		r.Payee,
		r.Memo,
		f.FormatAmount(r.Outflow),
		f.FormatAmount(r.Inflow),
	}
}

// ParseFields builds a record from a row in Columns order.
func (f Format) ParseFields(fields []string) (Record, error) {
	if len(fields) != len(Columns) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(fields))
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(fields[0]))
	if err != nil {
		return Record{}, fmt.Errorf("parse date %q: %w", fields[0], err)
	}

	outflow, err := f.ParseAmount(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("parse outflow %q: %w", fields[3], err)
	}

	inflow, err := f.ParseAmount(fields[4])
	if err != nil {
		return Record{}, fmt.Errorf("parse inflow %q: %w", fields[4], err)
	}

	return Record{
		Date:    date,
		Payee:   fields[1],
		Memo:    fields[2],
		Outflow: outflow,
		Inflow:  inflow,
	}, nil
}
