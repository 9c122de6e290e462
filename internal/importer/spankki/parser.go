package spankki

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/sbank-ynab/internal/encoding"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

var errMissingColumn = errors.New("missing column")

// RawRecord is one data row of the export, cells trimmed but otherwise untouched.
type RawRecord struct {
	Line         int
	PaymentDate  string
	BookingDate  string
	Payer        string
	PayeeName    string
	PayeeAccount string
	PayeeBIC     string
	Reference    string
	ArchiveID    string
	Type         string
	Message      string
	Amount       string
}

// Parser reads S-Pankki account exports and produces normalized records.
// The header row is located by its column labels, so leading metadata rows are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Record, error) {
	raws, err := ReadRaw(r)
	if err != nil {
		return nil, err
	}

	return Normalize(raws)
}

// ReadRaw decodes the export and returns its data rows.
func ReadRaw(r io.Reader) ([]RawRecord, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		cols colIndex
		raws []RawRecord
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if cols == nil {
			if c := headerIndex(row); c.hasAll(requiredCols) {
				cols = c
			}

			continue
		}

		if isBlank(row) {
			continue
		}

		raw, err := readRow(cols, row, line)
		if err != nil {
			return nil, err
		}

		raws = append(raws, raw)
	}

	if cols == nil {
		return nil, fmt.Errorf("no S-Pankki header found: expected columns %s", strings.Join(requiredCols, ", "))
	}

	return raws, nil
}

func headerIndex(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		if name != "" {
			cols[name] = i
		}
	}

	return cols
}

func readRow(cols colIndex, row []string, line int) (RawRecord, error) {
	for _, name := range requiredCols {
		if cols[name] >= len(row) {
			return RawRecord{}, &ParseError{Line: line, Column: name, Err: errMissingColumn}
		}
	}

	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[idx])
	}

	return RawRecord{
		Line:         line,
		PaymentDate:  cell(colPaymentDate),
		BookingDate:  cell(colBookingDate),
		Payer:        cell(colPayer),
		PayeeName:    cell(colPayeeName),
		PayeeAccount: cell(colPayeeAccount),
		PayeeBIC:     cell(colPayeeBIC),
		Reference:    cell(colReference),
		ArchiveID:    cell(colArchiveID),
		Type:         cell(colType),
		Message:      cell(colMessage),
		Amount:       cell(colAmount),
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
