package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

const (
	LedgerFileName = "DUPLICATE_CHECK.csv"
	runFilePrefix  = "S-Bank_YNAB_"
)

// RunFileName returns the name of the file holding the records processed on runDate.
func RunFileName(runDate time.Time) string {
	return runFilePrefix + runDate.Format(time.DateOnly) + ".csv"
}

// Store keeps normalized tables as delimited files: one append-only ledger plus one file per run.
// It assumes a single writer; concurrent runs against the same ledger must be serialized by the caller.
type Store struct {
	resultsDir string
	ledgerPath string
	format     transaction.Format
}

// New returns a store writing run files to resultsDir.
// An empty ledgerPath puts the ledger in resultsDir under LedgerFileName.
func New(resultsDir, ledgerPath string, format transaction.Format) *Store {
	if ledgerPath == "" {
		ledgerPath = filepath.Join(resultsDir, LedgerFileName)
	}

	return &Store{
		resultsDir: resultsDir,
		ledgerPath: ledgerPath,
		format:     format,
	}
}

func (s *Store) LedgerPath() string {
	return s.ledgerPath
}

// LoadLedger reads the whole ledger. A missing ledger file is an empty ledger.
func (s *Store) LoadLedger(ctx context.Context) ([]transaction.Record, error) {
	f, err := os.Open(s.ledgerPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	records, err := s.readTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.ledgerPath, err)
	}

	return records, nil
}

// AppendLedger appends records to the ledger, writing the header only when the file is new or empty.
func (s *Store) AppendLedger(ctx context.Context, records []transaction.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.ledgerPath), 0o755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	f, err := os.OpenFile(s.ledgerPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger: %w", err)
	}

	if err := terminateLastRow(f, info.Size()); err != nil {
		return fmt.Errorf("terminating last ledger row: %w", err)
	}

	if err := s.writeTable(f, records, info.Size() == 0); err != nil {
		return fmt.Errorf("appending ledger: %w", err)
	}

	return f.Close()
}

// SaveRun writes records to the run file for runDate, replacing any earlier file of the same day.
func (s *Store) SaveRun(ctx context.Context, runDate time.Time, records []transaction.Record) (string, error) {
	if err := os.MkdirAll(s.resultsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	path := filepath.Join(s.resultsDir, RunFileName(runDate))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating run file: %w", err)
	}
	defer f.Close()

	if err := s.writeTable(f, records, true); err != nil {
		return "", fmt.Errorf("writing run file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing run file: %w", err)
	}

	return path, nil
}

// terminateLastRow adds the newline a hand-edited ledger may be missing, so appended rows start on their own line.
func terminateLastRow(f *os.File, size int64) error {
	if size == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return err
	}

	if last[0] == '\n' {
		return nil
	}

	_, err := f.Write([]byte{'\n'})

	return err
}

func (s *Store) readTable(r io.Reader) ([]transaction.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.format.Comma

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}

	if !slices.Equal(header, transaction.Columns) {
		return nil, fmt.Errorf("unexpected header %q, want %q", header, transaction.Columns)
	}

	records := make([]transaction.Record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rec, err := s.format.ParseFields(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func (s *Store) writeTable(w io.Writer, records []transaction.Record, header bool) error {
	writer := csv.NewWriter(w)
	writer.Comma = s.format.Comma

	if header {
		if err := writer.Write(transaction.Columns); err != nil {
			return err
		}
	}

	for _, r := range records {
		if err := writer.Write(s.format.Fields(r)); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}
