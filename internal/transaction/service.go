package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// LoadLedger returns every record processed by earlier runs.
	LoadLedger(ctx context.Context) ([]Record, error)
	// AppendLedger adds records to the ledger without rewriting existing rows.
	AppendLedger(ctx context.Context, records []Record) error
	// SaveRun writes the records processed by the run on runDate and returns where they went.
	SaveRun(ctx context.Context, runDate time.Time, records []Record) (string, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

type DedupResult struct {
	// New holds the records absent from the ledger, in input order.
	New []Record
	// Duplicates holds the records already present in the ledger.
	Duplicates []Record
	// Repeated holds one record per key that occurs more than once in the input.
	// Every occurrence is still kept in New.
	Repeated []Record
}

// Deduplicate loads the ledger and drops every record it already contains.
func (s *Service) Deduplicate(ctx context.Context, records []Record) (*DedupResult, error) {
	ledger, err := s.repo.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	result := Deduplicate(records, ledger)

	for _, r := range result.Repeated {
		s.logger.Warn("transaction occurs more than once in the export, keeping all occurrences",
			"date", r.Date.Format(time.DateOnly),
			"payee", r.Payee,
			"amount", r.Amount().String(),
		)
	}

	s.logger.Debug("deduplicated against ledger",
		"ledger", len(ledger),
		"new", len(result.New),
		"duplicates", len(result.Duplicates),
	)

	return result, nil
}

// Deduplicate filters records against ledger, preserving input order.
func Deduplicate(records, ledger []Record) *DedupResult {
	seen := NewSet(ledger)
	counts := make(map[Key]int, len(records))
	result := &DedupResult{}

	for _, r := range records {
		k := r.Key()

		counts[k]++
		if counts[k] == 2 {
			result.Repeated = append(result.Repeated, r)
		}

		if _, found := seen[k]; found {
			result.Duplicates = append(result.Duplicates, r)
			continue
		}

		result.New = append(result.New, r)
	}

	return result
}

// Persist saves the run file and then appends the records to the ledger.
func (s *Service) Persist(ctx context.Context, runDate time.Time, records []Record) (string, error) {
	path, err := s.repo.SaveRun(ctx, runDate, records)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	if len(records) == 0 {
		return path, nil
	}

	if err := s.repo.AppendLedger(ctx, records); err != nil {
		return path, fmt.Errorf("append ledger: %w", err)
	}

	return path, nil
}
