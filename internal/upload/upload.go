package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab"
)

// milliunitsPerUnit is the service's scaling of currency amounts.
var milliunitsPerUnit = decimal.NewFromInt(1000)

type Submitter interface {
	BulkCreate(ctx context.Context, txs []ynab.SaveTransaction) (*ynab.BulkResult, error)
}

// Categories resolves a payee name to a category id.
type Categories interface {
	Lookup(payee, fallback string) string
}

type Service struct {
	client             Submitter
	accountID          string
	fallbackCategoryID string
	logger             *slog.Logger
}

func NewService(client Submitter, accountID, fallbackCategoryID string, logger *slog.Logger) *Service {
	return &Service{
		client:             client,
		accountID:          accountID,
		fallbackCategoryID: fallbackCategoryID,
		logger:             logger,
	}
}

type Result struct {
	Skipped            bool
	Submitted          int
	TransactionIDs     []string
	DuplicateImportIDs []string
}

// Milliunits scales a currency amount to the service's integer unit, truncating toward zero.
func Milliunits(amount decimal.Decimal) int64 {
	return amount.Mul(milliunitsPerUnit).IntPart()
}

// ImportID is the idempotency key for a transaction of amount milliunits on date.
// Equal (amount, date) pairs always yield the same key.
func ImportID(amount int64, date string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	return fmt.Sprintf("YNAB:%s%d:%s:1", sign, amount, date)
}

// Build converts records to payloads, filling in categories from the payee history.
func (s *Service) Build(records []transaction.Record, categories Categories) []ynab.SaveTransaction {
	txs := make([]ynab.SaveTransaction, 0, len(records))

	for _, r := range records {
		amount := Milliunits(r.Amount())
		date := r.Date.Format(time.DateOnly)

		categoryID := s.fallbackCategoryID
		if categories != nil {
			categoryID = categories.Lookup(r.Payee, s.fallbackCategoryID)
		}

		txs = append(txs, ynab.SaveTransaction{
			AccountID:  s.accountID,
			Date:       date,
			Amount:     amount,
			PayeeName:  r.Payee,
			CategoryID: categoryID,
			Memo:       r.Memo,
			ImportID:   ImportID(amount, date),
		})
	}

	return txs
}

// Upload submits records in a single bulk request. An empty batch sends nothing.
// A failed request is logged with its status and body and returned; it is not retried.
func (s *Service) Upload(ctx context.Context, records []transaction.Record, categories Categories) (*Result, error) {
	txs := s.Build(records, categories)
	if len(txs) == 0 {
		s.logger.Info("no transactions to upload")
		return &Result{Skipped: true}, nil
	}

	bulk, err := s.client.BulkCreate(ctx, txs)
	if err != nil {
		var apiErr *ynab.APIError
		if errors.As(err, &apiErr) {
			s.logger.Error("bulk transaction upload failed",
				"status", apiErr.StatusCode,
				"body", apiErr.Body,
				"transactions", len(txs),
			)
		} else {
			s.logger.Error("bulk transaction upload failed", "error", err, "transactions", len(txs))
		}

		return nil, fmt.Errorf("bulk upload: %w", err)
	}

	s.logger.Info("bulk transaction upload successful",
		"submitted", len(txs),
		"created", len(bulk.TransactionIDs),
		"duplicates", len(bulk.DuplicateImportIDs),
	)

	return &Result{
		Submitted:          len(txs),
		TransactionIDs:     bulk.TransactionIDs,
		DuplicateImportIDs: bulk.DuplicateImportIDs,
	}, nil
}
