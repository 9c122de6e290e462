package category

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/ynab"
)

//go:generate mockgen -source=mapper.go -destination=client_mock.go -package=category
type Client interface {
	Payees(ctx context.Context) ([]ynab.Payee, error)
	Transactions(ctx context.Context) ([]ynab.Transaction, error)
}

// Map maps payee names to the category last used for them.
type Map map[string]string

// Lookup returns the category for payee, or fallback when none is known.
func (m Map) Lookup(payee, fallback string) string {
	if id, ok := m[payee]; ok && id != "" {
		return id
	}

	return fallback
}

type Mapper struct {
	client Client
	logger *slog.Logger
}

func NewMapper(client Client, logger *slog.Logger) *Mapper {
	return &Mapper{client: client, logger: logger}
}

// Build fetches the payee directory and transaction history and derives the map.
// It never fails: a fetch that errors is logged and treated as empty.
func (m *Mapper) Build(ctx context.Context) Map {
	var (
		payees []ynab.Payee
		txs    []ynab.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := m.client.Payees(gctx)
		if err != nil {
			m.logFetchError("payees", err)
			return nil
		}

		payees = p

		return nil
	})

	g.Go(func() error {
		t, err := m.client.Transactions(gctx)
		if err != nil {
			m.logFetchError("transactions", err)
			return nil
		}

		txs = t

		return nil
	})

	_ = g.Wait()

	categories := FromHistory(payees, txs)

	m.logger.Info("built payee category map",
		"payees", len(payees),
		"transactions", len(txs),
		"mapped", len(categories),
	)

	return categories
}

func (m *Mapper) logFetchError(what string, err error) {
	attrs := []any{"fetch", what, "error", err}

	var apiErr *ynab.APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "status", apiErr.StatusCode)
	}

	m.logger.Warn("history fetch failed, continuing without it", attrs...)
}

// FromHistory walks txs in order; a later transaction overrides an earlier one for the same payee.
// Deleted payees and transactions are ignored, as are transactions lacking a payee or a category.
func FromHistory(payees []ynab.Payee, txs []ynab.Transaction) Map {
	names := make(map[string]string, len(payees))
	for _, p := range payees {
		if p.Deleted {
			continue
		}

		names[p.ID] = p.Name
	}

	categories := make(Map)

	for _, tx := range txs {
		if tx.Deleted || tx.PayeeID == "" || tx.CategoryID == "" {
			continue
		}

		name, ok := names[tx.PayeeID]
		if !ok {
			continue
		}

		categories[name] = tx.CategoryID
	}

	return categories
}
