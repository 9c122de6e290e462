package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/importer/spankki"
	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

type Service struct {
	importers map[Bank]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankSPankki: spankki.NewParser(),
		},
	}
}

// Import parses an export of the given bank into normalized records.
func (s *Service) Import(bank Bank, r io.Reader) ([]transaction.Record, error) {
	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	return importer.Parse(r)
}
