package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/sbank-ynab/internal/transaction"
)

type Bank string

const (
	BankSPankki Bank = "spankki"
)

var ErrUnknownBank = errors.New("unknown bank")

type Importer interface {
	Parse(r io.Reader) ([]transaction.Record, error)
}
