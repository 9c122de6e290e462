package spankki

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyAmount   = errors.New("empty amount")
	errSubCentAmount = errors.New("amount has more than two decimal places")
)

var groupSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// parseFinnishAmount parses a decimal-comma amount.
// Format examples: "-12,50", "+1 234,56", "1.234,56", "10".
// Dots are only treated as thousand separators when a decimal comma is present.
// Amounts finer than a cent are rejected; trailing zeros ("12,500") are fine.
func parseFinnishAmount(s string) (decimal.Decimal, error) {
	clean := groupSeparators.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, errEmptyAmount
	}

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}

	clean = strings.TrimPrefix(clean, "+")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, errSubCentAmount
	}

	return d, nil
}
