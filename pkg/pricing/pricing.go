// Package pricing computes the gross monthly price of a Server Bourse record
// and renders prices for notifications.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// CurrencySuffix is appended to every formatted price.
const CurrencySuffix = "€"

// vatMultiplier adds the 19% German VAT on top of the net feed prices.
var vatMultiplier = decimal.RequireFromString("1.19")

// ServerPrice returns (price + monthly IP surcharge) * 1.19.
func ServerPrice(rec *domain.ServerRecord) float64 {
	net := decimal.NewFromFloat(rec.Price).Add(decimal.NewFromFloat(rec.IPPrice.Monthly))
	return net.Mul(vatMultiplier).InexactFloat64()
}

// Format renders p with exactly two decimals followed by the euro sign.
func Format(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + CurrencySuffix
}

// FormatString parses a numeric string and formats it like Format.
func FormatString(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parsing price %q: %w", s, err)
	}
	return d.StringFixed(2) + CurrencySuffix, nil
}
