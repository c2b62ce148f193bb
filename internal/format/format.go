// Package format renders token amounts and durations for display. The output is lossy and must not be
// used for comparisons.
package format

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the number of decimals of the DRAGON token
const TokenDecimals = 18

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Price formats an amount of token units: 1.5M, 12.3K or 2.50. Nil renders as "..."
func Price(amount *big.Int) string {
	if amount == nil {
		return Unknown
	}
	value := decimal.NewFromBigInt(amount, -TokenDecimals)

	switch {
	case value.GreaterThanOrEqual(million):
		return value.Div(million).StringFixed(2) + "M"
	case value.GreaterThanOrEqual(thousand):
		return value.Div(thousand).StringFixed(1) + "K"
	default:
		return value.StringFixed(2)
	}
}

// Duration formats seconds as HH:MM:SS. Hours are not clamped and may take more than two digits
func Duration(seconds uint64) string {
	h := seconds / 3600
	m := seconds / 60 % 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Unknown is rendered in place of values that are not loaded yet
const Unknown = "..."
