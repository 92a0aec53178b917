// Package pricing derives order totals from cart lines and a tip.
//
// All arithmetic uses exact decimals. Only Display rounds, so a 20% tip on
// 25.98 stays 5.196 internally and is shown as 5.20.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	// ShippingFee is charged on every order regardless of size.
	ShippingFee = decimal.RequireFromString("5.99")
	// TaxRate applies to the subtotal only.
	TaxRate = decimal.RequireFromString("0.08")
	// PresetTolerance is how close a tip must be to a preset to count as selecting it.
	PresetTolerance = decimal.RequireFromString("0.01")

	// TipPresets are the quick-select percentages offered at checkout.
	TipPresets = []int{0, 20, 30, 50}
)

// ErrNegativeTip is returned when a tip below zero is supplied.
var ErrNegativeTip = errors.New("tip must not be negative")

var hundred = decimal.NewFromInt(100)

// Quote is the price breakdown of a cart.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
}

// PresetOption describes one tip preset relative to the current tip.
type PresetOption struct {
	Percent  int             `json:"percent"`
	Amount   decimal.Decimal `json:"amount"`
	Selected bool            `json:"selected"`
}

// FromCents converts an integer cent amount to a decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents rounds d to the nearest cent.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(FromCents(l.UnitPriceCents).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// Tax returns the subtotal tax rounded to cents.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Compute builds the full quote for lines and tip.
func Compute(lines []domain.CartLine, tip decimal.Decimal) (Quote, error) {
	if tip.IsNegative() {
		return Quote{}, ErrNegativeTip
	}
	subtotal := Subtotal(lines)
	tax := Tax(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: ShippingFee,
		Tax:      tax,
		Tip:      tip,
		Total:    subtotal.Add(ShippingFee).Add(tax).Add(tip),
	}, nil
}

// PresetAmount is percent of subtotal, unrounded.
func PresetAmount(subtotal decimal.Decimal, percent int) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred)
}

// IsPreset reports whether percent is one of TipPresets.
func IsPreset(percent int) bool {
	for _, p := range TipPresets {
		if p == percent {
			return true
		}
	}
	return false
}

// Presets lists every tip preset for subtotal and marks the ones tip matches
// within PresetTolerance.
func Presets(subtotal, tip decimal.Decimal) []PresetOption {
	out := make([]PresetOption, 0, len(TipPresets))
	for _, pct := range TipPresets {
		amount := PresetAmount(subtotal, pct)
		out = append(out, PresetOption{
			Percent:  pct,
			Amount:   amount,
			Selected: tip.Sub(amount).Abs().LessThan(PresetTolerance),
		})
	}
	return out
}

// Display formats d with two decimal places.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}
