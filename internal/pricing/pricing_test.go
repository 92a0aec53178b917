package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_ReferenceExample(t *testing.T) {
	lines := []domain.CartLine{{ProductID: "1", UnitPriceCents: 1299, Quantity: 2}}

	q, err := Compute(lines, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "25.98", Display(q.Subtotal))
	assert.Equal(t, "5.99", Display(q.Shipping))
	assert.Equal(t, "2.08", Display(q.Tax))
	assert.Equal(t, "34.05", Display(q.Total))
	assert.True(t, q.Total.Equal(q.Subtotal.Add(q.Shipping).Add(q.Tax).Add(q.Tip)))
}

func TestCompute_TotalIsExactSum(t *testing.T) {
	cases := []struct {
		lines []domain.CartLine
		tip   string
	}{
		{nil, "0"},
		{[]domain.CartLine{{UnitPriceCents: 399, Quantity: 3}}, "1.5"},
		{[]domain.CartLine{{UnitPriceCents: 1899, Quantity: 1}, {UnitPriceCents: 549, Quantity: 7}}, "5.196"},
		{[]domain.CartLine{{UnitPriceCents: 1, Quantity: 1}}, "0.333333"},
	}
	for _, tc := range cases {
		q, err := Compute(tc.lines, dec(tc.tip))
		require.NoError(t, err)
		want := q.Subtotal.Add(ShippingFee).Add(Tax(q.Subtotal)).Add(dec(tc.tip))
		assert.True(t, q.Total.Equal(want), "total %s want %s", q.Total, want)
		assert.True(t, q.Total.GreaterThanOrEqual(q.Subtotal))
		assert.True(t, q.Tax.Equal(q.Subtotal.Mul(TaxRate).Round(2)))
	}
}

func TestCompute_EmptyCartStillChargesShipping(t *testing.T) {
	q, err := Compute(nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.Total.Equal(ShippingFee))
}

func TestCompute_NoFreeShippingThreshold(t *testing.T) {
	lines := []domain.CartLine{{UnitPriceCents: 10000, Quantity: 1}}
	q, err := Compute(lines, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "5.99", Display(q.Shipping))
}

func TestCompute_RejectsNegativeTip(t *testing.T) {
	_, err := Compute(nil, dec("-0.01"))
	assert.ErrorIs(t, err, ErrNegativeTip)
}

func TestPresets_TwentyPercentSelection(t *testing.T) {
	subtotal := dec("25.98")
	tip := PresetAmount(subtotal, 20)
	assert.True(t, tip.Equal(dec("5.196")))
	assert.Equal(t, "5.20", Display(tip))

	opts := Presets(subtotal, tip)
	require.Len(t, opts, 4)
	for _, o := range opts {
		assert.Equal(t, o.Percent == 20, o.Selected, "preset %d", o.Percent)
	}
}

func TestPresets_ToleranceAndNoTip(t *testing.T) {
	subtotal := dec("25.98")

	opts := Presets(subtotal, dec("5.20"))
	assert.True(t, opts[1].Selected, "5.20 is within 0.01 of 5.196")

	opts = Presets(subtotal, dec("5.21"))
	assert.False(t, opts[1].Selected)

	opts = Presets(subtotal, decimal.Zero)
	assert.True(t, opts[0].Selected)
	assert.False(t, opts[1].Selected)
}

func TestCents(t *testing.T) {
	assert.True(t, FromCents(1299).Equal(dec("12.99")))
	assert.Equal(t, int64(520), ToCents(dec("5.196")))
	assert.Equal(t, int64(3405), ToCents(dec("34.0484")))
}
