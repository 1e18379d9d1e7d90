package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var centRate = decimal.NewFromFloat(0.01)

func findOption(t *testing.T, q Quote, m Method) Option {
	t.Helper()
	for _, o := range q.Options {
		if o.Method == m {
			return o
		}
	}
	t.Fatalf("option %s not found", m)
	return Option{}
}

func TestBuildQuoteHybridScenario(t *testing.T) {
	// 100 token item, 40 tokens available, $0.01/token
	q := BuildQuote(100, nil, 40, centRate)

	tokensOnly := findOption(t, q, MethodTokens)
	assert.False(t, tokensOnly.CanAfford)
	assert.Equal(t, 100, tokensOnly.Tokens)

	cashOnly := findOption(t, q, MethodCash)
	assert.True(t, cashOnly.CanAfford)
	assert.Equal(t, int64(100), cashOnly.CashCents) // $1.00

	hybrid := findOption(t, q, MethodHybrid)
	assert.Equal(t, 40, hybrid.Tokens)
	assert.Equal(t, int64(60), hybrid.CashCents) // $0.60
	assert.Equal(t, int64(40), hybrid.SavingsCents)

	assert.Equal(t, MethodHybrid, q.Best.Method)
}

func TestBuildQuoteTokensAffordable(t *testing.T) {
	q := BuildQuote(100, nil, 250, centRate)

	tokensOnly := findOption(t, q, MethodTokens)
	assert.True(t, tokensOnly.CanAfford)
	assert.Equal(t, int64(0), tokensOnly.CashCents)
	assert.Equal(t, int64(100), tokensOnly.SavingsCents)

	assert.Equal(t, MethodTokens, q.Best.Method)

	// no hybrid when tokens fully cover the item
	for _, o := range q.Options {
		assert.NotEqual(t, MethodHybrid, o.Method)
	}
}

func TestBuildQuoteNoTokens(t *testing.T) {
	q := BuildQuote(100, nil, 0, centRate)

	require.Len(t, q.Options, 2)
	assert.Equal(t, MethodCash, q.Best.Method)
	assert.True(t, q.Best.CanAfford)
}

func TestBuildQuoteCashPriceOverride(t *testing.T) {
	override := int64(500)
	q := BuildQuote(100, &override, 40, centRate)

	cashOnly := findOption(t, q, MethodCash)
	assert.Equal(t, int64(500), cashOnly.CashCents)

	// hybrid applies token value against the override price
	hybrid := findOption(t, q, MethodHybrid)
	assert.Equal(t, int64(460), hybrid.CashCents)
}

func TestBuildQuoteHybridRemainderNeverNegative(t *testing.T) {
	// override cheaper than the applied token value
	override := int64(10)
	q := BuildQuote(100, &override, 99, centRate)

	hybrid := findOption(t, q, MethodHybrid)
	assert.Equal(t, int64(0), hybrid.CashCents)
}

func TestTokenValueCentsFloors(t *testing.T) {
	rate := decimal.NewFromFloat(0.007)
	// 3571 tokens * $0.007 = $24.997 -> 2499 cents
	assert.Equal(t, int64(2499), TokenValueCents(3571, rate))
	assert.Equal(t, int64(0), TokenValueCents(0, rate))
	assert.Equal(t, int64(0), TokenValueCents(1, rate))
}
