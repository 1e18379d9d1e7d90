package payment

import "github.com/shopspring/decimal"

type Method string

const (
	MethodTokens Method = "tokens"
	MethodCash   Method = "cash"
	MethodHybrid Method = "hybrid"
)

// Option is one way to pay for a priced item. Advisory only: nothing here
// mutates balances, and a chosen option is re-validated against the live
// pool before any debit.
type Option struct {
	Method       Method `json:"method"`
	Tokens       int    `json:"tokens"`
	CashCents    int64  `json:"cash_cents"`
	CanAfford    bool   `json:"can_afford"`
	SavingsCents int64  `json:"savings_cents"`
}

type Quote struct {
	Options []Option `json:"options"`
	Best    Option   `json:"best"`
}

// TokenValueCents converts a token amount to cash cents at the deployment
// token rate (dollars per token), rounding down.
func TokenValueCents(tokens int, tokenRate decimal.Decimal) int64 {
	return decimal.NewFromInt(int64(tokens)).
		Mul(tokenRate).
		Mul(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}

// BuildQuote computes the payment options for an item costing
// itemCostTokens. cashPriceCents overrides the cash price; when nil the
// cash price is the token cost valued at tokenRate. A hybrid option exists
// only when the caller has some tokens but not enough to cover the item.
func BuildQuote(itemCostTokens int, cashPriceCents *int64, availableTokens int, tokenRate decimal.Decimal) Quote {
	cashPrice := TokenValueCents(itemCostTokens, tokenRate)
	if cashPriceCents != nil {
		cashPrice = *cashPriceCents
	}

	tokensOnly := Option{
		Method:       MethodTokens,
		Tokens:       itemCostTokens,
		CashCents:    0,
		CanAfford:    availableTokens >= itemCostTokens,
		SavingsCents: cashPrice,
	}

	cashOnly := Option{
		Method:    MethodCash,
		Tokens:    0,
		CashCents: cashPrice,
		CanAfford: true,
	}

	options := []Option{tokensOnly, cashOnly}

	if availableTokens > 0 && availableTokens < itemCostTokens {
		applied := TokenValueCents(availableTokens, tokenRate)
		remainder := cashPrice - applied
		if remainder < 0 {
			remainder = 0
		}
		options = append(options, Option{
			Method:       MethodHybrid,
			Tokens:       availableTokens,
			CashCents:    remainder,
			CanAfford:    true,
			SavingsCents: applied,
		})
	}

	return Quote{Options: options, Best: bestOption(options)}
}

// bestOption prefers tokens-only when affordable, then hybrid, then cash.
func bestOption(options []Option) Option {
	var cash Option
	for _, o := range options {
		switch o.Method {
		case MethodTokens:
			if o.CanAfford {
				return o
			}
		case MethodCash:
			cash = o
		}
	}
	for _, o := range options {
		if o.Method == MethodHybrid {
			return o
		}
	}
	return cash
}
