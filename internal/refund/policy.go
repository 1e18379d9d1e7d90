package refund

import (
	"time"

	"github.com/shopspring/decimal"
)

// Band is a cancellation outcome: the refund percentage applied to both
// payment legs, and whether cancellation is allowed at all.
type Band struct {
	Percentage int  `json:"percentage"`
	CanCancel  bool `json:"can_cancel"`
}

// band thresholds in hours before session start, evaluated in descending
// order; first match wins. Below the last threshold cancellation is
// rejected outright since the booking still occupies the resource.
var bands = []struct {
	minHours   float64
	percentage int
}{
	{24, 100},
	{12, 80},
	{4, 50},
	{2, 0},
}

// Evaluate maps hours-until-start onto a refund band.
func Evaluate(now, sessionStart time.Time) Band {
	hoursUntil := sessionStart.Sub(now).Hours()

	for _, b := range bands {
		if hoursUntil >= b.minHours {
			return Band{Percentage: b.percentage, CanCancel: true}
		}
	}

	return Band{Percentage: 0, CanCancel: false}
}

// Apply splits the refund across the token and cash legs of the original
// payment. Both legs round down.
func Apply(tokens int, cashCents int64, percentage int) (refundTokens int, refundCashCents int64) {
	if percentage <= 0 {
		return 0, 0
	}

	pct := decimal.NewFromInt(int64(percentage)).Div(decimal.NewFromInt(100))

	refundTokens = int(decimal.NewFromInt(int64(tokens)).Mul(pct).Floor().IntPart())
	refundCashCents = decimal.NewFromInt(cashCents).Mul(pct).Floor().IntPart()
	return refundTokens, refundCashCents
}
