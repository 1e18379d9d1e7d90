package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func bandAt(t *testing.T, hoursUntil float64) Band {
	t.Helper()
	now := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	start := now.Add(time.Duration(hoursUntil * float64(time.Hour)))
	return Evaluate(now, start)
}

func TestEvaluateBands(t *testing.T) {
	tests := []struct {
		name       string
		hoursUntil float64
		percentage int
		canCancel  bool
	}{
		{"30h ahead refunds 100%", 30, 100, true},
		{"exactly 24h refunds 100%", 24, 100, true},
		{"15h ahead refunds 80%", 15, 80, true},
		{"exactly 12h refunds 80%", 12, 80, true},
		{"6h ahead refunds 50%", 6, 50, true},
		{"exactly 4h refunds 50%", 4, 50, true},
		{"3h ahead cancels with no refund", 3, 0, true},
		{"exactly 2h cancels with no refund", 2, 0, true},
		{"1h ahead cannot cancel", 1, 0, false},
		{"session already started cannot cancel", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := bandAt(t, tt.hoursUntil)
			assert.Equal(t, tt.percentage, band.Percentage)
			assert.Equal(t, tt.canCancel, band.CanCancel)
		})
	}
}

func TestApplyFullRefund(t *testing.T) {
	tokens, cash := Apply(120, 4500, 100)
	assert.Equal(t, 120, tokens)
	assert.Equal(t, int64(4500), cash)
}

func TestApplyPartialRefundFloors(t *testing.T) {
	// 80% of 125 tokens = 100; 80% of 1001 cents = 800.8 -> 800
	tokens, cash := Apply(125, 1001, 80)
	assert.Equal(t, 100, tokens)
	assert.Equal(t, int64(800), cash)

	// 50% of odd token count rounds down
	tokens, cash = Apply(7, 99, 50)
	assert.Equal(t, 3, tokens)
	assert.Equal(t, int64(49), cash)
}

func TestApplyZeroPercent(t *testing.T) {
	tokens, cash := Apply(100, 5000, 0)
	assert.Equal(t, 0, tokens)
	assert.Equal(t, int64(0), cash)
}
