package redemption

import "time"

// Redemption is an immutable audit record of one token-for-service
// exchange, created atomically with the pool debit.
type Redemption struct {
	ID              int       `db:"id" json:"id"`
	ClubID          int       `db:"club_id" json:"club_id"`
	PlayerID        int       `db:"player_id" json:"player_id"`
	Category        Category  `db:"category" json:"category"`
	TotalValueCents int64     `db:"total_value_cents" json:"total_value_cents"`
	TokensUsed      int       `db:"tokens_used" json:"tokens_used"`
	CashCents       int64     `db:"cash_cents" json:"cash_cents"`
	RedemptionPct   float64   `db:"redemption_pct" json:"redemption_pct"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Split is the computed token/cash division for a priced service.
type Split struct {
	TokensToUse     int     `json:"tokens_to_use"`
	TokenValueCents int64   `json:"token_value_cents"`
	CashCents       int64   `json:"cash_cents"`
	RedemptionPct   float64 `json:"redemption_pct"`
}

type RedeemRequest struct {
	ClubID          int    `json:"club_id" binding:"required"`
	Category        string `json:"category" binding:"required"`
	TotalValueCents int64  `json:"total_value_cents" binding:"required,min=1"`
	TokensRequested *int   `json:"tokens_requested,omitempty"`
	ScheduledAt     string `json:"scheduled_at,omitempty"` // RFC3339
}
