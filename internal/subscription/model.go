package subscription

import "time"

type Tier string
type Status string

const (
	TierCommunity  Tier = "community"
	TierCompetitor Tier = "competitor"
	TierChampion   Tier = "champion"

	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusCanceled Status = "cancelled"
)

// ClubSubscription is a club's paid tier for a period. The token pool
// snapshots allocation and overdraft limit from it at pool creation; a
// mid-month tier change does not rewrite existing pools.
type ClubSubscription struct {
	ID             int       `db:"id" json:"id"`
	ClubID         int       `db:"club_id" json:"club_id"`
	Tier           Tier      `db:"tier" json:"tier"`
	Status         Status    `db:"status" json:"status"`
	MonthlyTokens  int       `db:"monthly_tokens" json:"monthly_tokens"`
	RolloverCap    int       `db:"rollover_cap" json:"rollover_cap"`
	OverdraftLimit int       `db:"overdraft_limit" json:"overdraft_limit"`
	PriceCents     int64     `db:"price_cents" json:"price_cents"`
	ValidFrom      time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil     time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TierSpec is the published shape of a tier. Overdraft is tier-supplied
// data, zero for tiers without it.
type TierSpec struct {
	Tier           Tier   `json:"tier"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	MonthlyTokens  int    `json:"monthly_tokens"`
	RolloverCap    int    `json:"rollover_cap"`
	OverdraftLimit int    `json:"overdraft_limit"`
	PriceCents     int64  `json:"price_cents"`
}

func Plans() []TierSpec {
	return []TierSpec{
		{
			Tier:          TierCommunity,
			Name:          "Community",
			Description:   "1000 tokens per month, no rollover",
			MonthlyTokens: 1000,
			PriceCents:    10000,
		},
		{
			Tier:          TierCompetitor,
			Name:          "Competitor",
			Description:   "2500 tokens per month, rollover up to 500",
			MonthlyTokens: 2500,
			RolloverCap:   500,
			PriceCents:    22000,
		},
		{
			Tier:           TierChampion,
			Name:           "Champion",
			Description:    "6000 tokens per month, rollover up to 2000, overdraft up to 500",
			MonthlyTokens:  6000,
			RolloverCap:    2000,
			OverdraftLimit: 500,
			PriceCents:     45000,
		},
	}
}

// PlanFor looks up a tier spec by name.
func PlanFor(tier Tier) (TierSpec, bool) {
	for _, p := range Plans() {
		if p.Tier == tier {
			return p, true
		}
	}
	return TierSpec{}, false
}
