package tokens

import "time"

// TokenPool — общий месячный бюджет токенов клуба.
// One row per (club, month). Invariant:
// used <= allocated + rollover_in + purchased + overdraft_limit.
type TokenPool struct {
	ID             int       `db:"id" json:"id"`
	ClubID         int       `db:"club_id" json:"club_id"`
	Month          string    `db:"month" json:"month"` // "2006-01"
	Allocated      int       `db:"allocated" json:"allocated"`
	Used           int       `db:"used" json:"used"`
	Purchased      int       `db:"purchased" json:"purchased"`
	RolloverIn     int       `db:"rollover_in" json:"rollover_in"`
	OverdraftUsed  int       `db:"overdraft_used" json:"overdraft_used"`
	OverdraftLimit int       `db:"overdraft_limit" json:"overdraft_limit"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Available may be negative, but never below -OverdraftLimit.
func (p *TokenPool) Available() int {
	return p.Allocated + p.RolloverIn + p.Purchased - p.Used
}

// CanDebit reports whether a debit of tokens stays within the overdraft.
func (p *TokenPool) CanDebit(tokens int) bool {
	return p.Available()-tokens >= -p.OverdraftLimit
}

// applyDebit consumes tokens. Callers must have admission-checked the
// amount with CanDebit first.
func (p *TokenPool) applyDebit(tokens int) {
	p.Used += tokens
	p.syncOverdraft()
}

// applyCredit returns tokens; overdraft unwinds before the balance goes
// positive, and Used never goes negative.
func (p *TokenPool) applyCredit(tokens int) {
	p.Used -= tokens
	if p.Used < 0 {
		p.Used = 0
	}
	p.syncOverdraft()
}

func (p *TokenPool) applyPurchase(tokens int) {
	p.Purchased += tokens
	p.syncOverdraft()
}

// syncOverdraft re-derives the overdraft counter from the balance.
func (p *TokenPool) syncOverdraft() {
	p.OverdraftUsed = 0
	if over := -p.Available(); over > 0 {
		p.OverdraftUsed = over
	}
}

type Transaction struct {
	ID           int       `db:"id" json:"id"`
	PoolID       int       `db:"pool_id" json:"pool_id"`
	Amount       int       `db:"amount" json:"amount"`
	Type         string    `db:"type" json:"type"` // debit, credit, purchase
	Reason       string    `db:"reason" json:"reason"`
	BalanceAfter int       `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MonthKey formats the pool month for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PrevMonthKey returns the month preceding the given "2006-01" key.
func PrevMonthKey(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}
