package redemption

import "context"

type Repository interface {
	// CreateWithDebit debits the club's token pool and appends the
	// redemption record in one transaction; neither applies alone.
	CreateWithDebit(ctx context.Context, r *Redemption, month string) (*Redemption, error)
	GetByClub(ctx context.Context, clubID int, limit, offset int) ([]Redemption, error)
}
