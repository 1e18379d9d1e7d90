package subscription

import "context"

type Repository interface {
	CreateSubscription(ctx context.Context, clubID int, spec TierSpec) (*ClubSubscription, error)
	GetActiveForClub(ctx context.Context, clubID int) (*ClubSubscription, error)
	CancelSubscription(ctx context.Context, id int) error
	ListByClub(ctx context.Context, clubID int) ([]*ClubSubscription, error)
}
