package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrSubscriptionNotFoundOrInactive = errors.New("subscription not found or not active")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSubscription(ctx context.Context, clubID int, spec TierSpec) (*ClubSubscription, error) {
	now := time.Now()
	validUntil := now.AddDate(0, 1, 0)

	sub := &ClubSubscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO club_subscriptions (club_id, tier, status, monthly_tokens, rollover_cap, overdraft_limit, price_cents, valid_from, valid_until)
		VALUES ($1, $2, 'active', $3, $4, $5, $6, $7, $8)
		RETURNING id, club_id, tier, status, monthly_tokens, rollover_cap, overdraft_limit, price_cents, valid_from, valid_until, created_at, updated_at
	`, clubID, spec.Tier, spec.MonthlyTokens, spec.RolloverCap, spec.OverdraftLimit, spec.PriceCents, now, validUntil).StructScan(sub)

	return sub, err
}

func (r *repository) GetActiveForClub(ctx context.Context, clubID int) (*ClubSubscription, error) {
	sub := &ClubSubscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT *
		FROM club_subscriptions
		WHERE club_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		ORDER BY price_cents DESC
		LIMIT 1
	`, clubID)

	return sub, err
}

func (r *repository) CancelSubscription(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE club_subscriptions
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSubscriptionNotFoundOrInactive
	}

	return nil
}

func (r *repository) ListByClub(ctx context.Context, clubID int) ([]*ClubSubscription, error) {
	subs := []*ClubSubscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT *
		FROM club_subscriptions
		WHERE club_id = $1
		ORDER BY created_at DESC
	`, clubID)
	return subs, err
}
