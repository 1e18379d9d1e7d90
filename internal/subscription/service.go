package subscription

import (
	"context"
	"errors"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/metrics"
)

var ErrUnknownTier = errors.New("unknown subscription tier")

type Service interface {
	Subscribe(ctx context.Context, clubID int, tier Tier) (*ClubSubscription, error)
	// CurrentTier returns the club's active tier spec. A club with no
	// active subscription gets a zero-allocation spec: pools can still
	// hold purchased tokens.
	CurrentTier(ctx context.Context, clubID int) TierSpec
	Cancel(ctx context.Context, id int) error
	ListByClub(ctx context.Context, clubID int) ([]*ClubSubscription, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Subscribe(ctx context.Context, clubID int, tier Tier) (*ClubSubscription, error) {
	spec, ok := PlanFor(tier)
	if !ok {
		return nil, ErrUnknownTier
	}

	sub, err := s.repo.CreateSubscription(ctx, clubID, spec)
	if err != nil {
		return nil, err
	}
	metrics.RecordSubscription(string(tier))
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, id int) error {
	return s.repo.CancelSubscription(ctx, id)
}

func (s *service) CurrentTier(ctx context.Context, clubID int) TierSpec {
	sub, err := s.repo.GetActiveForClub(ctx, clubID)
	if err != nil || sub.Status != StatusActive {
		return TierSpec{Tier: "none", Name: "No subscription"}
	}

	return TierSpec{
		Tier:           sub.Tier,
		MonthlyTokens:  sub.MonthlyTokens,
		RolloverCap:    sub.RolloverCap,
		OverdraftLimit: sub.OverdraftLimit,
		PriceCents:     sub.PriceCents,
	}
}

func (s *service) ListByClub(ctx context.Context, clubID int) ([]*ClubSubscription, error) {
	return s.repo.ListByClub(ctx, clubID)
}
