package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/logger"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/metrics"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/subscription"
)

var (
	ErrPoolReadOnly    = errors.New("token pool for an elapsed month is read-only")
	ErrInvalidTokens   = errors.New("token amount must be positive")
	ErrInvalidMonthKey = errors.New("month must be in YYYY-MM form")
)

// TierSource supplies the club's current tier; satisfied by
// subscription.Service.
type TierSource interface {
	CurrentTier(ctx context.Context, clubID int) subscription.TierSpec
}

type Service interface {
	// EnsurePool lazily creates the (club, month) pool, carrying forward
	// min(previous available, tier rollover cap) and snapshotting the
	// tier's allocation and overdraft limit.
	EnsurePool(ctx context.Context, clubID int, month string) (*TokenPool, error)
	GetPool(ctx context.Context, clubID int, month string) (*TokenPool, error)
	CheckAvailability(ctx context.Context, clubID int, month string, tokens int) (bool, error)
	Debit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error)
	Credit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error)
	Purchase(ctx context.Context, clubID int, month string, tokens int) (*TokenPool, error)
	GetTransactions(ctx context.Context, clubID int, month string, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo  Repository
	tiers TierSource
	now   func() time.Time
}

func NewService(repo Repository, tiers TierSource) Service {
	return &service{
		repo:  repo,
		tiers: tiers,
		now:   time.Now,
	}
}

func (s *service) EnsurePool(ctx context.Context, clubID int, month string) (*TokenPool, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonthKey
	}

	pool, err := s.repo.GetPool(ctx, clubID, month)
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, ErrPoolNotFound) {
		return nil, err
	}

	tier := s.tiers.CurrentTier(ctx, clubID)

	rolloverIn := 0
	if tier.RolloverCap > 0 {
		prevMonth, err := PrevMonthKey(month)
		if err != nil {
			return nil, err
		}
		prev, err := s.repo.GetPool(ctx, clubID, prevMonth)
		switch {
		case err == nil:
			rolloverIn = prev.Available()
			if rolloverIn > tier.RolloverCap {
				rolloverIn = tier.RolloverCap
			}
			if rolloverIn < 0 {
				rolloverIn = 0
			}
		case !errors.Is(err, ErrPoolNotFound):
			// a no-rollover pool must not be created on a storage fault
			return nil, err
		}
	}

	logger.Info("creating token pool",
		"club_id", clubID, "month", month,
		"allocated", tier.MonthlyTokens, "rollover_in", rolloverIn)

	return s.repo.CreatePool(ctx, clubID, month, tier.MonthlyTokens, rolloverIn, tier.OverdraftLimit)
}

func (s *service) GetPool(ctx context.Context, clubID int, month string) (*TokenPool, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonthKey
	}
	// Elapsed months are read-only: a pool that never materialized must
	// not be created retroactively with the current tier's numbers.
	if s.historical(month) {
		return s.repo.GetPool(ctx, clubID, month)
	}
	return s.EnsurePool(ctx, clubID, month)
}

func (s *service) CheckAvailability(ctx context.Context, clubID int, month string, tokens int) (bool, error) {
	pool, err := s.EnsurePool(ctx, clubID, month)
	if err != nil {
		return false, err
	}
	return pool.CanDebit(tokens), nil
}

// historical reports whether the month has fully elapsed.
func (s *service) historical(month string) bool {
	return month < MonthKey(s.now())
}

func (s *service) Debit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	if tokens <= 0 {
		return nil, ErrInvalidTokens
	}
	if s.historical(month) {
		return nil, ErrPoolReadOnly
	}

	if _, err := s.EnsurePool(ctx, clubID, month); err != nil {
		return nil, err
	}

	pool, err := s.repo.Debit(ctx, clubID, month, tokens, reason)
	if err != nil {
		if errors.Is(err, ErrInsufficientTokens) {
			metrics.RecordTokenDebit("insufficient")
		}
		return nil, err
	}

	metrics.RecordTokenDebit("ok")
	return pool, nil
}

func (s *service) Credit(ctx context.Context, clubID int, month string, tokens int, reason string) (*TokenPool, error) {
	if tokens <= 0 {
		return nil, ErrInvalidTokens
	}
	if s.historical(month) {
		return nil, ErrPoolReadOnly
	}

	if _, err := s.EnsurePool(ctx, clubID, month); err != nil {
		return nil, err
	}

	return s.repo.Credit(ctx, clubID, month, tokens, reason)
}

func (s *service) Purchase(ctx context.Context, clubID int, month string, tokens int) (*TokenPool, error) {
	if tokens <= 0 {
		return nil, ErrInvalidTokens
	}
	if s.historical(month) {
		return nil, ErrPoolReadOnly
	}

	if _, err := s.EnsurePool(ctx, clubID, month); err != nil {
		return nil, err
	}

	pool, err := s.repo.Purchase(ctx, clubID, month, tokens)
	if err != nil {
		return nil, err
	}

	metrics.RecordTokenPurchase()
	return pool, nil
}

func (s *service) GetTransactions(ctx context.Context, clubID int, month string, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, clubID, month, limit, offset)
}
