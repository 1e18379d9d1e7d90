package redemption

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/logger"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/metrics"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/payment"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/user"
)

var (
	ErrUnknownService          = errors.New("unknown service category")
	ErrInsufficientTokens      = errors.New("insufficient tokens for redemption")
	ErrRedemptionLimitExceeded = errors.New("redemption exceeds category limit")
	ErrTimeRestricted          = errors.New("service category not redeemable at this time")
	ErrInvalidValue            = errors.New("service value must be positive")
)

type Service interface {
	// Calculate computes the token/cash split for a priced service,
	// capped by the category policy. requestedTokens nil means "use the
	// maximum allowed".
	Calculate(category Category, totalValueCents int64, requestedTokens *int) (*Split, error)
	Validate(ctx context.Context, clubID int, category Category, totalValueCents int64, tokensToUse int, scheduledAt *time.Time) error
	Execute(ctx context.Context, clubID, playerID int, category Category, totalValueCents int64, requestedTokens *int, scheduledAt *time.Time) (*Redemption, error)
	History(ctx context.Context, clubID int, limit, offset int) ([]Redemption, error)
}

// Notifier is the slice of the email service redemptions need.
type Notifier interface {
	SendRedemptionReceipt(ctx context.Context, to, name, category string, tokensUsed int, cashCents int64)
}

type service struct {
	repo      Repository
	tokenSvc  tokens.Service
	userRepo  user.Repository
	notifier  Notifier
	tokenRate decimal.Decimal
	now       func() time.Time
}

func NewService(repo Repository, tokenSvc tokens.Service, userRepo user.Repository, notifier Notifier, tokenRate decimal.Decimal) Service {
	return &service{
		repo:      repo,
		tokenSvc:  tokenSvc,
		userRepo:  userRepo,
		notifier:  notifier,
		tokenRate: tokenRate,
		now:       time.Now,
	}
}

// maxTokensAllowed = floor(totalValue * maxPct / 100 / tokenRate).
func (s *service) maxTokensAllowed(policy ServicePolicy, totalValueCents int64) int {
	max := decimal.NewFromInt(totalValueCents).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(policy.MaxRedemptionPct))).
		Div(decimal.NewFromInt(100)).
		Div(s.tokenRate).
		Floor()
	return int(max.IntPart())
}

func (s *service) Calculate(category Category, totalValueCents int64, requestedTokens *int) (*Split, error) {
	policy, ok := PolicyFor(category)
	if !ok {
		return nil, ErrUnknownService
	}
	if totalValueCents <= 0 {
		return nil, ErrInvalidValue
	}

	maxTokens := s.maxTokensAllowed(policy, totalValueCents)

	tokensToUse := maxTokens
	if requestedTokens != nil {
		tokensToUse = *requestedTokens
		if tokensToUse > maxTokens {
			tokensToUse = maxTokens
		}
		if tokensToUse < 0 {
			tokensToUse = 0
		}
	}

	tokenValue := payment.TokenValueCents(tokensToUse, s.tokenRate)
	cash := totalValueCents - tokenValue
	if cash < 0 {
		cash = 0
	}

	pct := float64(tokenValue) / float64(totalValueCents) * 100

	return &Split{
		TokensToUse:     tokensToUse,
		TokenValueCents: tokenValue,
		CashCents:       cash,
		RedemptionPct:   pct,
	}, nil
}

func (s *service) Validate(ctx context.Context, clubID int, category Category, totalValueCents int64, tokensToUse int, scheduledAt *time.Time) error {
	policy, ok := PolicyFor(category)
	if !ok {
		return ErrUnknownService
	}
	if totalValueCents <= 0 {
		return ErrInvalidValue
	}

	if tokensToUse > 0 {
		month := tokens.MonthKey(s.now())
		available, err := s.tokenSvc.CheckAvailability(ctx, clubID, month, tokensToUse)
		if err != nil {
			return err
		}
		if !available {
			return ErrInsufficientTokens
		}
	}

	tokenValue := payment.TokenValueCents(tokensToUse, s.tokenRate)
	pct := float64(tokenValue) / float64(totalValueCents) * 100
	if pct > float64(policy.MaxRedemptionPct) {
		return ErrRedemptionLimitExceeded
	}

	if scheduledAt != nil && !policy.AllowsTime(*scheduledAt) {
		return ErrTimeRestricted
	}

	return nil
}

func (s *service) Execute(ctx context.Context, clubID, playerID int, category Category, totalValueCents int64, requestedTokens *int, scheduledAt *time.Time) (*Redemption, error) {
	split, err := s.Calculate(category, totalValueCents, requestedTokens)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(ctx, clubID, category, totalValueCents, split.TokensToUse, scheduledAt); err != nil {
		metrics.RecordRedemption(string(category), "rejected")
		return nil, err
	}

	red := &Redemption{
		ClubID:          clubID,
		PlayerID:        playerID,
		Category:        category,
		TotalValueCents: totalValueCents,
		TokensUsed:      split.TokensToUse,
		CashCents:       split.CashCents,
		RedemptionPct:   split.RedemptionPct,
	}

	month := tokens.MonthKey(s.now())
	red, err = s.repo.CreateWithDebit(ctx, red, month)
	if err != nil {
		// a racing debit can drain the pool between Validate and here
		if errors.Is(err, tokens.ErrInsufficientTokens) {
			metrics.RecordRedemption(string(category), "rejected")
			return nil, ErrInsufficientTokens
		}
		return nil, err
	}

	logger.Info("redemption executed",
		"club_id", clubID, "category", category,
		"tokens", red.TokensUsed, "cash_cents", red.CashCents)
	metrics.RecordRedemption(string(category), "ok")

	if s.notifier != nil {
		if player, err := s.userRepo.FindByID(ctx, playerID); err == nil {
			s.notifier.SendRedemptionReceipt(ctx, player.Email, player.Name,
				string(category), red.TokensUsed, red.CashCents)
		}
	}

	return red, nil
}

func (s *service) History(ctx context.Context, clubID int, limit, offset int) ([]Redemption, error) {
	return s.repo.GetByClub(ctx, clubID, limit, offset)
}
