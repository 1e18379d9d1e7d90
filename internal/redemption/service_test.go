package redemption

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"pgregory.net/rapid"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/logger"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/payment"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/user"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type MockRedemptionRepo struct{ mock.Mock }
type MockTokenService struct{ mock.Mock }
type MockUserRepo struct{ mock.Mock }

func (m *MockRedemptionRepo) CreateWithDebit(ctx context.Context, r *Redemption, month string) (*Redemption, error) {
	args := m.Called(ctx, r, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Redemption), args.Error(1)
}

func (m *MockRedemptionRepo) GetByClub(ctx context.Context, clubID int, limit, offset int) ([]Redemption, error) {
	args := m.Called(ctx, clubID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Redemption), args.Error(1)
}

func (m *MockTokenService) EnsurePool(ctx context.Context, clubID int, month string) (*tokens.TokenPool, error) {
	args := m.Called(ctx, clubID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokens.TokenPool), args.Error(1)
}

func (m *MockTokenService) GetPool(ctx context.Context, clubID int, month string) (*tokens.TokenPool, error) {
	args := m.Called(ctx, clubID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokens.TokenPool), args.Error(1)
}

func (m *MockTokenService) CheckAvailability(ctx context.Context, clubID int, month string, amount int) (bool, error) {
	args := m.Called(ctx, clubID, month, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenService) Debit(ctx context.Context, clubID int, month string, amount int, reason string) (*tokens.TokenPool, error) {
	args := m.Called(ctx, clubID, month, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokens.TokenPool), args.Error(1)
}

func (m *MockTokenService) Credit(ctx context.Context, clubID int, month string, amount int, reason string) (*tokens.TokenPool, error) {
	args := m.Called(ctx, clubID, month, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokens.TokenPool), args.Error(1)
}

func (m *MockTokenService) Purchase(ctx context.Context, clubID int, month string, amount int) (*tokens.TokenPool, error) {
	args := m.Called(ctx, clubID, month, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokens.TokenPool), args.Error(1)
}

func (m *MockTokenService) GetTransactions(ctx context.Context, clubID int, month string, limit, offset int) ([]tokens.Transaction, error) {
	args := m.Called(ctx, clubID, month, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tokens.Transaction), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type stubNotifier struct{ receipts int }

func (s *stubNotifier) SendRedemptionReceipt(ctx context.Context, to, name, category string, tokensUsed int, cashCents int64) {
	s.receipts++
}

var tokenRate = decimal.NewFromFloat(0.007)

func newTestService(repo *MockRedemptionRepo, tokenSvc *MockTokenService, userRepo *MockUserRepo, notifier *stubNotifier) *service {
	svc := NewService(repo, tokenSvc, userRepo, notifier, tokenRate).(*service)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCalculate_CoachingLessonCap(t *testing.T) {
	svc := newTestService(new(MockRedemptionRepo), new(MockTokenService), new(MockUserRepo), &stubNotifier{})

	// $100 lesson at the 25% coaching cap: at most $25 worth of tokens.
	split, err := svc.Calculate(CategoryCoachingLesson, 10000, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3571, split.TokensToUse)
	assert.Equal(t, int64(2499), split.TokenValueCents)
	assert.Equal(t, int64(7501), split.CashCents)
	assert.LessOrEqual(t, split.RedemptionPct, 25.0)
}

func TestCalculate_RequestedBelowCap(t *testing.T) {
	svc := newTestService(new(MockRedemptionRepo), new(MockTokenService), new(MockUserRepo), &stubNotifier{})

	requested := 1000
	split, err := svc.Calculate(CategoryCoachingLesson, 10000, &requested)
	assert.NoError(t, err)
	assert.Equal(t, 1000, split.TokensToUse)
	assert.Equal(t, int64(700), split.TokenValueCents)
	assert.Equal(t, int64(9300), split.CashCents)
}

func TestCalculate_UnknownCategory(t *testing.T) {
	svc := newTestService(new(MockRedemptionRepo), new(MockTokenService), new(MockUserRepo), &stubNotifier{})

	_, err := svc.Calculate(Category("spa_day"), 10000, nil)
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestCalculate_CapProperty(t *testing.T) {
	svc := newTestService(new(MockRedemptionRepo), new(MockTokenService), new(MockUserRepo), &stubNotifier{})

	categories := []Category{
		CategoryCourtBooking, CategoryCoachingLesson, CategoryGroupClinic,
		CategoryEquipmentRental, CategoryProShop,
	}

	rapid.Check(t, func(t *rapid.T) {
		category := categories[rapid.IntRange(0, len(categories)-1).Draw(t, "cat")]
		value := rapid.Int64Range(100, 100000).Draw(t, "value")

		split, err := svc.Calculate(category, value, nil)
		if err != nil {
			t.Fatalf("calculate failed: %v", err)
		}

		policy, _ := PolicyFor(category)
		capCents := value * int64(policy.MaxRedemptionPct) / 100
		if split.TokenValueCents > capCents {
			t.Fatalf("token value %d exceeds %d%% cap %d of %d",
				split.TokenValueCents, policy.MaxRedemptionPct, capCents, value)
		}
		if split.TokenValueCents+split.CashCents != value {
			t.Fatalf("split legs %d+%d do not cover value %d",
				split.TokenValueCents, split.CashCents, value)
		}
		if recomputed := payment.TokenValueCents(split.TokensToUse, tokenRate); recomputed != split.TokenValueCents {
			t.Fatalf("token value %d inconsistent with token count %d (%d)",
				split.TokenValueCents, split.TokensToUse, recomputed)
		}
	})
}

func TestValidate_TimeRestriction(t *testing.T) {
	tokenSvc := new(MockTokenService)
	tokenSvc.On("CheckAvailability", mock.Anything, 1, "2026-09", mock.Anything).Return(true, nil)

	svc := newTestService(new(MockRedemptionRepo), tokenSvc, new(MockUserRepo), &stubNotifier{})

	saturday := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	weekdayEvening := time.Date(2026, 9, 2, 21, 0, 0, 0, time.UTC)
	weekdayNoon := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	err := svc.Validate(context.Background(), 1, CategoryGroupClinic, 5000, 100, &saturday)
	assert.ErrorIs(t, err, ErrTimeRestricted)

	err = svc.Validate(context.Background(), 1, CategoryGroupClinic, 5000, 100, &weekdayEvening)
	assert.ErrorIs(t, err, ErrTimeRestricted)

	err = svc.Validate(context.Background(), 1, CategoryGroupClinic, 5000, 100, &weekdayNoon)
	assert.NoError(t, err)
}

func TestValidate_InsufficientTokens(t *testing.T) {
	tokenSvc := new(MockTokenService)
	tokenSvc.On("CheckAvailability", mock.Anything, 1, "2026-09", 100).Return(false, nil)

	svc := newTestService(new(MockRedemptionRepo), tokenSvc, new(MockUserRepo), &stubNotifier{})

	err := svc.Validate(context.Background(), 1, CategoryCourtBooking, 5000, 100, nil)
	assert.ErrorIs(t, err, ErrInsufficientTokens)
}

func TestValidate_LimitExceeded(t *testing.T) {
	tokenSvc := new(MockTokenService)
	tokenSvc.On("CheckAvailability", mock.Anything, 1, "2026-09", mock.Anything).Return(true, nil)

	svc := newTestService(new(MockRedemptionRepo), tokenSvc, new(MockUserRepo), &stubNotifier{})

	// 2000 tokens at $0.007 is $14.00, over 20% of a $50.00 pro shop basket.
	err := svc.Validate(context.Background(), 1, CategoryProShop, 5000, 2000, nil)
	assert.ErrorIs(t, err, ErrRedemptionLimitExceeded)
}

func TestExecute_SendsReceipt(t *testing.T) {
	repo := new(MockRedemptionRepo)
	tokenSvc := new(MockTokenService)
	userRepo := new(MockUserRepo)
	notifier := &stubNotifier{}

	tokenSvc.On("CheckAvailability", mock.Anything, 1, "2026-09", mock.Anything).Return(true, nil)
	repo.On("CreateWithDebit", mock.Anything, mock.MatchedBy(func(r *Redemption) bool {
		return r.ClubID == 1 && r.PlayerID == 7 && r.Category == CategoryProShop
	}), "2026-09").Return(&Redemption{
		ID: 3, ClubID: 1, PlayerID: 7, Category: CategoryProShop,
		TotalValueCents: 5000, TokensUsed: 1000, CashCents: 4300,
	}, nil)
	userRepo.On("FindByID", mock.Anything, 7).Return(&user.User{ID: 7, Name: "Serena", Email: "s@example.com"}, nil)

	svc := newTestService(repo, tokenSvc, userRepo, notifier)

	red, err := svc.Execute(context.Background(), 1, 7, CategoryProShop, 5000, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, red.ID)
	assert.Equal(t, 1, notifier.receipts)
	repo.AssertExpectations(t)
}

func TestExecute_RacingDebitLosesCleanly(t *testing.T) {
	repo := new(MockRedemptionRepo)
	tokenSvc := new(MockTokenService)

	tokenSvc.On("CheckAvailability", mock.Anything, 1, "2026-09", mock.Anything).Return(true, nil)
	repo.On("CreateWithDebit", mock.Anything, mock.Anything, "2026-09").
		Return(nil, tokens.ErrInsufficientTokens)

	svc := newTestService(repo, tokenSvc, new(MockUserRepo), &stubNotifier{})

	_, err := svc.Execute(context.Background(), 1, 7, CategoryProShop, 5000, nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientTokens)
}
