package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/club"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/metrics"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/payment"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/refund"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/schedule"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/user"
)

var (
	ErrConflict         = errors.New("slot already reserved")
	ErrOutOfHours       = errors.New("outside club operating hours")
	ErrInvalidDuration  = errors.New("invalid booking duration")
	ErrInvalidResources = errors.New("invalid resource selection")
	ErrInPast           = errors.New("cannot book a slot in the past")
	ErrNotCancellable   = errors.New("reservation cannot be cancelled")
	ErrStarted          = errors.New("reservation start time has passed")
	ErrTooLateToCancel  = errors.New("too late to cancel")
	ErrUnavailable      = errors.New("booking temporarily unavailable")
	ErrForbidden        = errors.New("not the reservation owner")
)

const createAttempts = 3

// Notifier is the slice of the email service bookings need.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, item, when string)
	SendBookingCancellation(ctx context.Context, to, name, item string, refundTokens int, refundCashCents int64)
}

type Service interface {
	GetAvailableSlots(ctx context.Context, clubID, resourceID int, date string, durationMin int) ([]Slot, error)
	Create(ctx context.Context, playerID int, req CreateReservationRequest) (*Reservation, error)
	Confirm(ctx context.Context, playerID, reservationID int) (*Reservation, error)
	Cancel(ctx context.Context, playerID, reservationID int) (*CancelResult, error)
	GetUserReservations(ctx context.Context, playerID int) ([]Reservation, error)
	GetClubReservations(ctx context.Context, clubID int, date *time.Time) ([]Reservation, error)
}

type service struct {
	repo     Repository
	clubRepo club.Repository
	tokenSvc tokens.Service
	userRepo user.Repository
	notifier Notifier

	tokenRate      decimal.Decimal
	granularityMin int
	stepMin        int

	now   func() time.Time
	sleep func(time.Duration)
}

func NewService(
	repo Repository,
	clubRepo club.Repository,
	tokenSvc tokens.Service,
	userRepo user.Repository,
	notifier Notifier,
	tokenRate decimal.Decimal,
	granularityMin, stepMin int,
) Service {
	return &service{
		repo:           repo,
		clubRepo:       clubRepo,
		tokenSvc:       tokenSvc,
		userRepo:       userRepo,
		notifier:       notifier,
		tokenRate:      tokenRate,
		granularityMin: granularityMin,
		stepMin:        stepMin,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

func (s *service) GetAvailableSlots(ctx context.Context, clubID, resourceID int, date string, durationMin int) ([]Slot, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if durationMin <= 0 || durationMin%s.stepMin != 0 {
		return nil, ErrInvalidDuration
	}

	resource, err := s.clubRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.ClubID != clubID || !resource.Active {
		return nil, ErrInvalidResources
	}

	window, err := s.clubRepo.GetOperatingWindow(ctx, clubID, day.Weekday())
	if err != nil {
		// Closed days simply have no slots.
		if errors.Is(err, club.ErrWindowNotFound) {
			return []Slot{}, nil
		}
		return nil, err
	}

	existing, err := s.repo.GetWindowsForResourceDate(ctx, resourceID, day)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	for _, start := range schedule.CandidateStarts(window.OpenMin, window.CloseMin, s.granularityMin, s.stepMin) {
		free := MaxFreeDuration(start, durationMin, s.stepMin, window.CloseMin, existing)
		if free == 0 {
			continue
		}
		slots = append(slots, Slot{
			StartMin:    start,
			Clock:       schedule.MinutesToClock(start),
			DurationMin: free,
		})
	}
	return slots, nil
}

func (s *service) Create(ctx context.Context, playerID int, req CreateReservationRequest) (*Reservation, error) {
	day, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.DurationMin <= 0 || req.DurationMin%s.stepMin != 0 {
		return nil, ErrInvalidDuration
	}
	if schedule.StartAt(day, req.StartMin).Before(s.now()) {
		return nil, ErrInPast
	}

	resources, err := s.loadResources(ctx, req.ClubID, req.ResourceIDs)
	if err != nil {
		return nil, err
	}

	window, err := s.clubRepo.GetOperatingWindow(ctx, req.ClubID, day.Weekday())
	if err != nil {
		if errors.Is(err, club.ErrWindowNotFound) {
			return nil, ErrOutOfHours
		}
		return nil, err
	}
	if !schedule.FitsWindow(window.OpenMin, window.CloseMin, req.StartMin, req.DurationMin) {
		return nil, ErrOutOfHours
	}
	if (req.StartMin-window.OpenMin)%s.granularityMin != 0 {
		return nil, ErrOutOfHours
	}

	tokensUsed, cashCents, method, err := s.planPayment(ctx, req, resources)
	if err != nil {
		return nil, err
	}

	res := &Reservation{
		ClubID:        req.ClubID,
		PlayerID:      playerID,
		Date:          day,
		StartMin:      req.StartMin,
		EndMin:        req.StartMin + req.DurationMin,
		PaymentMethod: method,
		TokensUsed:    tokensUsed,
		CashCents:     cashCents,
		ResourceIDs:   req.ResourceIDs,
	}

	for attempt := 1; ; attempt++ {
		created, err := s.repo.CreateAtomic(ctx, res)
		if err == nil {
			metrics.RecordBooking(string(created.Status), created.PaymentMethod)
			return created, nil
		}
		if errors.Is(err, ErrConflict) {
			metrics.RecordBookingConflict()
			return nil, ErrConflict
		}
		if !transient(err) || attempt == createAttempts {
			if transient(err) {
				return nil, ErrUnavailable
			}
			return nil, err
		}
		s.sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
}

func (s *service) Confirm(ctx context.Context, playerID, reservationID int) (*Reservation, error) {
	existing, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if existing.PlayerID != playerID {
		return nil, ErrForbidden
	}
	wasPending := existing.Status == StatusPending

	// A pending hold for an elapsed start must never settle its payment
	// legs. Already-confirmed reservations still return unchanged.
	if wasPending && !schedule.StartAt(existing.Date, existing.StartMin).After(s.now()) {
		return nil, ErrStarted
	}

	month := tokens.MonthKey(existing.Date)
	var confirmed *Reservation
	for attempt := 1; ; attempt++ {
		confirmed, err = s.repo.ConfirmPending(ctx, reservationID, month)
		if err == nil {
			break
		}
		if !transient(err) || attempt == createAttempts {
			if transient(err) {
				return nil, ErrUnavailable
			}
			return nil, err
		}
		s.sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}

	if wasPending {
		metrics.RecordBooking(string(confirmed.Status), confirmed.PaymentMethod)
		s.notifyConfirmed(ctx, confirmed)
	}
	return confirmed, nil
}

func (s *service) Cancel(ctx context.Context, playerID, reservationID int) (*CancelResult, error) {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.PlayerID != playerID {
		return nil, ErrForbidden
	}
	if res.Status == StatusCancelled {
		return nil, ErrNotCancellable
	}

	start := schedule.StartAt(res.Date, res.StartMin)
	now := s.now()
	if !start.After(now) {
		return nil, ErrNotCancellable
	}

	band := refund.Evaluate(now, start)
	if !band.CanCancel {
		return nil, ErrTooLateToCancel
	}

	// Pending reservations were never charged, so there is nothing to refund.
	refundTokens, refundCash := 0, int64(0)
	if res.Status == StatusConfirmed {
		refundTokens, refundCash = refund.Apply(res.TokensUsed, res.CashCents, band.Percentage)
	}

	month := tokens.MonthKey(res.Date)
	if err := s.repo.CancelWithRefund(ctx, res, month, refundTokens, refundCash); err != nil {
		return nil, err
	}
	metrics.RecordBookingCancellation()

	if s.notifier != nil {
		if owner, err := s.userRepo.FindByID(ctx, res.PlayerID); err == nil {
			s.notifier.SendBookingCancellation(ctx, owner.Email, owner.Name,
				fmt.Sprintf("%s %s", res.Date.Format("Jan 2, 2006"), schedule.MinutesToClock(res.StartMin)),
				refundTokens, refundCash)
		}
	}

	return &CancelResult{
		ReservationID:   res.ID,
		RefundTokens:    refundTokens,
		RefundCashCents: refundCash,
		Percentage:      band.Percentage,
	}, nil
}

func (s *service) GetUserReservations(ctx context.Context, playerID int) ([]Reservation, error) {
	return s.repo.GetUserReservations(ctx, playerID)
}

func (s *service) GetClubReservations(ctx context.Context, clubID int, date *time.Time) ([]Reservation, error) {
	return s.repo.GetClubReservations(ctx, clubID, date)
}

// loadResources checks that the requested resources form a bookable unit:
// every resource belongs to the club and is active, and a two-resource
// session is exactly one court plus one coach.
func (s *service) loadResources(ctx context.Context, clubID int, resourceIDs []int) ([]club.Resource, error) {
	if len(resourceIDs) < 1 || len(resourceIDs) > 2 {
		return nil, ErrInvalidResources
	}
	if len(resourceIDs) == 2 && resourceIDs[0] == resourceIDs[1] {
		return nil, ErrInvalidResources
	}

	out := make([]club.Resource, 0, len(resourceIDs))
	categories := map[club.ResourceCategory]int{}
	for _, id := range resourceIDs {
		resource, err := s.clubRepo.GetResourceByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if resource.ClubID != clubID || !resource.Active {
			return nil, ErrInvalidResources
		}
		categories[resource.Category]++
		out = append(out, *resource)
	}
	if categories[club.CategoryCourt] > 1 || categories[club.CategoryCoach] > 1 {
		return nil, ErrInvalidResources
	}
	return out, nil
}

// planPayment prices the reservation from the resources' hourly rates and
// picks the token/cash split. The split is a plan only; balances are checked
// and debited at confirm time.
func (s *service) planPayment(ctx context.Context, req CreateReservationRequest, resources []club.Resource) (int, int64, string, error) {
	var tokenRate int
	var cashRate int64
	for _, resource := range resources {
		tokenRate += resource.HourlyTokenRate
		cashRate += resource.HourlyCashCents
	}
	costTokens := ceilDiv(tokenRate*req.DurationMin, 60)
	costCash := ceilDiv64(cashRate*int64(req.DurationMin), 60)

	pool, err := s.tokenSvc.EnsurePool(ctx, req.ClubID, tokens.MonthKey(mustDate(req.Date)))
	if err != nil {
		return 0, 0, "", err
	}
	spendable := pool.Available() + pool.OverdraftLimit
	if spendable < 0 {
		spendable = 0
	}

	quote := payment.BuildQuote(costTokens, &costCash, spendable, s.tokenRate)
	option := quote.Best
	if req.PaymentMethod != "" {
		for _, o := range quote.Options {
			if o.Method == payment.Method(req.PaymentMethod) {
				option = o
				break
			}
		}
	}
	return option.Tokens, option.CashCents, string(option.Method), nil
}

func (s *service) notifyConfirmed(ctx context.Context, res *Reservation) {
	if s.notifier == nil {
		return
	}
	owner, err := s.userRepo.FindByID(ctx, res.PlayerID)
	if err != nil {
		return
	}
	s.notifier.SendBookingConfirmation(ctx, owner.Email, owner.Name, "Court reservation",
		fmt.Sprintf("%s %s", res.Date.Format("Jan 2, 2006"), schedule.MinutesToClock(res.StartMin)))
}

// transient reports whether a Postgres failure is worth retrying:
// serialization failures, deadlocks and lock timeouts.
func transient(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	}
	return false
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilDiv64(a, b int64) int64 {
	return (a + b - 1) / b
}

func mustDate(s string) time.Time {
	t, _ := schedule.ParseDate(s)
	return t
}
