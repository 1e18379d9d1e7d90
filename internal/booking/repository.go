package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/tokens"
	"github.com/Aaron1234413/rallylife-ace-arena-sub001/internal/wallet"
)

var ErrReservationNotFound = errors.New("reservation not found")

// bookingLockClass namespaces the advisory locks so they cannot collide with
// other advisory users of the same database.
const bookingLockClass = 7431

type repository struct {
	db         *sqlx.DB
	tokenRepo  tokens.Repository
	walletRepo wallet.Repository
}

func NewRepository(db *sqlx.DB, tokenRepo tokens.Repository, walletRepo wallet.Repository) Repository {
	return &repository{db: db, tokenRepo: tokenRepo, walletRepo: walletRepo}
}

// dateLockKey folds (resource, date) into the advisory lock keyspace.
func dateLockKey(resourceID int, date time.Time) int32 {
	days := int32(date.Unix() / 86400)
	return int32(resourceID)*512 + days%512
}

func (r *repository) CreateAtomic(ctx context.Context, res *Reservation) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Locks taken in resource-id order so concurrent session bookings over
	// the same pair cannot deadlock.
	ids := append([]int(nil), res.ResourceIDs...)
	sort.Ints(ids)
	for _, resourceID := range ids {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`,
			bookingLockClass, dateLockKey(resourceID, res.Date)); err != nil {
			return nil, fmt.Errorf("failed to take slot lock: %w", err)
		}
	}

	for _, resourceID := range ids {
		windows, err := r.windowsTx(ctx, tx, resourceID, res.Date)
		if err != nil {
			return nil, err
		}
		if HasConflict(res.StartMin, res.EndMin, windows, 0) {
			return nil, ErrConflict
		}
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO reservations (club_id, player_id, date, start_min, end_min, status, payment_method, tokens_used, cash_cents)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7, $8)
		RETURNING id, club_id, player_id, date, start_min, end_min, status, payment_method, tokens_used, cash_cents, created_at, updated_at
	`, res.ClubID, res.PlayerID, res.Date, res.StartMin, res.EndMin,
		res.PaymentMethod, res.TokensUsed, res.CashCents).StructScan(res)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reservation: %w", err)
	}

	for _, resourceID := range ids {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reservation_resources (reservation_id, resource_id)
			VALUES ($1, $2)`, res.ID, resourceID); err != nil {
			return nil, fmt.Errorf("failed to link resource: %w", err)
		}
	}
	res.ResourceIDs = ids

	return res, tx.Commit()
}

func (r *repository) ConfirmPending(ctx context.Context, id int, month string) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var res Reservation
	err = tx.GetContext(ctx, &res, `SELECT * FROM reservations WHERE id = $1 FOR UPDATE`, id)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}

	if res.Status == StatusConfirmed {
		if err := r.loadResources(ctx, tx, &res); err != nil {
			return nil, err
		}
		return &res, tx.Commit()
	}
	if res.Status == StatusCancelled {
		return nil, ErrNotCancellable
	}

	if err := r.loadResources(ctx, tx, &res); err != nil {
		return nil, err
	}
	for _, resourceID := range res.ResourceIDs {
		windows, err := r.windowsTx(ctx, tx, resourceID, res.Date)
		if err != nil {
			return nil, err
		}
		if HasConflict(res.StartMin, res.EndMin, windows, res.ID) {
			return nil, ErrConflict
		}
	}

	if res.TokensUsed > 0 {
		reason := fmt.Sprintf("booking:%d", res.ID)
		if _, err := r.tokenRepo.DebitTx(ctx, tx, res.ClubID, month, res.TokensUsed, reason); err != nil {
			return nil, err
		}
	}
	if res.CashCents > 0 {
		if _, err := r.walletRepo.AddTransactionTx(tx, res.PlayerID, -res.CashCents, wallet.TxTypeBookingCharge); err != nil {
			return nil, err
		}
	}

	err = tx.GetContext(ctx, &res, `
		UPDATE reservations SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1
		RETURNING id, club_id, player_id, date, start_min, end_min, status, payment_method, tokens_used, cash_cents, created_at, updated_at
	`, res.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	if err := r.loadResources(ctx, tx, &res); err != nil {
		return nil, err
	}

	return &res, tx.Commit()
}

func (r *repository) CancelWithRefund(ctx context.Context, res *Reservation, month string, refundTokens int, refundCashCents int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE reservations SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')`, res.ID)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotCancellable
	}

	if refundTokens > 0 {
		reason := fmt.Sprintf("booking_refund:%d", res.ID)
		if _, err := r.tokenRepo.CreditTx(ctx, tx, res.ClubID, month, refundTokens, reason); err != nil {
			return err
		}
	}
	if refundCashCents > 0 {
		if _, err := r.walletRepo.AddTransactionTx(tx, res.PlayerID, refundCashCents, wallet.TxTypeBookingRefund); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res, `SELECT * FROM reservations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if err := r.loadResources(ctx, r.db, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) GetWindowsForResourceDate(ctx context.Context, resourceID int, date time.Time) ([]ReservationWindow, error) {
	return r.windowsTx(ctx, r.db, resourceID, date)
}

func (r *repository) GetUserReservations(ctx context.Context, playerID int) ([]Reservation, error) {
	var out []Reservation
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM reservations
		WHERE player_id = $1
		ORDER BY date DESC, start_min DESC`, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	for i := range out {
		if err := r.loadResources(ctx, r.db, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *repository) GetClubReservations(ctx context.Context, clubID int, date *time.Time) ([]Reservation, error) {
	query := `SELECT * FROM reservations WHERE club_id = $1`
	args := []interface{}{clubID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY date DESC, start_min ASC`

	var out []Reservation
	err := r.db.SelectContext(ctx, &out, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list club reservations: %w", err)
	}
	for i := range out {
		if err := r.loadResources(ctx, r.db, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// queryer lets the same helpers run against the pool or an open transaction.
type queryer interface {
	sqlx.QueryerContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (r *repository) windowsTx(ctx context.Context, q queryer, resourceID int, date time.Time) ([]ReservationWindow, error) {
	var windows []ReservationWindow
	err := q.SelectContext(ctx, &windows, `
		SELECT res.id AS reservation_id, res.start_min, res.end_min, res.status
		FROM reservations res
		JOIN reservation_resources rr ON rr.reservation_id = res.id
		WHERE rr.resource_id = $1 AND res.date = $2 AND res.status IN ('pending', 'confirmed')
		ORDER BY res.start_min`, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation windows: %w", err)
	}
	return windows, nil
}

func (r *repository) loadResources(ctx context.Context, q queryer, res *Reservation) error {
	err := q.SelectContext(ctx, &res.ResourceIDs, `
		SELECT resource_id FROM reservation_resources
		WHERE reservation_id = $1
		ORDER BY resource_id`, res.ID)
	if err != nil {
		return fmt.Errorf("failed to load reservation resources: %w", err)
	}
	return nil
}
