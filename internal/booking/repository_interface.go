package booking

import (
	"context"
	"time"
)

type Repository interface {
	// CreateAtomic inserts the reservation and its resource rows in one
	// transaction, holding advisory locks per (resource, date) and
	// conflict-checking every resource. Nothing is written on ErrConflict.
	CreateAtomic(ctx context.Context, res *Reservation) (*Reservation, error)

	// ConfirmPending flips pending to confirmed and settles the token and
	// cash legs in the same transaction. Already-confirmed reservations are
	// returned unchanged with no further debits.
	ConfirmPending(ctx context.Context, id int, month string) (*Reservation, error)

	// CancelWithRefund flips the status to cancelled and credits both
	// refund legs atomically.
	CancelWithRefund(ctx context.Context, res *Reservation, month string, refundTokens int, refundCashCents int64) error

	GetByID(ctx context.Context, id int) (*Reservation, error)
	GetWindowsForResourceDate(ctx context.Context, resourceID int, date time.Time) ([]ReservationWindow, error)
	GetUserReservations(ctx context.Context, playerID int) ([]Reservation, error)
	GetClubReservations(ctx context.Context, clubID int, date *time.Time) ([]Reservation, error)
}
