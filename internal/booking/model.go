package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Reservation — бронирование корта (и, для сессии, тренера) на один слот.
type Reservation struct {
	ID            int       `db:"id" json:"id"`
	ClubID        int       `db:"club_id" json:"club_id"`
	PlayerID      int       `db:"player_id" json:"player_id"`
	Date          time.Time `db:"date" json:"date"`
	StartMin      int       `db:"start_min" json:"start_min"`
	EndMin        int       `db:"end_min" json:"end_min"`
	Status        Status    `db:"status" json:"status"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	TokensUsed    int       `db:"tokens_used" json:"tokens_used"`
	CashCents     int64     `db:"cash_cents" json:"cash_cents"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// Resources backing this reservation: one court, optionally a coach.
	ResourceIDs []int `db:"-" json:"resource_ids"`
}

type CreateReservationRequest struct {
	ClubID        int    `json:"club_id" binding:"required"`
	ResourceIDs   []int  `json:"resource_ids" binding:"required,min=1,max=2"`
	Date          string `json:"date" binding:"required"`
	StartMin      int    `json:"start_min" binding:"min=0,max=1439"`
	DurationMin   int    `json:"duration_min" binding:"required,min=1"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=tokens cash hybrid"`
}

type CancelResult struct {
	ReservationID   int   `json:"reservation_id"`
	RefundTokens    int   `json:"refund_tokens"`
	RefundCashCents int64 `json:"refund_cash_cents"`
	Percentage      int   `json:"percentage"`
}

// Slot is one free start returned by the availability endpoint.
type Slot struct {
	StartMin    int    `json:"start_min"`
	Clock       string `json:"clock"`
	DurationMin int    `json:"duration_min"`
}
