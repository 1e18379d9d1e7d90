package club

import "time"

type ResourceCategory string

const (
	CategoryCourt ResourceCategory = "court"
	CategoryCoach ResourceCategory = "coach"
)

type Club struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Resource is a bookable entity owned by a club: a court or a coach.
type Resource struct {
	ID              int              `db:"id" json:"id"`
	ClubID          int              `db:"club_id" json:"club_id"`
	Name            string           `db:"name" json:"name"`
	Category        ResourceCategory `db:"category" json:"category"`
	HourlyTokenRate int              `db:"hourly_token_rate" json:"hourly_token_rate"`
	HourlyCashCents int64            `db:"hourly_cash_cents" json:"hourly_cash_cents"`
	Active          bool             `db:"active" json:"active"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// OperatingWindow bounds bookable hours for one weekday.
// Times are minutes from midnight. A weekday with no row means closed.
type OperatingWindow struct {
	ID       int          `db:"id" json:"id"`
	ClubID   int          `db:"club_id" json:"club_id"`
	Weekday  time.Weekday `db:"weekday" json:"weekday"`
	OpenMin  int          `db:"open_min" json:"open_min"`
	CloseMin int          `db:"close_min" json:"close_min"`
}

type CreateClubRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

type CreateResourceRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category" binding:"required,oneof=court coach"`
	HourlyTokenRate int    `json:"hourly_token_rate" binding:"required,min=1"`
	HourlyCashCents int64  `json:"hourly_cash_cents" binding:"required,min=1"`
}

type SetOperatingWindowRequest struct {
	Weekday  int `json:"weekday" binding:"min=0,max=6"`
	OpenMin  int `json:"open_min" binding:"min=0,max=1439"`
	CloseMin int `json:"close_min" binding:"required,min=1,max=1440"`
}
