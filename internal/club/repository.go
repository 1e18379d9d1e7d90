package club

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrWindowNotFound = errors.New("operating window not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClub(ctx context.Context, name, location string) (*Club, error) {
	query := `
		INSERT INTO clubs (name, location)
		VALUES ($1, $2)
		RETURNING id, name, location, created_at
	`

	var club Club
	err := r.db.GetContext(ctx, &club, query, name, location)
	if err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *repository) GetAllClubs(ctx context.Context) ([]Club, error) {
	query := `
		SELECT id, name, location, created_at
		FROM clubs
		ORDER BY created_at DESC
	`

	var clubs []Club
	err := r.db.SelectContext(ctx, &clubs, query)
	if err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *repository) GetClubByID(ctx context.Context, id int) (*Club, error) {
	query := `
		SELECT id, name, location, created_at
		FROM clubs
		WHERE id = $1
	`

	var club Club
	err := r.db.GetContext(ctx, &club, query, id)
	if err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *repository) CreateResource(ctx context.Context, clubID int, name string, category ResourceCategory, tokenRate int, cashCents int64) (*Resource, error) {
	query := `
		INSERT INTO resources (club_id, name, category, hourly_token_rate, hourly_cash_cents, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, club_id, name, category, hourly_token_rate, hourly_cash_cents, active, created_at
	`

	var res Resource
	err := r.db.GetContext(ctx, &res, query, clubID, name, category, tokenRate, cashCents)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetResourceByID(ctx context.Context, id int) (*Resource, error) {
	query := `
		SELECT id, club_id, name, category, hourly_token_rate, hourly_cash_cents, active, created_at
		FROM resources
		WHERE id = $1
	`

	var res Resource
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetResourcesByClub(ctx context.Context, clubID int, category *ResourceCategory) ([]Resource, error) {
	query := `
		SELECT id, club_id, name, category, hourly_token_rate, hourly_cash_cents, active, created_at
		FROM resources
		WHERE club_id = $1
	`
	args := []interface{}{clubID}

	if category != nil {
		query += " AND category = $2"
		args = append(args, *category)
	}

	query += " ORDER BY category, name"

	var resources []Resource
	err := r.db.SelectContext(ctx, &resources, query, args...)
	if err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *repository) SetResourceActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE resources SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *repository) SetOperatingWindow(ctx context.Context, clubID int, weekday time.Weekday, openMin, closeMin int) (*OperatingWindow, error) {
	query := `
		INSERT INTO operating_windows (club_id, weekday, open_min, close_min)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (club_id, weekday)
		DO UPDATE SET open_min = EXCLUDED.open_min, close_min = EXCLUDED.close_min
		RETURNING id, club_id, weekday, open_min, close_min
	`

	var w OperatingWindow
	err := r.db.GetContext(ctx, &w, query, clubID, int(weekday), openMin, closeMin)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) GetOperatingWindow(ctx context.Context, clubID int, weekday time.Weekday) (*OperatingWindow, error) {
	query := `
		SELECT id, club_id, weekday, open_min, close_min
		FROM operating_windows
		WHERE club_id = $1 AND weekday = $2
	`

	var w OperatingWindow
	err := r.db.GetContext(ctx, &w, query, clubID, int(weekday))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}

	return &w, nil
}

func (r *repository) GetOperatingWindows(ctx context.Context, clubID int) ([]OperatingWindow, error) {
	query := `
		SELECT id, club_id, weekday, open_min, close_min
		FROM operating_windows
		WHERE club_id = $1
		ORDER BY weekday
	`

	var windows []OperatingWindow
	err := r.db.SelectContext(ctx, &windows, query, clubID)
	if err != nil {
		return nil, err
	}

	return windows, nil
}
