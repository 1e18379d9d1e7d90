package club

import (
	"context"
	"time"
)

type Repository interface {
	CreateClub(ctx context.Context, name, location string) (*Club, error)
	GetAllClubs(ctx context.Context) ([]Club, error)
	GetClubByID(ctx context.Context, id int) (*Club, error)

	CreateResource(ctx context.Context, clubID int, name string, category ResourceCategory, tokenRate int, cashCents int64) (*Resource, error)
	GetResourceByID(ctx context.Context, id int) (*Resource, error)
	GetResourcesByClub(ctx context.Context, clubID int, category *ResourceCategory) ([]Resource, error)
	SetResourceActive(ctx context.Context, id int, active bool) error

	SetOperatingWindow(ctx context.Context, clubID int, weekday time.Weekday, openMin, closeMin int) (*OperatingWindow, error)
	GetOperatingWindow(ctx context.Context, clubID int, weekday time.Weekday) (*OperatingWindow, error)
	GetOperatingWindows(ctx context.Context, clubID int) ([]OperatingWindow, error)
}
