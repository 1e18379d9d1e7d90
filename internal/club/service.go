package club

import (
	"context"
	"errors"
	"time"
)

var (
	ErrClubNotFound     = errors.New("club not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrWindowInvalid    = errors.New("invalid operating window")
)

type Service interface {
	CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error)
	GetAllClubs(ctx context.Context) ([]Club, error)
	GetClubByID(ctx context.Context, id int) (*Club, error)
	CreateResource(ctx context.Context, clubID int, req CreateResourceRequest) (*Resource, error)
	GetResources(ctx context.Context, clubID int, category *ResourceCategory) ([]Resource, error)
	SetResourceActive(ctx context.Context, resourceID int, active bool) error
	SetOperatingWindow(ctx context.Context, clubID int, req SetOperatingWindowRequest) (*OperatingWindow, error)
	GetOperatingWindows(ctx context.Context, clubID int) ([]OperatingWindow, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error) {
	return s.repo.CreateClub(ctx, req.Name, req.Location)
}

func (s *service) GetAllClubs(ctx context.Context) ([]Club, error) {
	return s.repo.GetAllClubs(ctx)
}

func (s *service) GetClubByID(ctx context.Context, id int) (*Club, error) {
	club, err := s.repo.GetClubByID(ctx, id)
	if err != nil {
		return nil, ErrClubNotFound
	}
	return club, nil
}

func (s *service) CreateResource(ctx context.Context, clubID int, req CreateResourceRequest) (*Resource, error) {
	_, err := s.repo.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	return s.repo.CreateResource(ctx, clubID, req.Name, ResourceCategory(req.Category), req.HourlyTokenRate, req.HourlyCashCents)
}

func (s *service) GetResources(ctx context.Context, clubID int, category *ResourceCategory) ([]Resource, error) {
	_, err := s.repo.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	return s.repo.GetResourcesByClub(ctx, clubID, category)
}

func (s *service) SetResourceActive(ctx context.Context, resourceID int, active bool) error {
	if err := s.repo.SetResourceActive(ctx, resourceID, active); err != nil {
		return ErrResourceNotFound
	}
	return nil
}

func (s *service) SetOperatingWindow(ctx context.Context, clubID int, req SetOperatingWindowRequest) (*OperatingWindow, error) {
	_, err := s.repo.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	if req.OpenMin < 0 || req.CloseMin > 24*60 || req.OpenMin >= req.CloseMin {
		return nil, ErrWindowInvalid
	}

	return s.repo.SetOperatingWindow(ctx, clubID, time.Weekday(req.Weekday), req.OpenMin, req.CloseMin)
}

func (s *service) GetOperatingWindows(ctx context.Context, clubID int) ([]OperatingWindow, error) {
	_, err := s.repo.GetClubByID(ctx, clubID)
	if err != nil {
		return nil, ErrClubNotFound
	}

	return s.repo.GetOperatingWindows(ctx, clubID)
}
