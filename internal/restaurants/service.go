package restaurants

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes restaurant browsing operations.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]models.Restaurant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	Menu(ctx context.Context, restaurantID uuid.UUID, vegOnly bool) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

type service struct {
	repo Repository
}

// NewService builds a restaurants service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurants repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Restaurant, error) {
	list, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list restaurants")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) Menu(ctx context.Context, restaurantID uuid.UUID, vegOnly bool) ([]models.MenuItem, error) {
	if _, err := s.Get(ctx, restaurantID); err != nil {
		return nil, err
	}
	items, err := s.repo.MenuByRestaurant(ctx, restaurantID, vegOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu")
	}
	return items, nil
}

func (s *service) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.FindMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load menu item")
	}
	return item, nil
}
