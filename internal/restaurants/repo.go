package restaurants

import (
	"context"
	"strings"

	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilters narrow the restaurant listing.
type ListFilters struct {
	Cuisine  string
	OpenOnly bool
	Search   string
}

// Repository defines persistence operations for restaurants and menus.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]models.Restaurant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	MenuByRestaurant(ctx context.Context, restaurantID uuid.UUID, vegOnly bool) ([]models.MenuItem, error)
	FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a restaurants repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Restaurant, error) {
	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if filters.OpenOnly {
		query = query.Where("is_open = ?", true)
	}
	if cuisine := strings.TrimSpace(filters.Cuisine); cuisine != "" {
		query = query.Where("? = ANY(cuisines)", strings.ToLower(cuisine))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var list []models.Restaurant
	if err := query.Order("rating DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) MenuByRestaurant(ctx context.Context, restaurantID uuid.UUID, vegOnly bool) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Where("is_available = ?", true)
	if vegOnly {
		query = query.Where("is_veg = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
