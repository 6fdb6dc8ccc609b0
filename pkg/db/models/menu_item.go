package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem is a purchasable dish. Price is in whole currency units.
type MenuItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Description  string    `gorm:"column:description"`
	Price        int64     `gorm:"column:price;not null"`
	IsVeg        bool      `gorm:"column:is_veg;not null;default:false"`
	IsAvailable  bool      `gorm:"column:is_available;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
