package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/MuzPas1/fleety-mobile/pkg/enums"
)

// Address is a saved delivery destination for a user.
type Address struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Label       enums.AddressLabel `gorm:"column:label;not null;default:'other'"`
	FullAddress string             `gorm:"column:full_address;not null"`
	Phone       string             `gorm:"column:phone;not null"`
	Lat         float64            `gorm:"column:lat"`
	Lon         float64            `gorm:"column:lon"`
	IsDefault   bool               `gorm:"column:is_default;not null;default:false"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
