package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Restaurant is a browsable venue. ChargesTax mirrors the venue's GST registration,
// which decides whether tax applies to its carts.
type Restaurant struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string         `gorm:"column:name;not null"`
	Cuisines          pq.StringArray `gorm:"column:cuisines;type:text[]"`
	Rating            float64        `gorm:"column:rating;not null;default:0"`
	Lat               float64        `gorm:"column:lat;not null"`
	Lon               float64        `gorm:"column:lon;not null"`
	ChargesTax        bool           `gorm:"column:charges_tax;not null;default:false"`
	DeliveryTimeLabel string         `gorm:"column:delivery_time_label"`
	IsOpen            bool           `gorm:"column:is_open;not null;default:true"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
