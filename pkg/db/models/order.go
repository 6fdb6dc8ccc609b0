package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/MuzPas1/fleety-mobile/pkg/types"
)

// Order captures a placed order together with its bill breakdown and address
// snapshot. Status is free text owned by the restaurant side; the tracker only
// reads and classifies it.
type Order struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID   uuid.UUID             `gorm:"column:restaurant_id;type:uuid;not null"`
	RestaurantName string                `gorm:"column:restaurant_name;not null"`
	Status         string                `gorm:"column:status;not null;default:'pending'"`
	Items          []OrderItem           `gorm:"foreignKey:OrderID"`
	Subtotal       int64                 `gorm:"column:subtotal;not null"`
	DeliveryFee    int64                 `gorm:"column:delivery_fee;not null"`
	PlatformFee    int64                 `gorm:"column:platform_fee;not null"`
	InfraFee       int64                 `gorm:"column:infra_fee;not null"`
	Tax            int64                 `gorm:"column:tax;not null"`
	TotalAmount    int64                 `gorm:"column:total_amount;not null"`
	DistanceKm     float64               `gorm:"column:distance_km"`
	EtaLabel       string                `gorm:"column:eta_label"`
	Address        types.DeliveryAddress `gorm:"column:address;type:jsonb"`
	PaymentLabel   string                `gorm:"column:payment_label"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is the immutable snapshot of one cart line at placement time.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ItemID    string    `gorm:"column:item_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
