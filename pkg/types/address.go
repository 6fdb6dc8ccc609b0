package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DeliveryAddress is the address snapshot frozen onto an order at placement time.
type DeliveryAddress struct {
	Label       string  `json:"label"`
	FullAddress string  `json:"full_address"`
	Phone       string  `json:"phone"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
}

// Value serializes the snapshot for a jsonb column.
func (a DeliveryAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan deserializes the snapshot from a jsonb column.
func (a *DeliveryAddress) Scan(src any) error {
	if src == nil {
		*a = DeliveryAddress{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported delivery address source %T", src)
	}
}
