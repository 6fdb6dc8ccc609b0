package enums

import (
	"fmt"
	"strings"
)

// OrderStage is one named step in the fixed order-progress sequence.
type OrderStage string

const (
	OrderStageAccepted  OrderStage = "accepted"
	OrderStagePreparing OrderStage = "preparing"
	OrderStageOnTheWay  OrderStage = "on the way"
	OrderStageDelivered OrderStage = "delivered"
)

// orderStageProgression is the fixed display order. Delivered is terminal.
var orderStageProgression = []OrderStage{
	OrderStageAccepted,
	OrderStagePreparing,
	OrderStageOnTheWay,
	OrderStageDelivered,
}

// OrderStages returns the progression in display order.
func OrderStages() []OrderStage {
	stages := make([]OrderStage, len(orderStageProgression))
	copy(stages, orderStageProgression)
	return stages
}

// String implements fmt.Stringer.
func (o OrderStage) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStage.
func (o OrderStage) IsValid() bool {
	for _, candidate := range orderStageProgression {
		if candidate == o {
			return true
		}
	}
	return false
}

// Index returns the position of the stage within the progression, or -1.
func (o OrderStage) Index() int {
	for i, candidate := range orderStageProgression {
		if candidate == o {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the stage ends the progression.
func (o OrderStage) IsTerminal() bool {
	return o == OrderStageDelivered
}

// ParseOrderStage converts raw input into an OrderStage, case-insensitively.
func ParseOrderStage(value string) (OrderStage, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range orderStageProgression {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order stage %q", value)
}
