package pricing

import (
	"fmt"

	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/shopspring/decimal"
)

// Breakdown is the complete bill for a cart. All amounts are whole
// currency units.
type Breakdown struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	PlatformFee int64 `json:"platform_fee"`
	InfraFee    int64 `json:"infra_fee"`
	Tax         int64 `json:"tax"`
	GrandTotal  int64 `json:"grand_total"`
}

// Engine composes bill totals. It is the single place fee and tax math
// lives, so the cart view and checkout never disagree.
type Engine struct {
	platformFee int64
	infraFee    int64
	taxRate     decimal.Decimal
}

// NewEngine validates the pricing configuration and returns an engine.
func NewEngine(cfg config.PricingConfig) (*Engine, error) {
	if cfg.PlatformFee < 0 {
		return nil, fmt.Errorf("platform fee cannot be negative")
	}
	if cfg.InfraFee < 0 {
		return nil, fmt.Errorf("infra fee cannot be negative")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("tax rate must be in [0, 1)")
	}
	return &Engine{
		platformFee: cfg.PlatformFee,
		infraFee:    cfg.InfraFee,
		taxRate:     decimal.NewFromFloat(cfg.TaxRate),
	}, nil
}

// Compute builds the bill for a subtotal and delivery quote. Tax is only
// charged when the quote marks the restaurant taxable, and rounds half up.
// An empty cart yields the fixed fees with zero subtotal, delivery, and tax.
func (e *Engine) Compute(subtotal, deliveryFee int64, taxApplicable bool) Breakdown {
	if subtotal < 0 {
		subtotal = 0
	}
	if deliveryFee < 0 {
		deliveryFee = 0
	}

	b := Breakdown{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		PlatformFee: e.platformFee,
		InfraFee:    e.infraFee,
	}
	if taxApplicable {
		b.Tax = e.tax(subtotal)
	}
	b.GrandTotal = b.Subtotal + b.DeliveryFee + b.PlatformFee + b.InfraFee + b.Tax
	return b
}

// tax rounds half away from zero, which on non-negative subtotals is the
// familiar half-up rule (7.5 becomes 8).
func (e *Engine) tax(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(e.taxRate).Round(0).IntPart()
}
