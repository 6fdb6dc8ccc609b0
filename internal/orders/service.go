package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuzPas1/fleety-mobile/internal/cart"
	"github.com/MuzPas1/fleety-mobile/internal/pricing"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/pagination"
	"github.com/MuzPas1/fleety-mobile/pkg/quoting"
	"github.com/MuzPas1/fleety-mobile/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Get(userID string) cart.Snapshot
	Clear(userID string)
	IsEmpty(userID string) bool
}

type quoteResolver interface {
	Resolve(ctx context.Context, userID, addressID string) (quoting.Quote, error)
	Invalidate(userID string)
}

type billComposer interface {
	Compute(subtotal, deliveryFee int64, taxApplicable bool) pricing.Breakdown
}

// Service defines order placement and retrieval operations.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (OrdersPage, error)
	PreviewBill(ctx context.Context, userID uuid.UUID, addressID string) (BillPreview, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	FetchStatus(ctx context.Context, orderID string) (string, error)
}

// PlaceOrderInput carries the checkout payload beyond the cart itself.
type PlaceOrderInput struct {
	AddressID    string
	Address      types.DeliveryAddress
	PaymentLabel string
}

// OrdersPage is one page of order history. NextCursor is empty on the
// last page.
type OrdersPage struct {
	Orders     []models.Order
	NextCursor string
}

// BillPreview pairs the composed bill with the cart it was computed from.
type BillPreview struct {
	Cart  cart.Snapshot     `json:"cart"`
	Quote quoting.Quote     `json:"quote"`
	Bill  pricing.Breakdown `json:"bill"`
}

type service struct {
	repo   Repository
	tx     txRunner
	carts  cartStore
	quotes quoteResolver
	bills  billComposer
	log    *logger.Logger
}

// NewService builds an orders service.
func NewService(repo Repository, tx txRunner, carts cartStore, quotes quoteResolver, bills billComposer, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote resolver required")
	}
	if bills == nil {
		return nil, fmt.Errorf("bill composer required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		carts:  carts,
		quotes: quotes,
		bills:  bills,
		log:    log,
	}, nil
}

// PreviewBill composes the current bill for the user's cart. An empty
// cart still yields a well-defined bill with only the fixed fees.
func (s *service) PreviewBill(ctx context.Context, userID uuid.UUID, addressID string) (BillPreview, error) {
	snap := s.carts.Get(userID.String())
	quote, err := s.quotes.Resolve(ctx, userID.String(), addressID)
	if err != nil {
		return BillPreview{}, err
	}
	return BillPreview{
		Cart:  snap,
		Quote: quote,
		Bill:  s.bills.Compute(snap.Subtotal, quote.FeeAmount, quote.TaxApplicable),
	}, nil
}

// PlaceOrder turns the user's cart into a persisted order. The cart is
// cleared only after the order row committed; a placement failure leaves
// the cart intact so the user can retry.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.Address.FullAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if strings.TrimSpace(input.Address.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact phone is required")
	}

	snap := s.carts.Get(userID.String())
	if len(snap.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	restaurantID, err := uuid.Parse(snap.RestaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id in cart")
	}

	quote, err := s.quotes.Resolve(ctx, userID.String(), input.AddressID)
	if err != nil {
		return nil, err
	}
	bill := s.bills.Compute(snap.Subtotal, quote.FeeAmount, quote.TaxApplicable)

	order := &models.Order{
		UserID:         userID,
		RestaurantID:   restaurantID,
		RestaurantName: snap.RestaurantName,
		Subtotal:       bill.Subtotal,
		DeliveryFee:    bill.DeliveryFee,
		PlatformFee:    bill.PlatformFee,
		InfraFee:       bill.InfraFee,
		Tax:            bill.Tax,
		TotalAmount:    bill.GrandTotal,
		DistanceKm:     quote.DistanceKm,
		EtaLabel:       quote.EtaLabel,
		Address:        input.Address,
		PaymentLabel:   input.PaymentLabel,
	}
	for _, line := range snap.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, createErr := s.repo.WithTx(tx).Create(ctx, order)
		return createErr
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	s.carts.Clear(userID.String())
	s.quotes.Invalidate(userID.String())
	s.log.Info(s.log.WithOrderID(ctx, order.ID.String()), "order placed")
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}

// ListOrders returns one page of the user's order history, newest first.
// The page carries an opaque cursor for the next page when more rows exist.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (OrdersPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return OrdersPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	list, err := s.repo.ListByUser(ctx, userID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return OrdersPage{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := OrdersPage{Orders: list}
	if len(list) > limit {
		page.Orders = list[:limit]
		tail := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: tail.CreatedAt,
			ID:        tail.ID,
		})
	}
	return page, nil
}

// UpdateStatus writes the free-text status supplied by the restaurant
// side. The tracker classifies it; it is not validated against the
// progression here.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	if strings.TrimSpace(status) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "status is required")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return nil
}

// FetchStatus satisfies the tracker's fetcher interface.
func (s *service) FetchStatus(ctx context.Context, orderID string) (string, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	status, err := s.repo.GetStatus(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch order status")
	}
	return status, nil
}
