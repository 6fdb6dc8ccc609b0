package orders

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/MuzPas1/fleety-mobile/internal/cart"
	"github.com/MuzPas1/fleety-mobile/internal/pricing"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/pagination"
	"github.com/MuzPas1/fleety-mobile/pkg/quoting"
	"github.com/MuzPas1/fleety-mobile/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	orders    map[uuid.UUID]*models.Order
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (f *fakeRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = "pending"
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, _ *pagination.Cursor, limit int) ([]models.Order, error) {
	var list []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			list = append(list, *order)
		}
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeRepo) GetStatus(_ context.Context, id uuid.UUID) (string, error) {
	order, ok := f.orders[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return order.Status, nil
}

func (f *fakeRepo) ListActiveIDs(context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, order := range f.orders {
		if order.Status != "delivered" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type fixedResolver struct {
	quote       quoting.Quote
	invalidated int
}

func (f *fixedResolver) Resolve(context.Context, string, string) (quoting.Quote, error) {
	return f.quote, nil
}

func (f *fixedResolver) Invalidate(string) { f.invalidated++ }

type serviceFixture struct {
	svc      Service
	repo     *fakeRepo
	carts    *cart.Store
	resolver *fixedResolver
	userID   uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	engine, err := pricing.NewEngine(config.PricingConfig{PlatformFee: 10, InfraFee: 10, TaxRate: 0.05})
	require.NoError(t, err)

	log := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	repo := newFakeRepo()
	carts := cart.NewStore()
	resolver := &fixedResolver{quote: quoting.Quote{FeeAmount: 30, TaxApplicable: true, EtaLabel: "25 mins"}}

	svc, err := NewService(repo, fakeTx{}, carts, resolver, engine, log)
	require.NoError(t, err)

	return &serviceFixture{
		svc:      svc,
		repo:     repo,
		carts:    carts,
		resolver: resolver,
		userID:   uuid.New(),
	}
}

func (f *serviceFixture) fillCart(t *testing.T, restaurantID uuid.UUID) {
	t.Helper()
	require.NoError(t, f.carts.AddItem(f.userID.String(), cart.Line{
		ItemID:         "dosa",
		RestaurantID:   restaurantID.String(),
		RestaurantName: "Dosa Palace",
		Name:           "Masala Dosa",
		UnitPrice:      150,
		Quantity:       1,
	}))
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		AddressID: "a1",
		Address: types.DeliveryAddress{
			Label:       "home",
			FullAddress: "12 MG Road",
			Phone:       "9999999999",
		},
		PaymentLabel: "cash on delivery",
	}
}

func TestPlaceOrderComposesBillAndClearsCart(t *testing.T) {
	f := newServiceFixture(t)
	restaurantID := uuid.New()
	f.fillCart(t, restaurantID)

	order, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(150), order.Subtotal)
	assert.Equal(t, int64(30), order.DeliveryFee)
	assert.Equal(t, int64(8), order.Tax)
	assert.Equal(t, int64(208), order.TotalAmount)
	assert.Equal(t, restaurantID, order.RestaurantID)
	assert.Len(t, order.Items, 1)

	assert.True(t, f.carts.IsEmpty(f.userID.String()))
	assert.Equal(t, 1, f.resolver.invalidated)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestPlaceOrderRequiresAddressAndPhone(t *testing.T) {
	f := newServiceFixture(t)
	f.fillCart(t, uuid.New())

	noAddress := validInput()
	noAddress.Address.FullAddress = ""
	_, err := f.svc.PlaceOrder(context.Background(), f.userID, noAddress)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	noPhone := validInput()
	noPhone.Address.Phone = ""
	_, err = f.svc.PlaceOrder(context.Background(), f.userID, noPhone)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	assert.False(t, f.carts.IsEmpty(f.userID.String()), "validation failure must not clear the cart")
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	f := newServiceFixture(t)
	f.fillCart(t, uuid.New())
	f.repo.createErr = fmt.Errorf("insert failed")

	_, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.Error(t, err)
	assert.False(t, f.carts.IsEmpty(f.userID.String()), "placement failure must not clear the cart")
	assert.Equal(t, 0, f.resolver.invalidated)
}

func TestPreviewMatchesPlacedOrderBill(t *testing.T) {
	f := newServiceFixture(t)
	f.fillCart(t, uuid.New())

	preview, err := f.svc.PreviewBill(context.Background(), f.userID, "a1")
	require.NoError(t, err)

	order, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.NoError(t, err)

	assert.Equal(t, preview.Bill.Subtotal, order.Subtotal)
	assert.Equal(t, preview.Bill.DeliveryFee, order.DeliveryFee)
	assert.Equal(t, preview.Bill.Tax, order.Tax)
	assert.Equal(t, preview.Bill.GrandTotal, order.TotalAmount)
}

func TestListOrdersPagination(t *testing.T) {
	f := newServiceFixture(t)
	for i := 0; i < 2; i++ {
		f.fillCart(t, uuid.New())
		_, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
		require.NoError(t, err)
	}

	page, err := f.svc.ListOrders(context.Background(), f.userID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.NotEmpty(t, page.NextCursor)

	_, err = f.svc.ListOrders(context.Background(), f.userID, pagination.Params{Cursor: "not-base64!"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGetOrderOwnership(t *testing.T) {
	f := newServiceFixture(t)
	f.fillCart(t, uuid.New())

	order, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.GetOrder(context.Background(), uuid.New(), order.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = f.svc.GetOrder(context.Background(), f.userID, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestFetchStatusForTracker(t *testing.T) {
	f := newServiceFixture(t)
	f.fillCart(t, uuid.New())

	order, err := f.svc.PlaceOrder(context.Background(), f.userID, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(context.Background(), order.ID, "Preparing"))

	status, err := f.svc.FetchStatus(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Preparing", status)

	_, err = f.svc.FetchStatus(context.Background(), "not-a-uuid")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestPreviewBillEmptyCart(t *testing.T) {
	f := newServiceFixture(t)
	// The real resolver skips the fetch for an empty cart and yields a
	// zero quote; mirror that here.
	f.resolver.quote = quoting.Quote{}

	preview, err := f.svc.PreviewBill(context.Background(), f.userID, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), preview.Bill.Subtotal)
	assert.Equal(t, int64(20), preview.Bill.GrandTotal)
}
