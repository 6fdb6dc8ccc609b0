package controllers

import (
	"net/http"
	"strconv"

	"github.com/MuzPas1/fleety-mobile/api/middleware"
	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	ordersvc "github.com/MuzPas1/fleety-mobile/internal/orders"
	"github.com/MuzPas1/fleety-mobile/internal/tracking"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/MuzPas1/fleety-mobile/pkg/enums"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/pagination"
	"github.com/MuzPas1/fleety-mobile/pkg/types"
)

type placeOrderRequest struct {
	AddressID    string                `json:"address_id"`
	Address      types.DeliveryAddress `json:"address" validate:"required"`
	PaymentLabel string                `json:"payment_label" validate:"omitempty,max=64"`
}

type orderItemResponse struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID             string                `json:"id"`
	RestaurantID   string                `json:"restaurant_id"`
	RestaurantName string                `json:"restaurant_name"`
	Status         string                `json:"status"`
	Items          []orderItemResponse   `json:"items"`
	Subtotal       int64                 `json:"subtotal"`
	DeliveryFee    int64                 `json:"delivery_fee"`
	PlatformFee    int64                 `json:"platform_fee"`
	InfraFee       int64                 `json:"infra_fee"`
	Tax            int64                 `json:"tax"`
	TotalAmount    int64                 `json:"total_amount"`
	DistanceKm     float64               `json:"distance_km"`
	EtaLabel       string                `json:"eta_label"`
	Address        types.DeliveryAddress `json:"address"`
	PaymentLabel   string                `json:"payment_label"`
}

type ordersListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type orderProgressResponse struct {
	OrderID    string   `json:"order_id"`
	RawStatus  string   `json:"raw_status"`
	Stage      string   `json:"stage,omitempty"`
	StageIndex int      `json:"stage_index"`
	IsTerminal bool     `json:"is_terminal"`
	Stages     []string `json:"stages"`
	Completed  []string `json:"completed"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:             order.ID.String(),
		RestaurantID:   order.RestaurantID.String(),
		RestaurantName: order.RestaurantName,
		Status:         order.Status,
		Subtotal:       order.Subtotal,
		DeliveryFee:    order.DeliveryFee,
		PlatformFee:    order.PlatformFee,
		InfraFee:       order.InfraFee,
		Tax:            order.Tax,
		TotalAmount:    order.TotalAmount,
		DistanceKm:     order.DistanceKm,
		EtaLabel:       order.EtaLabel,
		Address:        order.Address,
		PaymentLabel:   order.PaymentLabel,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return resp
}

func OrdersPlace(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID, ordersvc.PlaceOrderInput{
			AddressID:    payload.AddressID,
			Address:      payload.Address,
			PaymentLabel: payload.PaymentLabel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		page, err := svc.ListOrders(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders := make([]orderResponse, 0, len(page.Orders))
		for i := range page.Orders {
			orders = append(orders, newOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, ordersListResponse{
			Orders:     orders,
			NextCursor: page.NextCursor,
		})
	}
}

func OrdersGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrdersProgress classifies the order's current status against the fixed
// progression. This is the one-shot variant of what the tracker worker
// polls continuously.
func OrdersProgress(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		classification := tracking.Classify(order.Status)
		resp := orderProgressResponse{
			OrderID:    order.ID.String(),
			RawStatus:  order.Status,
			Stage:      classification.Stage.String(),
			StageIndex: classification.StageIndex,
			IsTerminal: classification.IsTerminal,
			Stages:     stageNames(enums.OrderStages()),
			Completed:  stageNames(classification.CompletedStages()),
		}
		responses.WriteSuccess(w, resp)
	}
}

// OrdersUpdateStatus accepts the restaurant side's free-text status write.
func OrdersUpdateStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateStatus(r.Context(), orderID, payload.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": payload.Status})
	}
}

func stageNames(stages []enums.OrderStage) []string {
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, stage.String())
	}
	return names
}
