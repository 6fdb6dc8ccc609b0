package controllers

import (
	"net/http"

	"github.com/MuzPas1/fleety-mobile/api/middleware"
	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	cartstore "github.com/MuzPas1/fleety-mobile/internal/cart"
	restaurantsvc "github.com/MuzPas1/fleety-mobile/internal/restaurants"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type addCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func CartGet(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		responses.WriteSuccess(w, store.Get(userID.String()))
	}
}

// CartAddItem resolves the menu item against the catalog before putting a
// line in the cart, so a cart line always snapshots a real dish and its
// current price.
func CartAddItem(store *cartstore.Store, catalog restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		item, err := catalog.GetMenuItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !item.IsAvailable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item is not available"))
			return
		}
		restaurant, err := catalog.Get(r.Context(), item.RestaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line := cartstore.Line{
			ItemID:         item.ID.String(),
			RestaurantID:   restaurant.ID.String(),
			RestaurantName: restaurant.Name,
			Name:           item.Name,
			UnitPrice:      item.Price,
			Quantity:       payload.Quantity,
			IsVeg:          item.IsVeg,
		}
		if err := store.AddItem(userID.String(), line); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.Get(userID.String()))
	}
}

func CartUpdateQuantity(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		itemID := validators.SanitizeString(chi.URLParam(r, "itemID"), 64)

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.UpdateQuantity(userID.String(), itemID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.Get(userID.String()))
	}
}

func CartRemoveItem(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		itemID := validators.SanitizeString(chi.URLParam(r, "itemID"), 64)

		if err := store.RemoveItem(userID.String(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store.Get(userID.String()))
	}
}

func CartClear(store *cartstore.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		store.Clear(userID.String())
		responses.WriteSuccess(w, store.Get(userID.String()))
	}
}
