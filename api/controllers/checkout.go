package controllers

import (
	"net/http"

	"github.com/MuzPas1/fleety-mobile/api/middleware"
	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	ordersvc "github.com/MuzPas1/fleety-mobile/internal/orders"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
)

// CheckoutPreview returns the composed bill for the user's current cart.
// The delivery address id is optional; without it the quote is resolved
// for the restaurant alone.
func CheckoutPreview(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		addressID := validators.SanitizeString(r.URL.Query().Get("address_id"), 64)

		preview, err := svc.PreviewBill(r.Context(), userID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}
