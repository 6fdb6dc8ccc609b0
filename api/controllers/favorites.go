package controllers

import (
	"net/http"

	"github.com/MuzPas1/fleety-mobile/api/middleware"
	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	favoritesvc "github.com/MuzPas1/fleety-mobile/internal/favorites"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
)

func FavoritesList(svc *favoritesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		list, err := svc.List(r.Context(), userID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func FavoritesToggle(svc *favoritesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		restaurantID, err := validators.ParseUUIDParam(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		favored, err := svc.Toggle(r.Context(), userID.String(), restaurantID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"favorite": favored})
	}
}
