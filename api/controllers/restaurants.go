package controllers

import (
	"net/http"

	"github.com/MuzPas1/fleety-mobile/api/responses"
	"github.com/MuzPas1/fleety-mobile/api/validators"
	restaurantsvc "github.com/MuzPas1/fleety-mobile/internal/restaurants"
	"github.com/MuzPas1/fleety-mobile/pkg/db/models"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
)

type restaurantResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Cuisines          []string `json:"cuisines"`
	Rating            float64  `json:"rating"`
	ChargesTax        bool     `json:"charges_tax"`
	DeliveryTimeLabel string   `json:"delivery_time_label"`
	IsOpen            bool     `json:"is_open"`
}

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	IsVeg       bool   `json:"is_veg"`
}

func newRestaurantResponse(restaurant *models.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                restaurant.ID.String(),
		Name:              restaurant.Name,
		Cuisines:          restaurant.Cuisines,
		Rating:            restaurant.Rating,
		ChargesTax:        restaurant.ChargesTax,
		DeliveryTimeLabel: restaurant.DeliveryTimeLabel,
		IsOpen:            restaurant.IsOpen,
	}
}

func RestaurantsList(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := restaurantsvc.ListFilters{
			Cuisine:  validators.SanitizeString(r.URL.Query().Get("cuisine"), 64),
			Search:   validators.SanitizeString(r.URL.Query().Get("q"), 128),
			OpenOnly: validators.ParseQueryBool(r, "open"),
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := make([]restaurantResponse, 0, len(list))
		for i := range list {
			resp = append(resp, newRestaurantResponse(&list[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}

func RestaurantsGet(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRestaurantResponse(restaurant))
	}
}

func RestaurantsMenu(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "restaurantID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Menu(r.Context(), id, validators.ParseQueryBool(r, "veg"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := make([]menuItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, menuItemResponse{
				ID:          item.ID.String(),
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				IsVeg:       item.IsVeg,
			})
		}
		responses.WriteSuccess(w, resp)
	}
}
