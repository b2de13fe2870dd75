// internal/handler/restaurant_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/repository"
)

type RestaurantHandler struct {
	Restaurants repository.RestaurantRepositoryInterface
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var (
		restaurantNotFound *apperrors.ErrRestaurantNotFound
		customerNotFound   *apperrors.ErrCustomerNotFound
		duplicateCustomer  *apperrors.ErrDuplicateCustomer
		badSegment         *apperrors.ErrInvalidSegment
	)
	switch {
	case errors.As(err, &restaurantNotFound), errors.As(err, &customerNotFound):
		status = http.StatusNotFound
	case errors.As(err, &duplicateCustomer):
		status = http.StatusConflict
	case errors.As(err, &badSegment):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	restaurant := &model.Restaurant{Name: body.Name, Timezone: body.Timezone}
	if err := h.Restaurants.Create(r.Context(), restaurant); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": restaurants})
}
