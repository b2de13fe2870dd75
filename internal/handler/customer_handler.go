// internal/handler/customer_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/repository"
	"github.com/tablepulse/crm-backend/internal/segment"
	"github.com/tablepulse/crm-backend/internal/service"
)

// CustomerHandler serves customer, visit and segment-listing endpoints.
type CustomerHandler struct {
	Customers repository.CustomerRepositoryInterface
	Visits    repository.VisitRepositoryInterface
	Ledger    *service.LedgerService
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RestaurantID int    `json:"restaurant_id"`
		Email        string `json:"email"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	customer := &model.Customer{
		RestaurantID: body.RestaurantID,
		Email:        body.Email,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
	}
	if err := h.Customers.Create(r.Context(), customer); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := strconv.Atoi(r.URL.Query().Get("restaurant_id"))
	if err != nil {
		http.Error(w, "restaurant_id is required", http.StatusBadRequest)
		return
	}
	customers, err := h.Customers.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": customers})
}

// ListInactive lists the inactive_days segment for a restaurant.
func (h *CustomerHandler) ListInactive(w http.ResponseWriter, r *http.Request) {
	h.listSegment(w, r, model.SegmentInactiveDays, "days", 30)
}

// ListHighSpenders lists the high_spenders segment for a restaurant.
func (h *CustomerHandler) ListHighSpenders(w http.ResponseWriter, r *http.Request) {
	h.listSegment(w, r, model.SegmentHighSpenders, "min_spend_cents", 50000)
}

func (h *CustomerHandler) listSegment(w http.ResponseWriter, r *http.Request, kind, param string, def int64) {
	restaurantID, err := strconv.Atoi(r.URL.Query().Get("restaurant_id"))
	if err != nil {
		http.Error(w, "restaurant_id is required", http.StatusBadRequest)
		return
	}
	value := def
	if raw := r.URL.Query().Get(param); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid "+param, http.StatusBadRequest)
			return
		}
		value = v
	}

	rule := segment.Rule{Kind: kind, Value: value}
	customers, err := h.Customers.ListBySegment(r.Context(), restaurantID, rule, time.Now())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": customers})
}

// AddVisit records a visit through the ledger.
func (h *CustomerHandler) AddVisit(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	customerID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	var body struct {
		SpendCents int64      `json:"spend_cents"`
		VisitedAt  *time.Time `json:"visited_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.SpendCents < 0 {
		http.Error(w, "spend_cents must be >= 0", http.StatusBadRequest)
		return
	}

	visit, err := h.Ledger.RecordVisit(r.Context(), customerID, body.SpendCents, body.VisitedAt)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

func (h *CustomerHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	customerID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	visits, err := h.Visits.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": visits})
}
