// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/repository"
	"github.com/tablepulse/crm-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	Events          repository.OutreachEventRepositoryInterface
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var (
		campaignNotFound *apperrors.ErrCampaignNotFound
		customerNotFound *apperrors.ErrCustomerNotFound
		badTransition    *apperrors.ErrInvalidTransition
		badSegment       *apperrors.ErrInvalidSegment
	)
	switch {
	case errors.As(err, &campaignNotFound), errors.As(err, &customerNotFound):
		status = http.StatusNotFound
	case errors.As(err, &badTransition):
		status = http.StatusConflict
	case errors.As(err, &badSegment):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RestaurantID    int    `json:"restaurant_id"`
		Name            string `json:"name"`
		SegmentType     string `json:"segment_type"`
		SegmentValue    int64  `json:"segment_value"`
		MessageTemplate string `json:"message_template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), &model.Campaign{
		RestaurantID:    body.RestaurantID,
		Name:            body.Name,
		SegmentType:     body.SegmentType,
		SegmentValue:    body.SegmentValue,
		MessageTemplate: body.MessageTemplate,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	restaurantID, _ := strconv.Atoi(r.URL.Query().Get("restaurant_id"))
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), page, pageSize, restaurantID, status)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       campaigns,
		"pagination": pagination,
	})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	details, err := c.CampaignService.DetailsWithStats(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// RunCampaign triggers asynchronous execution. The response is 202: the
// run happens in the worker, not in this request.
func (c *CampaignController) RunCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	if err := c.CampaignService.TriggerRun(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":     "campaign execution started",
		"campaign_id": id,
	})
}

func (c *CampaignController) PauseCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	if err := c.CampaignService.Pause(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "campaign paused",
		"campaign_id": id,
	})
}

func (c *CampaignController) PreviewCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	var body struct {
		CustomerID int `json:"customer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rendered, err := c.CampaignService.RenderPreview(r.Context(), id, body.CustomerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rendered_message": rendered,
		"customer_id":      body.CustomerID,
	})
}

func (c *CampaignController) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	events, total, err := c.Events.ListByCampaign(r.Context(), id, (page-1)*pageSize, pageSize)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": events,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
		},
	})
}
