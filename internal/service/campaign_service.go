// internal/service/campaign_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/queue"
	"github.com/tablepulse/crm-backend/internal/repository"
	"github.com/tablepulse/crm-backend/internal/segment"
)

type CampaignService struct {
	Campaigns   repository.CampaignRepositoryInterface
	Customers   repository.CustomerRepositoryInterface
	Restaurants repository.RestaurantRepositoryInterface
	Queue       queue.TaskQueue
	Log         zerolog.Logger
}

// CampaignDetails is a campaign plus its outreach event counts.
type CampaignDetails struct {
	model.Campaign
	Stats map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(ctx context.Context, c *model.Campaign) (*model.Campaign, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("campaign name cannot be empty")
	}
	if strings.TrimSpace(c.MessageTemplate) == "" {
		return nil, fmt.Errorf("message template cannot be empty")
	}
	rule := segment.Rule{Kind: c.SegmentType, Value: c.SegmentValue}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Restaurants.GetByID(ctx, c.RestaurantID); err != nil {
		return nil, err
	}

	c.Status = model.CampaignStatusDraft
	if err := s.Campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// TriggerRun moves a draft or paused campaign to running and enqueues
// the run job. A paused campaign resumes where it left off; the event
// rows carry the progress.
func (s *CampaignService) TriggerRun(ctx context.Context, campaignID int) error {
	campaign, err := s.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != model.CampaignStatusDraft && campaign.Status != model.CampaignStatusPaused {
		return apperrors.NewInvalidTransition(campaign.Status, "run")
	}

	// Enqueue before flipping the status: a broker failure must leave
	// the campaign re-triggerable, not running with no job behind it.
	if err := s.Queue.PublishRunCampaign(ctx, campaignID); err != nil {
		return fmt.Errorf("enqueue campaign run: %w", err)
	}
	if err := s.Campaigns.UpdateStatus(ctx, campaignID, model.CampaignStatusRunning); err != nil {
		return err
	}
	s.Log.Info().Int("campaign_id", campaignID).Msg("campaign run triggered")
	return nil
}

// Pause requests a running campaign to stop. The runner notices the
// status change at its next batch boundary; events already sent stay
// sent.
func (s *CampaignService) Pause(ctx context.Context, campaignID int) error {
	campaign, err := s.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status != model.CampaignStatusRunning {
		return apperrors.NewInvalidTransition(campaign.Status, "pause")
	}
	if err := s.Campaigns.UpdateStatus(ctx, campaignID, model.CampaignStatusPaused); err != nil {
		return err
	}
	s.Log.Info().Int("campaign_id", campaignID).Msg("campaign paused")
	return nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, page, pageSize, restaurantID int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.Campaigns.List(ctx, offset, pageSize, restaurantID, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return campaigns, pagination, nil
}

func (s *CampaignService) DetailsWithStats(ctx context.Context, campaignID int) (*CampaignDetails, error) {
	campaign, err := s.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Campaigns.EventStats(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{Campaign: *campaign, Stats: stats}, nil
}

// RenderPreview renders the campaign template against one customer.
func (s *CampaignService) RenderPreview(ctx context.Context, campaignID, customerID int) (string, error) {
	campaign, err := s.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return "", err
	}
	customer, err := s.Customers.GetByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	return RenderTemplate(campaign.MessageTemplate, map[string]string{
		"first_name": customer.FirstName,
	})
}
