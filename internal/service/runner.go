// internal/service/runner.go
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/repository"
	"github.com/tablepulse/crm-backend/internal/segment"
)

const defaultBatchSize = 200

// Runner executes campaigns: it selects the segment audience, creates
// outreach events idempotently, delivers through the injected Sender and
// finalizes the campaign status. Re-running is safe: events already sent
// or skipped are never touched again, queued and failed ones are
// (re)attempted.
type Runner struct {
	Campaigns repository.CampaignRepositoryInterface
	Customers repository.CustomerRepositoryInterface
	Events    repository.OutreachEventRepositoryInterface
	Sender    Sender
	Log       zerolog.Logger

	// Now and BatchSize are overridable for tests; zero values fall back
	// to time.Now and defaultBatchSize.
	Now         func() time.Time
	BatchSize   int
	SendTimeout time.Duration
}

// RunResult aggregates per-event outcomes of one run.
type RunResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) batchSize() int {
	if r.BatchSize > 0 {
		return r.BatchSize
	}
	return defaultBatchSize
}

// Run processes one campaign to completion. A missing campaign or an
// unknown segment kind aborts before any event is created, leaving the
// campaign status untouched. Any other error parks the campaign in
// paused (best effort) and is returned to the caller; individual send or
// render failures are captured per event and do not fail the run.
func (r *Runner) Run(ctx context.Context, campaignID int) (*RunResult, error) {
	campaign, err := r.Campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	log := r.Log.With().Int("campaign_id", campaign.ID).Str("campaign", campaign.Name).Logger()

	rule, err := segment.FromCampaign(campaign)
	if err != nil {
		log.Error().Str("segment_type", campaign.SegmentType).Msg("unknown segment type, aborting run")
		return nil, err
	}

	log.Info().Msg("starting campaign run")
	result, paused, err := r.process(ctx, campaign, rule, log)
	if err != nil {
		log.Error().Err(err).Msg("campaign run failed")
		r.pauseBestEffort(ctx, campaign.ID, log)
		return result, err
	}
	if paused {
		log.Info().
			Int("processed", result.Processed).
			Msg("campaign paused externally, stopping between batches")
		return result, nil
	}

	if err := r.Campaigns.UpdateStatus(ctx, campaign.ID, model.CampaignStatusCompleted); err != nil {
		log.Error().Err(err).Msg("could not mark campaign completed")
		r.pauseBestEffort(ctx, campaign.ID, log)
		return result, err
	}
	log.Info().
		Int("processed", result.Processed).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("campaign completed")
	return result, nil
}

// pauseBestEffort parks a failed campaign in paused so the operator can
// re-trigger it. The pause itself may fail on the same outage; that is
// only logged, the original error is what the caller returns.
func (r *Runner) pauseBestEffort(ctx context.Context, campaignID int, log zerolog.Logger) {
	if err := r.Campaigns.UpdateStatus(ctx, campaignID, model.CampaignStatusPaused); err != nil {
		log.Warn().Err(err).Msg("could not pause campaign after run failure")
	}
}

func (r *Runner) process(ctx context.Context, campaign *model.Campaign, rule segment.Rule, log zerolog.Logger) (*RunResult, bool, error) {
	result := &RunResult{}

	ids, err := r.Customers.IDsBySegment(ctx, campaign.RestaurantID, rule, r.now())
	if err != nil {
		return result, false, err
	}
	log.Info().Int("customers", len(ids)).Msg("segment resolved")

	size := r.batchSize()
	for start := 0; start < len(ids); start += size {
		if start > 0 {
			// Pause is observed between batches, never mid-batch.
			status, err := r.Campaigns.GetStatus(ctx, campaign.ID)
			if err != nil {
				return result, false, err
			}
			if status == model.CampaignStatusPaused {
				return result, true, nil
			}
			if err := ctx.Err(); err != nil {
				return result, false, err
			}
		}

		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		customers, err := r.Customers.GetByIDs(ctx, ids[start:end])
		if err != nil {
			return result, false, err
		}

		for i := range customers {
			if err := r.processCustomer(ctx, campaign, &customers[i], result, log); err != nil {
				return result, false, err
			}
		}
	}
	return result, false, nil
}

// processCustomer handles one (campaign, customer) pair. Returned errors
// are run-level (storage failures); render and send problems are
// recorded on the event and swallowed.
func (r *Runner) processCustomer(ctx context.Context, campaign *model.Campaign, cust *model.Customer, result *RunResult, log zerolog.Logger) error {
	event, err := r.Events.GetOrCreate(ctx, campaign.ID, cust.ID)
	if err != nil {
		return err
	}
	if event.Terminal() {
		return nil
	}

	message, err := RenderTemplate(campaign.MessageTemplate, map[string]string{
		"first_name": cust.FirstName,
	})
	if err != nil {
		log.Warn().Err(err).Int("customer_id", cust.ID).Msg("template render failed")
		if err := r.Events.MarkFailed(ctx, event.ID, err.Error()); err != nil {
			return err
		}
		result.Processed++
		result.Failed++
		return nil
	}

	sendCtx := ctx
	if r.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, r.SendTimeout)
		defer cancel()
	}
	if sendErr := r.Sender.Send(sendCtx, cust.Email, message); sendErr != nil {
		log.Warn().Err(sendErr).Int("customer_id", cust.ID).Msg("send failed")
		if err := r.Events.MarkFailed(ctx, event.ID, sendErr.Error()); err != nil {
			return err
		}
		result.Failed++
	} else {
		if err := r.Events.MarkSent(ctx, event.ID, r.now()); err != nil {
			return err
		}
		result.Sent++
	}
	result.Processed++
	return nil
}
