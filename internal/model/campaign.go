// internal/model/campaign.go
package model

import "time"

// Campaign lifecycle: draft -> running -> {paused, completed};
// paused -> running on re-trigger (a re-run resumes, it does not restart).
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusRunning   = "running"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// Segment kinds. SegmentValue is days for inactive_days and cents for
// high_spenders.
const (
	SegmentInactiveDays = "inactive_days"
	SegmentHighSpenders = "high_spenders"
)

type Campaign struct {
	ID              int       `db:"id" json:"id"`
	RestaurantID    int       `db:"restaurant_id" json:"restaurant_id"`
	Name            string    `db:"name" json:"name"`
	Status          string    `db:"status" json:"status"`
	SegmentType     string    `db:"segment_type" json:"segment_type"`
	SegmentValue    int64     `db:"segment_value" json:"segment_value"`
	MessageTemplate string    `db:"message_template" json:"message_template"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
