// internal/model/outreach_event.go
package model

import "time"

// OutreachEvent statuses: queued -> {sent, failed}. failed events are
// picked up again on a later run; sent and skipped are terminal. The
// pipeline never assigns skipped itself, it is reserved for out-of-band
// suppression (e.g. unsubscribe).
const (
	EventStatusQueued  = "queued"
	EventStatusSent    = "sent"
	EventStatusFailed  = "failed"
	EventStatusSkipped = "skipped"
)

const ChannelEmail = "email"

// OutreachEvent is unique per (campaign, customer); that constraint is
// the idempotency key for campaign runs.
type OutreachEvent struct {
	ID           int        `db:"id" json:"id"`
	CampaignID   int        `db:"campaign_id" json:"campaign_id"`
	CustomerID   int        `db:"customer_id" json:"customer_id"`
	Channel      string     `db:"channel" json:"channel"`
	Status       string     `db:"status" json:"status"`
	ErrorMessage string     `db:"error_message" json:"error_message,omitempty"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Terminal reports whether a run should leave the event untouched.
func (e *OutreachEvent) Terminal() bool {
	return e.Status == EventStatusSent || e.Status == EventStatusSkipped
}
