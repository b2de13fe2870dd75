// internal/repository/outreach_event_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablepulse/crm-backend/internal/model"
)

type OutreachEventRepositoryInterface interface {
	GetOrCreate(ctx context.Context, campaignID, customerID int) (*model.OutreachEvent, error)
	MarkSent(ctx context.Context, id int, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int, reason string) error
	ListByCampaign(ctx context.Context, campaignID, offset, limit int) ([]model.OutreachEvent, int, error)
}

type OutreachEventRepository struct {
	DB *sql.DB
}

const eventColumns = `id, campaign_id, customer_id, channel, status, COALESCE(error_message, ''), sent_at, created_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*model.OutreachEvent, error) {
	var e model.OutreachEvent
	err := row.Scan(&e.ID, &e.CampaignID, &e.CustomerID, &e.Channel,
		&e.Status, &e.ErrorMessage, &e.SentAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetOrCreate obtains the single event for a (campaign, customer) pair.
// The insert races with concurrent runs through ON CONFLICT DO NOTHING
// against the unique key, then the winner's row is read back, so the
// pair never yields two rows.
func (r *OutreachEventRepository) GetOrCreate(ctx context.Context, campaignID, customerID int) (*model.OutreachEvent, error) {
	insert := `
        INSERT INTO outreach_events (campaign_id, customer_id, channel, status, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (campaign_id, customer_id) DO NOTHING
        RETURNING ` + eventColumns + `
    `
	e, err := scanEvent(r.DB.QueryRowContext(ctx, insert, campaignID, customerID, model.ChannelEmail, model.EventStatusQueued))
	if err == nil {
		return e, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("insert outreach event: %w", err)
	}

	// Conflict: the row already exists, fetch it.
	query := `SELECT ` + eventColumns + ` FROM outreach_events WHERE campaign_id=$1 AND customer_id=$2`
	e, err = scanEvent(r.DB.QueryRowContext(ctx, query, campaignID, customerID))
	if err != nil {
		return nil, fmt.Errorf("get outreach event: %w", err)
	}
	return e, nil
}

func (r *OutreachEventRepository) MarkSent(ctx context.Context, id int, sentAt time.Time) error {
	query := `UPDATE outreach_events SET status=$1, sent_at=$2, error_message=NULL WHERE id=$3`
	_, err := r.DB.ExecContext(ctx, query, model.EventStatusSent, sentAt, id)
	if err != nil {
		return fmt.Errorf("mark event sent: %w", err)
	}
	return nil
}

func (r *OutreachEventRepository) MarkFailed(ctx context.Context, id int, reason string) error {
	query := `UPDATE outreach_events SET status=$1, error_message=$2 WHERE id=$3`
	_, err := r.DB.ExecContext(ctx, query, model.EventStatusFailed, reason, id)
	if err != nil {
		return fmt.Errorf("mark event failed: %w", err)
	}
	return nil
}

func (r *OutreachEventRepository) ListByCampaign(ctx context.Context, campaignID, offset, limit int) ([]model.OutreachEvent, int, error) {
	var total int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM outreach_events WHERE campaign_id=$1`, campaignID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count outreach events: %w", err)
	}

	query := `
        SELECT ` + eventColumns + `
        FROM outreach_events
        WHERE campaign_id=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.DB.QueryContext(ctx, query, campaignID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list outreach events: %w", err)
	}
	defer rows.Close()

	events := []model.OutreachEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *e)
	}
	return events, total, rows.Err()
}

var _ OutreachEventRepositoryInterface = (*OutreachEventRepository)(nil)
