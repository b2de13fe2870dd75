// internal/repository/campaign_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, id int) (*model.Campaign, error)
	GetStatus(ctx context.Context, id int) (string, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	List(ctx context.Context, offset, limit, restaurantID int, status string) ([]*model.Campaign, int, error)
	EventStats(ctx context.Context, campaignID int) (map[string]int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, restaurant_id, name, status, segment_type, segment_value, message_template, created_at`

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	c.CreatedAt = time.Now()
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (restaurant_id, name, status, segment_type, segment_value, message_template, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	return r.DB.QueryRowContext(ctx, query,
		c.RestaurantID, c.Name, c.Status, c.SegmentType, c.SegmentValue, c.MessageTemplate, c.CreatedAt,
	).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	var c model.Campaign
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.RestaurantID, &c.Name, &c.Status,
		&c.SegmentType, &c.SegmentValue, &c.MessageTemplate, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return &c, nil
}

// GetStatus is the cheap status probe the runner uses between batches
// to notice an external pause.
func (r *CampaignRepository) GetStatus(ctx context.Context, id int) (string, error) {
	var status string
	err := r.DB.QueryRowContext(ctx, `SELECT status FROM campaigns WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperrors.NewCampaignNotFound(id)
		}
		return "", fmt.Errorf("get campaign status: %w", err)
	}
	return status, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE campaigns SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewCampaignNotFound(id)
	}
	return nil
}

func (r *CampaignRepository) List(ctx context.Context, offset, limit, restaurantID int, status string) ([]*model.Campaign, int, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if restaurantID > 0 {
		cond := fmt.Sprintf(" AND restaurant_id=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, restaurantID)
		argPos++
	}
	if status != "" {
		cond := fmt.Sprintf(" AND status=$%d", argPos)
		query += cond
		countQuery += cond
		args = append(args, status)
		argPos++
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Status,
			&c.SegmentType, &c.SegmentValue, &c.MessageTemplate, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}

// EventStats returns outreach event counts by status plus a total.
func (r *CampaignRepository) EventStats(ctx context.Context, campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM outreach_events WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("campaign event stats: %w", err)
	}
	defer rows.Close()

	stats := map[string]int{
		"total":                  0,
		model.EventStatusQueued:  0,
		model.EventStatusSent:    0,
		model.EventStatusFailed:  0,
		model.EventStatusSkipped: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		if _, ok := stats[status]; ok {
			stats[status] = count
		}
		stats["total"] += count
	}
	return stats, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
