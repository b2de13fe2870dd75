// internal/repository/restaurant_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
)

type RestaurantRepositoryInterface interface {
	Create(ctx context.Context, r *model.Restaurant) error
	GetByID(ctx context.Context, id int) (*model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
}

type RestaurantRepository struct {
	DB *sql.DB
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *model.Restaurant) error {
	rest.CreatedAt = time.Now()
	if rest.Timezone == "" {
		rest.Timezone = "UTC"
	}
	query := `
        INSERT INTO restaurants (name, timezone, created_at)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return r.DB.QueryRowContext(ctx, query, rest.Name, rest.Timezone, rest.CreatedAt).Scan(&rest.ID)
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id int) (*model.Restaurant, error) {
	query := `SELECT id, name, timezone, created_at FROM restaurants WHERE id=$1`
	var rest model.Restaurant
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&rest.ID, &rest.Name, &rest.Timezone, &rest.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewRestaurantNotFound(id)
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	query := `SELECT id, name, timezone, created_at FROM restaurants ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []model.Restaurant{}
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Timezone, &rest.CreatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

var _ RestaurantRepositoryInterface = (*RestaurantRepository)(nil)
