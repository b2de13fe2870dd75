// internal/repository/customer_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/segment"
)

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	ListByRestaurant(ctx context.Context, restaurantID int) ([]model.Customer, error)
	ListBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]model.Customer, error)
	IDsBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]int, error)
	GetByIDs(ctx context.Context, ids []int) ([]model.Customer, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, restaurant_id, email, first_name, last_name, total_spend_cents, last_visit_at, created_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.RestaurantID, &c.Email, &c.FirstName, &c.LastName,
		&c.TotalSpendCents, &c.LastVisitAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO customers (restaurant_id, email, first_name, last_name, total_spend_cents, created_at)
        VALUES ($1, $2, $3, $4, 0, $5)
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query, c.RestaurantID, c.Email, c.FirstName, c.LastName, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return translateCustomerInsertErr(err, c)
	}
	return nil
}

// translateCustomerInsertErr turns the driver's constraint violations
// into the typed errors the HTTP layer maps to status codes: the
// (restaurant_id, email) unique key and the restaurant foreign key.
func translateCustomerInsertErr(err error, c *model.Customer) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return apperrors.NewDuplicateCustomer(c.RestaurantID, c.Email)
		case "foreign_key_violation":
			return apperrors.NewRestaurantNotFound(c.RestaurantID)
		}
	}
	return fmt.Errorf("insert customer: %w", err)
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCustomerNotFound(id)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE restaurant_id=$1 ORDER BY created_at DESC`
	return r.queryCustomers(ctx, query, restaurantID)
}

// ListBySegment applies the segment rule as a SQL condition on top of
// the restaurant scope, so only matching rows come back.
func (r *CustomerRepository) ListBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]model.Customer, error) {
	cond, condArgs, err := rule.Clause(2, now)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE restaurant_id=$1 AND ` + cond + ` ORDER BY id`
	args := append([]interface{}{restaurantID}, condArgs...)
	return r.queryCustomers(ctx, query, args...)
}

// IDsBySegment is the pipeline's audience query: ids only, the rows are
// loaded batch by batch afterwards.
func (r *CustomerRepository) IDsBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]int, error) {
	cond, condArgs, err := rule.Clause(2, now)
	if err != nil {
		return nil, err
	}
	query := `SELECT id FROM customers WHERE restaurant_id=$1 AND ` + cond + ` ORDER BY id`
	args := append([]interface{}{restaurantID}, condArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("segment customer ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CustomerRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Customer, error) {
	if len(ids) == 0 {
		return []model.Customer{}, nil
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ANY($1) ORDER BY id`
	ids64 := make([]int64, len(ids))
	for i, id := range ids {
		ids64[i] = int64(id)
	}
	return r.queryCustomers(ctx, query, pq.Array(ids64))
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
