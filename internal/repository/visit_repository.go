// internal/repository/visit_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
)

type VisitRepositoryInterface interface {
	RecordVisit(ctx context.Context, customerID int, spendCents int64, visitedAt time.Time) (*model.Visit, error)
	ListByCustomer(ctx context.Context, customerID int) ([]model.Visit, error)
}

type VisitRepository struct {
	DB *sql.DB
}

// RecordVisit creates a visit and folds it into the customer aggregates
// in one transaction. The customer row is locked with FOR UPDATE for the
// whole read-modify-write, so concurrent recordings for the same
// customer serialize and no update is lost.
func (r *VisitRepository) RecordVisit(ctx context.Context, customerID int, spendCents int64, visitedAt time.Time) (*model.Visit, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var cust model.Customer
	err = tx.QueryRowContext(ctx, `
        SELECT id, total_spend_cents, last_visit_at
        FROM customers WHERE id=$1
        FOR UPDATE
    `, customerID).Scan(&cust.ID, &cust.TotalSpendCents, &cust.LastVisitAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCustomerNotFound(customerID)
		}
		return nil, fmt.Errorf("lock customer: %w", err)
	}

	visit := &model.Visit{
		CustomerID: customerID,
		VisitedAt:  visitedAt,
		SpendCents: spendCents,
	}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO visits (customer_id, visited_at, spend_cents)
        VALUES ($1, $2, $3)
        RETURNING id
    `, customerID, visitedAt, spendCents).Scan(&visit.ID)
	if err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	cust.ApplyVisit(spendCents, visitedAt)
	_, err = tx.ExecContext(ctx, `
        UPDATE customers SET total_spend_cents=$1, last_visit_at=$2 WHERE id=$3
    `, cust.TotalSpendCents, cust.LastVisitAt, customerID)
	if err != nil {
		return nil, fmt.Errorf("update customer aggregates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit visit: %w", err)
	}
	return visit, nil
}

func (r *VisitRepository) ListByCustomer(ctx context.Context, customerID int) ([]model.Visit, error) {
	query := `
        SELECT id, customer_id, visited_at, spend_cents
        FROM visits WHERE customer_id=$1 ORDER BY visited_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	visits := []model.Visit{}
	for rows.Next() {
		var v model.Visit
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.VisitedAt, &v.SpendCents); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

var _ VisitRepositoryInterface = (*VisitRepository)(nil)
