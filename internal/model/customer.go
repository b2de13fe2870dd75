// internal/model/customer.go
package model

import "time"

// Customer carries derived aggregates maintained by the ledger:
// TotalSpendCents is the sum of all visit spends and LastVisitAt the
// latest visit timestamp (nil when the customer never visited).
type Customer struct {
	ID              int        `db:"id" json:"id"`
	RestaurantID    int        `db:"restaurant_id" json:"restaurant_id"`
	Email           string     `db:"email" json:"email"`
	FirstName       string     `db:"first_name" json:"first_name"`
	LastName        string     `db:"last_name" json:"last_name"`
	TotalSpendCents int64      `db:"total_spend_cents" json:"total_spend_cents"`
	LastVisitAt     *time.Time `db:"last_visit_at" json:"last_visit_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// ApplyVisit folds one visit into the aggregates. LastVisitAt only moves
// forward: it is set when nil or when visitedAt is strictly later.
func (c *Customer) ApplyVisit(spendCents int64, visitedAt time.Time) {
	c.TotalSpendCents += spendCents
	if c.LastVisitAt == nil || visitedAt.After(*c.LastVisitAt) {
		t := visitedAt
		c.LastVisitAt = &t
	}
}
