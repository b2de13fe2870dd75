// internal/model/visit.go
package model

import "time"

// Visit is immutable once recorded. Spend is integer cents.
type Visit struct {
	ID         int       `db:"id" json:"id"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	VisitedAt  time.Time `db:"visited_at" json:"visited_at"`
	SpendCents int64     `db:"spend_cents" json:"spend_cents"`
}
