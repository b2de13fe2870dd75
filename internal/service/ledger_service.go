// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/repository"
)

// LedgerService records visits and keeps customer aggregates consistent
// with the visit set. The locked read-modify-write lives in the visit
// repository; this layer validates input and defaults the timestamp.
type LedgerService struct {
	Visits repository.VisitRepositoryInterface
	Log    zerolog.Logger
	Now    func() time.Time
}

func NewLedgerService(visits repository.VisitRepositoryInterface, log zerolog.Logger) *LedgerService {
	return &LedgerService{Visits: visits, Log: log, Now: time.Now}
}

// RecordVisit creates a visit for the customer. occurredAt defaults to
// the current time when nil.
func (s *LedgerService) RecordVisit(ctx context.Context, customerID int, spendCents int64, occurredAt *time.Time) (*model.Visit, error) {
	if spendCents < 0 {
		return nil, fmt.Errorf("spend_cents must be >= 0, got %d", spendCents)
	}

	visitedAt := s.Now()
	if occurredAt != nil {
		visitedAt = *occurredAt
	}

	visit, err := s.Visits.RecordVisit(ctx, customerID, spendCents, visitedAt)
	if err != nil {
		return nil, err
	}

	s.Log.Debug().
		Int("customer_id", customerID).
		Int64("spend_cents", spendCents).
		Time("visited_at", visitedAt).
		Msg("visit recorded")
	return visit, nil
}
