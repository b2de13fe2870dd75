// internal/segment/segment.go
package segment

import (
	"fmt"
	"time"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
)

// Rule is a segmentation rule: a kind plus one numeric parameter
// (days for inactive_days, cents for high_spenders).
type Rule struct {
	Kind  string
	Value int64
}

// FromCampaign builds the rule a campaign selects its audience with.
func FromCampaign(c *model.Campaign) (Rule, error) {
	r := Rule{Kind: c.SegmentType, Value: c.SegmentValue}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (r Rule) Validate() error {
	switch r.Kind {
	case model.SegmentInactiveDays, model.SegmentHighSpenders:
		return nil
	default:
		return apperrors.NewInvalidSegment(r.Kind)
	}
}

// Matches is the pure form of the rule, used for in-memory composition
// and tests. A customer who never visited counts as inactive for any
// number of days; the high-spender threshold is inclusive.
func (r Rule) Matches(c *model.Customer, now time.Time) bool {
	switch r.Kind {
	case model.SegmentInactiveDays:
		cutoff := now.Add(-time.Duration(r.Value) * 24 * time.Hour)
		return c.LastVisitAt == nil || c.LastVisitAt.Before(cutoff)
	case model.SegmentHighSpenders:
		return c.TotalSpendCents >= r.Value
	default:
		return false
	}
}

// Clause renders the rule as a SQL condition so repositories can push
// the filter down instead of materializing the whole customer set.
// argPos is the first free $n placeholder; the returned args continue
// from there.
func (r Rule) Clause(argPos int, now time.Time) (string, []interface{}, error) {
	switch r.Kind {
	case model.SegmentInactiveDays:
		cutoff := now.Add(-time.Duration(r.Value) * 24 * time.Hour)
		cond := fmt.Sprintf("(last_visit_at IS NULL OR last_visit_at < $%d)", argPos)
		return cond, []interface{}{cutoff}, nil
	case model.SegmentHighSpenders:
		cond := fmt.Sprintf("total_spend_cents >= $%d", argPos)
		return cond, []interface{}{r.Value}, nil
	default:
		return "", nil, apperrors.NewInvalidSegment(r.Kind)
	}
}
