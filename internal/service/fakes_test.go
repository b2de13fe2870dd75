// internal/service/fakes_test.go
package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/segment"
)

// memStore is an in-memory stand-in for the Postgres repositories,
// shared by the fake repo types below.
type memStore struct {
	mu          sync.Mutex
	restaurants map[int]*model.Restaurant
	campaigns   map[int]*model.Campaign
	customers   map[int]*model.Customer
	events      map[int]*model.OutreachEvent
	eventByPair map[[2]int]int
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: map[int]*model.Restaurant{},
		campaigns:   map[int]*model.Campaign{},
		customers:   map[int]*model.Customer{},
		events:      map[int]*model.OutreachEvent{},
		eventByPair: map[[2]int]int{},
		nextID:      1,
	}
}

func (s *memStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) addRestaurant(name string) *model.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &model.Restaurant{ID: s.id(), Name: name, Timezone: "UTC"}
	s.restaurants[r.ID] = r
	return r
}

func (s *memStore) addCustomer(restaurantID int, email, firstName string, lastVisit *time.Time, spend int64) *model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Customer{
		ID:              s.id(),
		RestaurantID:    restaurantID,
		Email:           email,
		FirstName:       firstName,
		TotalSpendCents: spend,
		LastVisitAt:     lastVisit,
	}
	s.customers[c.ID] = c
	return c
}

func (s *memStore) addCampaign(restaurantID int, segmentType string, segmentValue int64, template string) *model.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &model.Campaign{
		ID:              s.id(),
		RestaurantID:    restaurantID,
		Name:            "test campaign",
		Status:          model.CampaignStatusDraft,
		SegmentType:     segmentType,
		SegmentValue:    segmentValue,
		MessageTemplate: template,
	}
	s.campaigns[c.ID] = c
	return c
}

func (s *memStore) eventFor(campaignID, customerID int) *model.OutreachEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.eventByPair[[2]int{campaignID, customerID}]
	if !ok {
		return nil
	}
	e := *s.events[id]
	return &e
}

// ---- fake repositories ----

type fakeRestaurantRepo struct{ s *memStore }

func (r *fakeRestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rest.ID = r.s.id()
	r.s.restaurants[rest.ID] = rest
	return nil
}

func (r *fakeRestaurantRepo) GetByID(ctx context.Context, id int) (*model.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rest, ok := r.s.restaurants[id]
	if !ok {
		return nil, apperrors.NewRestaurantNotFound(id)
	}
	return rest, nil
}

func (r *fakeRestaurantRepo) List(ctx context.Context) ([]model.Restaurant, error) {
	return nil, nil
}

type fakeCampaignRepo struct {
	s *memStore
	// statusErr, when set, fails GetStatus to simulate a storage outage
	// mid-run. completeErr fails only the UpdateStatus call that would
	// mark the campaign completed.
	statusErr   error
	completeErr error
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	r.s.campaigns[c.ID] = c
	return nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, apperrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) GetStatus(ctx context.Context, id int) (string, error) {
	if r.statusErr != nil {
		return "", r.statusErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return "", apperrors.NewCampaignNotFound(id)
	}
	return c.Status, nil
}

func (r *fakeCampaignRepo) UpdateStatus(ctx context.Context, id int, status string) error {
	if r.completeErr != nil && status == model.CampaignStatusCompleted {
		return r.completeErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.campaigns[id]
	if !ok {
		return apperrors.NewCampaignNotFound(id)
	}
	c.Status = status
	return nil
}

func (r *fakeCampaignRepo) List(ctx context.Context, offset, limit, restaurantID int, status string) ([]*model.Campaign, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []*model.Campaign{}
	for _, c := range r.s.campaigns {
		if restaurantID > 0 && c.RestaurantID != restaurantID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeCampaignRepo) EventStats(ctx context.Context, campaignID int) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := map[string]int{
		"total":                  0,
		model.EventStatusQueued:  0,
		model.EventStatusSent:    0,
		model.EventStatusFailed:  0,
		model.EventStatusSkipped: 0,
	}
	for _, e := range r.s.events {
		if e.CampaignID != campaignID {
			continue
		}
		stats[e.Status]++
		stats["total"]++
	}
	return stats, nil
}

type fakeCustomerRepo struct{ s *memStore }

func (r *fakeCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	r.s.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, apperrors.NewCustomerNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) ListByRestaurant(ctx context.Context, restaurantID int) ([]model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Customer{}
	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) ListBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]model.Customer, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Customer{}
	for _, c := range r.s.customers {
		if c.RestaurantID == restaurantID && rule.Matches(c, now) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCustomerRepo) IDsBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]int, error) {
	customers, err := r.ListBySegment(ctx, restaurantID, rule, now)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	return ids, nil
}

func (r *fakeCustomerRepo) GetByIDs(ctx context.Context, ids []int) ([]model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Customer{}
	for _, id := range ids {
		if c, ok := r.s.customers[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeEventRepo struct{ s *memStore }

func (r *fakeEventRepo) GetOrCreate(ctx context.Context, campaignID, customerID int) (*model.OutreachEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]int{campaignID, customerID}
	if id, ok := r.s.eventByPair[key]; ok {
		e := *r.s.events[id]
		return &e, nil
	}
	e := &model.OutreachEvent{
		ID:         r.s.id(),
		CampaignID: campaignID,
		CustomerID: customerID,
		Channel:    model.ChannelEmail,
		Status:     model.EventStatusQueued,
	}
	r.s.events[e.ID] = e
	r.s.eventByPair[key] = e.ID
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) MarkSent(ctx context.Context, id int, sentAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return fmt.Errorf("event %d not found", id)
	}
	e.Status = model.EventStatusSent
	e.SentAt = &sentAt
	e.ErrorMessage = ""
	return nil
}

func (r *fakeEventRepo) MarkFailed(ctx context.Context, id int, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return fmt.Errorf("event %d not found", id)
	}
	e.Status = model.EventStatusFailed
	e.ErrorMessage = reason
	return nil
}

func (r *fakeEventRepo) ListByCampaign(ctx context.Context, campaignID, offset, limit int) ([]model.OutreachEvent, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.OutreachEvent{}
	for _, e := range r.s.events {
		if e.CampaignID == campaignID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

// fakeSender records attempts and fails recipients listed in failWith.
type fakeSender struct {
	mu       sync.Mutex
	attempts map[string]int
	failWith map[string]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{attempts: map[string]int{}, failWith: map[string]error{}}
}

func (s *fakeSender) Send(ctx context.Context, recipient, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[recipient]++
	if err, ok := s.failWith[recipient]; ok {
		return err
	}
	return ctx.Err()
}

// fakeQueue records published run jobs.
type fakeQueue struct {
	mu        sync.Mutex
	published []int
	err       error
}

func (q *fakeQueue) PublishRunCampaign(ctx context.Context, campaignID int) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, campaignID)
	return nil
}

func (q *fakeQueue) Close() error { return nil }
