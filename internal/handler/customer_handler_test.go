// internal/handler/customer_handler_test.go
package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablepulse/crm-backend/internal/apperrors"
	"github.com/tablepulse/crm-backend/internal/handler"
	"github.com/tablepulse/crm-backend/internal/model"
	"github.com/tablepulse/crm-backend/internal/segment"
)

// stubCustomerRepo returns canned results for the handler tests.
type stubCustomerRepo struct {
	createErr error
}

func (r *stubCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = 1
	return nil
}

func (r *stubCustomerRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	return nil, apperrors.NewCustomerNotFound(id)
}

func (r *stubCustomerRepo) ListByRestaurant(ctx context.Context, restaurantID int) ([]model.Customer, error) {
	return nil, nil
}

func (r *stubCustomerRepo) ListBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]model.Customer, error) {
	return nil, nil
}

func (r *stubCustomerRepo) IDsBySegment(ctx context.Context, restaurantID int, rule segment.Rule, now time.Time) ([]int, error) {
	return nil, nil
}

func (r *stubCustomerRepo) GetByIDs(ctx context.Context, ids []int) ([]model.Customer, error) {
	return nil, nil
}

func postCustomer(t *testing.T, h *handler.CustomerHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateCustomer(rec, req)
	return rec
}

func TestCreateCustomer_Created(t *testing.T) {
	h := &handler.CustomerHandler{Customers: &stubCustomerRepo{}}

	rec := postCustomer(t, h, `{"restaurant_id":1,"email":"a@example.com","first_name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@example.com")
}

func TestCreateCustomer_DuplicateEmailConflicts(t *testing.T) {
	h := &handler.CustomerHandler{Customers: &stubCustomerRepo{
		createErr: apperrors.NewDuplicateCustomer(1, "a@example.com"),
	}}

	rec := postCustomer(t, h, `{"restaurant_id":1,"email":"a@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestCreateCustomer_UnknownRestaurantIsNotFound(t *testing.T) {
	h := &handler.CustomerHandler{Customers: &stubCustomerRepo{
		createErr: apperrors.NewRestaurantNotFound(99),
	}}

	rec := postCustomer(t, h, `{"restaurant_id":99,"email":"a@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
