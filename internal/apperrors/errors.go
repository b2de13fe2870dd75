// internal/apperrors/errors.go
package apperrors

import "fmt"

type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

type ErrRestaurantNotFound struct {
	RestaurantID int
}

func (e *ErrRestaurantNotFound) Error() string {
	return fmt.Sprintf("restaurant with ID %d not found", e.RestaurantID)
}

func NewRestaurantNotFound(id int) error {
	return &ErrRestaurantNotFound{RestaurantID: id}
}

// ErrDuplicateCustomer rejects a second customer with the same email
// within one restaurant.
type ErrDuplicateCustomer struct {
	RestaurantID int
	Email        string
}

func (e *ErrDuplicateCustomer) Error() string {
	return fmt.Sprintf("customer with email %q already exists for restaurant %d", e.Email, e.RestaurantID)
}

func NewDuplicateCustomer(restaurantID int, email string) error {
	return &ErrDuplicateCustomer{RestaurantID: restaurantID, Email: email}
}

// ErrInvalidSegment marks an unrecognized segment kind. The run stops
// before any events are created and the campaign status stays put.
type ErrInvalidSegment struct {
	Kind string
}

func (e *ErrInvalidSegment) Error() string {
	return fmt.Sprintf("unknown segment type: %q", e.Kind)
}

func NewInvalidSegment(kind string) error {
	return &ErrInvalidSegment{Kind: kind}
}

// ErrInvalidTransition rejects a campaign status change that the
// lifecycle does not allow (e.g. running a completed campaign).
type ErrInvalidTransition struct {
	From   string
	Action string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s campaign in status %q", e.Action, e.From)
}

func NewInvalidTransition(from, action string) error {
	return &ErrInvalidTransition{From: from, Action: action}
}
