package services

import (
	"context"
	"errors"

	"orderuz/internal/models"
)

var (
	// ErrInvalidStatus is returned for a status outside the order enum.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrEmptyCart is returned when checking out a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnavailable is returned when adding a dish that is not on sale.
	ErrUnavailable = errors.New("item is not available")
	// ErrInvalidComment is returned for blank or oversized comment text.
	ErrInvalidComment = errors.New("comment text must be 1-500 characters")
)

// EventPublisher delivers order lifecycle events to a message broker.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// OrderChange is pushed to order subscribers after every committed mutation.
// Order is the committed snapshot; it is zero for history clears.
type OrderChange struct {
	Type      string
	AccountID string
	Order     models.Order
	Removed   int
}

// CartChange is pushed to cart subscribers after every committed mutation.
type CartChange struct {
	Session string
	Summary models.CartSummary
}

// FollowChange is pushed to follow subscribers after a membership change.
type FollowChange struct {
	AccountID    string
	RestaurantID string
	Following    bool
}
