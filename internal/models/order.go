package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPreparing  OrderStatus = "preparing"
	StatusDelivering OrderStatus = "delivering"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether the order is still moving through delivery.
func (s OrderStatus) Active() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusDelivering
}

// TrackingStageNames are the canonical delivery milestones, in order.
var TrackingStageNames = []string{"Order Confirmed", "Preparing", "Delivery"}

// DefaultEstimatedTime is shown on every new order.
const DefaultEstimatedTime = "25-35 min"

// TrackingStage is one milestone in an order's delivery timeline.
type TrackingStage struct {
	Name      string     `json:"name"`
	Completed bool       `json:"completed"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Order is a snapshot of cart lines placed with one restaurant.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	AccountID       string          `json:"account_id" gorm:"index;type:varchar(36)"`
	RestaurantID    string          `json:"restaurant_id" gorm:"type:varchar(64)"`
	RestaurantName  string          `json:"restaurant_name"`
	Lines           []CartLine      `json:"lines" gorm:"serializer:json"`
	TotalAmount     int64           `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address"`
	DeliveryPhone   string          `json:"delivery_phone,omitempty"`
	EstimatedTime   string          `json:"estimated_time"`
	Status          OrderStatus     `json:"status" gorm:"index;type:varchar(16)"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	TrackingStages  []TrackingStage `json:"tracking_stages" gorm:"serializer:json"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (o Order) Clone() Order {
	c := o
	c.Lines = append([]CartLine(nil), o.Lines...)
	c.TrackingStages = make([]TrackingStage, len(o.TrackingStages))
	for i, st := range o.TrackingStages {
		c.TrackingStages[i] = st
		if st.Timestamp != nil {
			ts := *st.Timestamp
			c.TrackingStages[i].Timestamp = &ts
		}
	}
	if o.CompletedAt != nil {
		ts := *o.CompletedAt
		c.CompletedAt = &ts
	}
	return c
}

// OrderEvent is published to the message broker after an order commit.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	AccountID string      `json:"account_id"`
	Status    OrderStatus `json:"status"`
	Total     int64       `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

// Key identifies the stream an event belongs to: the order, or the account
// for account-wide events such as a history clear.
func (e OrderEvent) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.AccountID
}

const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderTrackingUpdated = "order.tracking_updated"
	EventOrderHistoryClear    = "order.history_cleared"
)
