package services_test

import (
	"context"
	"sync"
	"time"

	"orderuz/internal/models"

	"github.com/stretchr/testify/mock"
)

// fakeClock is a manually advanced clock safe for use from tracker goroutines.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e models.OrderEvent) bool { return e.Type == eventType })
}

var plov = models.CartLine{ItemID: "food-1", RestaurantID: "res-2", Name: "Wedding Plov Special", UnitPrice: 45000}
var shashlik = models.CartLine{ItemID: "food-2", RestaurantID: "res-1", Name: "Mixed Shashlik Platter", UnitPrice: 68000}
