package repositories

import (
	"fmt"
	"sync"

	"orderuz/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	ids    []string // insertion order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.ids))
	for _, id := range r.ids {
		orderList = append(orderList, r.orders[id].Clone())
	}
	return orderList, nil
}

// GetByAccount returns the orders owned by accountID.
func (r *MockOrderRepository) GetByAccount(accountID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := []models.Order{}
	for _, id := range r.ids {
		if o := r.orders[id]; o.AccountID == accountID {
			orderList = append(orderList, o.Clone())
		}
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	c := order.Clone()
	return &c, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	r.orders[order.ID] = order.Clone()
	r.ids = append(r.ids, order.ID)
	return nil
}

// Update replaces a stored order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order %s for update: %w", order.ID, ErrNotFound)
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

// DeleteTerminal removes the account's completed and cancelled orders.
func (r *MockOrderRepository) DeleteTerminal(accountID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.ids[:0]
	removed := 0
	for _, id := range r.ids {
		o := r.orders[id]
		if o.AccountID == accountID && o.Status.Terminal() {
			delete(r.orders, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.ids = kept
	return removed, nil
}
