package repositories

import (
	"context"
	"sync"

	"orderuz/internal/models"
)

// MockCartRepository keeps carts in process memory.
type MockCartRepository struct {
	carts map[string][]models.CartLine
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string][]models.CartLine),
	}
}

// Get returns a copy of the session's lines.
func (r *MockCartRepository) Get(_ context.Context, session string) ([]models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.CartLine{}, r.carts[session]...), nil
}

// Save replaces the session's lines. An empty cart is removed.
func (r *MockCartRepository) Save(_ context.Context, session string, lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(lines) == 0 {
		delete(r.carts, session)
		return nil
	}
	r.carts[session] = append([]models.CartLine(nil), lines...)
	return nil
}

// Delete drops the session's cart.
func (r *MockCartRepository) Delete(_ context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, session)
	return nil
}
