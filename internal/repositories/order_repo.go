package repositories

import (
	"orderuz/internal/models"
)

// OrderRepository defines the interface for order data access.
// Implementations return orders sorted by creation time.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByAccount(accountID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
	// DeleteTerminal removes the account's completed and cancelled orders
	// and reports how many were removed.
	DeleteTerminal(accountID string) (int, error)
}
