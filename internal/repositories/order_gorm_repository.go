package repositories

import (
	"errors"
	"fmt"

	"orderuz/internal/models"

	"gorm.io/gorm"
)

var terminalStatuses = []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}

// GORMOrderRepository is a GORM implementation of OrderRepository.
// Lines and tracking stages are stored as JSON columns.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// GetAll retrieves all orders from the database.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByAccount retrieves the orders owned by accountID.
func (r *GORMOrderRepository) GetByAccount(accountID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("account_id = ?", accountID).Order("created_at asc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for account %s: %w", accountID, err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update saves every column of an existing order.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Select("*").Updates(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s for update: %w", order.ID, ErrNotFound)
	}
	return nil
}

// DeleteTerminal removes the account's completed and cancelled orders.
func (r *GORMOrderRepository) DeleteTerminal(accountID string) (int, error) {
	res := r.db.Where("account_id = ? AND status IN ?", accountID, terminalStatuses).Delete(&models.Order{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear order history for %s: %w", accountID, res.Error)
	}
	return int(res.RowsAffected), nil
}
