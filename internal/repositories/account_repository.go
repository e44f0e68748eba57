package repositories

import "orderuz/internal/models"

// AccountRepository defines the interface for account data access.
type AccountRepository interface {
	Create(account *models.Account) error
	GetByEmail(email string) (*models.Account, error)
	GetByID(id string) (*models.Account, error)
	Update(account *models.Account) error
	// Mutate applies fn to the stored account and saves the result as one
	// atomic step. An error from fn aborts the write and is returned as is,
	// except ErrUnchanged, which returns the current account.
	Mutate(id string, fn func(*models.Account) error) (*models.Account, error)
	Delete(id string) error
}
