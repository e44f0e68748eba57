package repositories

import (
	"errors"
	"fmt"
	"sync"

	"orderuz/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMAccountRepository is a GORM implementation of AccountRepository.
type GORMAccountRepository struct {
	db *gorm.DB
	// mu serializes Mutate within the process; the row lock covers other
	// processes on databases that support it.
	mu sync.Mutex
}

// NewGORMAccountRepository creates a new instance of GORMAccountRepository.
func NewGORMAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{
		db: db,
	}
}

// Create creates a new account in the database.
func (r *GORMAccountRepository) Create(account *models.Account) error {
	if _, err := r.GetByEmail(account.Email); err == nil {
		return fmt.Errorf("email %s: %w", account.Email, ErrEmailTaken)
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email, ignoring case.
func (r *GORMAccountRepository) GetByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by email %s: %w", email, err)
	}
	return &account, nil
}

// GetByID retrieves an account by its ID.
func (r *GORMAccountRepository) GetByID(id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID %s: %w", id, err)
	}
	return &account, nil
}

// Update saves every column of an existing account.
func (r *GORMAccountRepository) Update(account *models.Account) error {
	res := r.db.Model(&models.Account{}).Where("id = ?", account.ID).Select("*").Omit("created_at").Updates(account)
	if res.Error != nil {
		return fmt.Errorf("failed to update account %s: %w", account.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s for update: %w", account.ID, ErrNotFound)
	}
	return nil
}

// Mutate applies fn to the account inside a transaction holding its row lock.
func (r *GORMAccountRepository) Mutate(id string, fn func(*models.Account) error) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var account models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("account %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to lock account %s: %w", id, err)
		}
		if err := fn(&account); err != nil {
			return err
		}
		account.ID = id
		if err := tx.Model(&models.Account{}).Where("id = ?", id).Select("*").Omit("created_at").Updates(&account).Error; err != nil {
			return fmt.Errorf("failed to update account %s: %w", id, err)
		}
		return nil
	})
	if errors.Is(err, ErrUnchanged) {
		return r.GetByID(id)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes an account by its ID.
func (r *GORMAccountRepository) Delete(id string) error {
	res := r.db.Delete(&models.Account{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}
