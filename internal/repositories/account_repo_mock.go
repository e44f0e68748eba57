package repositories

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"orderuz/internal/models"

	"github.com/google/uuid"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	accounts map[string]models.Account
	mu       sync.RWMutex
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// Create adds a new account. Emails are unique case-insensitively.
func (r *MockAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return fmt.Errorf("email %s: %w", account.Email, ErrEmailTaken)
		}
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = account.Clone()
	return nil
}

// GetByEmail returns an account by its email.
func (r *MockAccountRepository) GetByEmail(email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			c := a.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("account with email %s: %w", email, ErrNotFound)
}

// GetByID returns an account by its ID.
func (r *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	c := a.Clone()
	return &c, nil
}

// Update replaces a stored account.
func (r *MockAccountRepository) Update(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return fmt.Errorf("account %s for update: %w", account.ID, ErrNotFound)
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = account.Clone()
	return nil
}

// Mutate applies fn to the stored account under the write lock.
func (r *MockAccountRepository) Mutate(id string, fn func(*models.Account) error) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	account := stored.Clone()
	if err := fn(&account); err != nil {
		if errors.Is(err, ErrUnchanged) {
			c := stored.Clone()
			return &c, nil
		}
		return nil, err
	}
	account.ID = id
	account.UpdatedAt = time.Now()
	r.accounts[id] = account.Clone()
	return &account, nil
}

// Delete removes an account.
func (r *MockAccountRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return fmt.Errorf("account %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.accounts, id)
	return nil
}
