package services

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"orderuz/internal/models"
	"orderuz/internal/pubsub"
	"orderuz/internal/repositories"

	"github.com/rs/zerolog/log"
)

// FollowService tracks which restaurants each account follows.
// Follow and Unfollow are idempotent.
type FollowService struct {
	accounts repositories.AccountRepository
	hub      *pubsub.Hub[FollowChange]
	mu       sync.Mutex
}

// NewFollowService creates a new FollowService.
func NewFollowService(accounts repositories.AccountRepository) *FollowService {
	return &FollowService{
		accounts: accounts,
		hub:      pubsub.NewHub[FollowChange](),
	}
}

// Subscribe registers fn for every membership change.
func (s *FollowService) Subscribe(fn func(FollowChange)) func() {
	return s.hub.Subscribe(fn)
}

// Follow adds restaurantID to the account's follow set.
func (s *FollowService) Follow(accountID, restaurantID string) error {
	return s.set(accountID, restaurantID, true)
}

// Unfollow removes restaurantID from the account's follow set.
func (s *FollowService) Unfollow(accountID, restaurantID string) error {
	return s.set(accountID, restaurantID, false)
}

func (s *FollowService) set(accountID, restaurantID string, follow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	_, err := s.accounts.Mutate(accountID, func(account *models.Account) error {
		if slices.Contains(account.FollowedRestaurants, restaurantID) == follow {
			return repositories.ErrUnchanged
		}
		if follow {
			account.FollowedRestaurants = append(account.FollowedRestaurants, restaurantID)
		} else {
			account.FollowedRestaurants = slices.DeleteFunc(account.FollowedRestaurants, func(id string) bool {
				return id == restaurantID
			})
		}
		changed = true
		return nil
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to save follows for %s: %w", accountID, err)
	}
	if !changed {
		return nil
	}

	s.hub.Publish(FollowChange{AccountID: accountID, RestaurantID: restaurantID, Following: follow})
	log.Debug().Str("account_id", accountID).Str("restaurant_id", restaurantID).Bool("following", follow).Msg("follow set changed")
	return nil
}

// IsFollowing reports whether the account follows restaurantID.
func (s *FollowService) IsFollowing(accountID, restaurantID string) (bool, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return false, err
	}
	return slices.Contains(account.FollowedRestaurants, restaurantID), nil
}

// Following returns the account's followed restaurant IDs.
func (s *FollowService) Following(accountID string) ([]string, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	return append([]string{}, account.FollowedRestaurants...), nil
}
