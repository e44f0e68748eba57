package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"orderuz/internal/models"
	"orderuz/internal/repositories"
)

// FeedService composes video lists for the feed screens and keeps the
// per-account like and save flags.
type FeedService struct {
	catalog  repositories.CatalogRepository
	follows  *FollowService
	accounts repositories.AccountRepository

	mu        sync.RWMutex
	liked     map[string]map[string]bool // account -> video
	saved     map[string]map[string]bool
	likeDelta map[string]int
}

// NewFeedService creates a new FeedService.
func NewFeedService(catalog repositories.CatalogRepository, follows *FollowService, accounts repositories.AccountRepository) *FeedService {
	return &FeedService{
		catalog:   catalog,
		follows:   follows,
		accounts:  accounts,
		liked:     make(map[string]map[string]bool),
		saved:     make(map[string]map[string]bool),
		likeDelta: make(map[string]int),
	}
}

// ForYou returns the whole catalog feed. accountID may be empty.
func (s *FeedService) ForYou(accountID string) ([]models.FeedVideo, error) {
	return s.collect(accountID, func(models.Video) bool { return true })
}

// Following returns only videos from restaurants the account follows.
func (s *FeedService) Following(accountID string) ([]models.FeedVideo, error) {
	followed, err := s.follows.Following(accountID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(followed))
	for _, id := range followed {
		set[id] = true
	}
	return s.collect(accountID, func(v models.Video) bool { return set[v.RestaurantID] })
}

// ByRestaurant returns the videos posted by one restaurant.
func (s *FeedService) ByRestaurant(accountID, restaurantID string) ([]models.FeedVideo, error) {
	return s.collect(accountID, func(v models.Video) bool { return v.RestaurantID == restaurantID })
}

// Search matches query against caption, dish and restaurant names.
func (s *FeedService) Search(accountID, query string) ([]models.FeedVideo, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.ForYou(accountID)
	}
	return s.collect(accountID, func(v models.Video) bool {
		return strings.Contains(strings.ToLower(v.Caption), q) ||
			strings.Contains(strings.ToLower(v.FoodName), q) ||
			strings.Contains(strings.ToLower(v.RestaurantName), q)
	})
}

func (s *FeedService) collect(accountID string, keep func(models.Video) bool) ([]models.FeedVideo, error) {
	videos, err := s.catalog.Videos()
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.FeedVideo{}
	for _, v := range videos {
		if keep(v) {
			out = append(out, s.decorate(accountID, v))
		}
	}
	return out, nil
}

func (s *FeedService) decorate(accountID string, v models.Video) models.FeedVideo {
	v.Likes = max(0, v.Likes+s.likeDelta[v.ID])
	return models.FeedVideo{
		Video:        v,
		UserHasLiked: s.liked[accountID][v.ID],
		UserHasSaved: s.saved[accountID][v.ID],
	}
}

// ToggleLike flips the account's like on a video. The like counter never
// drops below zero.
func (s *FeedService) ToggleLike(accountID, videoID string) (models.FeedVideo, error) {
	video, err := s.catalog.GetVideo(videoID)
	if err != nil {
		return models.FeedVideo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if toggle(s.liked, accountID, videoID) {
		s.likeDelta[videoID]++
	} else if video.Likes+s.likeDelta[videoID] > 0 {
		s.likeDelta[videoID]--
	}
	return s.decorate(accountID, *video), nil
}

// ToggleSave flips the account's bookmark on a video and keeps the
// account's saved counter in step.
func (s *FeedService) ToggleSave(accountID, videoID string) (models.FeedVideo, error) {
	video, err := s.catalog.GetVideo(videoID)
	if err != nil {
		return models.FeedVideo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	saved := toggle(s.saved, accountID, videoID)
	_, err = s.accounts.Mutate(accountID, func(account *models.Account) error {
		if saved {
			account.SavedCount++
		} else if account.SavedCount > 0 {
			account.SavedCount--
		}
		return nil
	})
	if err != nil {
		toggle(s.saved, accountID, videoID)
		if errors.Is(err, repositories.ErrNotFound) {
			return models.FeedVideo{}, err
		}
		return models.FeedVideo{}, fmt.Errorf("failed to update saved count: %w", err)
	}
	return s.decorate(accountID, *video), nil
}

// toggle flips flags[account][video] and returns the new value.
func toggle(flags map[string]map[string]bool, accountID, videoID string) bool {
	m, ok := flags[accountID]
	if !ok {
		m = make(map[string]bool)
		flags[accountID] = m
	}
	if m[videoID] {
		delete(m, videoID)
		return false
	}
	m[videoID] = true
	return true
}
