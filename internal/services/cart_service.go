package services

import (
	"context"
	"fmt"
	"sync"

	"orderuz/internal/models"
	"orderuz/internal/pubsub"
	"orderuz/internal/repositories"

	"github.com/rs/zerolog/log"
)

// CartService aggregates selected dishes into a priced basket per session.
// Carts are keyed by browsing session, not by account, so a cart survives
// login and logout.
type CartService struct {
	repo    repositories.CartRepository
	catalog repositories.CatalogRepository
	hub     *pubsub.Hub[CartChange]
	mu      sync.Mutex
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, catalog repositories.CatalogRepository) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		hub:     pubsub.NewHub[CartChange](),
	}
}

// Subscribe registers fn for every committed cart mutation.
func (s *CartService) Subscribe(fn func(CartChange)) func() {
	return s.hub.Subscribe(fn)
}

// Snapshot returns the session's cart with its derived totals.
func (s *CartService) Snapshot(ctx context.Context, session string) (models.CartSummary, error) {
	lines, err := s.repo.Get(ctx, session)
	if err != nil {
		return models.CartSummary{}, fmt.Errorf("failed to read cart: %w", err)
	}
	return models.Summarize(lines), nil
}

// AddItem increments the line for item.ItemID, or inserts it with quantity 1.
func (s *CartService) AddItem(ctx context.Context, session string, item models.CartLine) (models.CartSummary, error) {
	return s.mutate(ctx, session, func(lines []models.CartLine) []models.CartLine {
		return addLine(lines, item)
	})
}

// AddFood looks the dish up in the catalog and adds it to the cart.
func (s *CartService) AddFood(ctx context.Context, session, foodID string) (models.CartSummary, error) {
	food, err := s.catalog.GetFoodItem(foodID)
	if err != nil {
		return models.CartSummary{}, err
	}
	if !food.IsAvailable {
		return models.CartSummary{}, fmt.Errorf("food item %s: %w", foodID, ErrUnavailable)
	}
	return s.AddItem(ctx, session, food.Line())
}

// RemoveItem deletes the line regardless of quantity.
func (s *CartService) RemoveItem(ctx context.Context, session, itemID string) (models.CartSummary, error) {
	return s.mutate(ctx, session, func(lines []models.CartLine) []models.CartLine {
		return removeLine(lines, itemID)
	})
}

// UpdateQuantity adds delta to the line's quantity, removing it at zero or below.
func (s *CartService) UpdateQuantity(ctx context.Context, session, itemID string, delta int) (models.CartSummary, error) {
	return s.mutate(ctx, session, func(lines []models.CartLine) []models.CartLine {
		return adjustLine(lines, itemID, delta)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, session string) (models.CartSummary, error) {
	return s.mutate(ctx, session, func([]models.CartLine) []models.CartLine {
		return nil
	})
}

func (s *CartService) mutate(ctx context.Context, session string, fn func([]models.CartLine) []models.CartLine) (models.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.repo.Get(ctx, session)
	if err != nil {
		return models.CartSummary{}, fmt.Errorf("failed to read cart: %w", err)
	}
	lines = fn(lines)
	if err := s.repo.Save(ctx, session, lines); err != nil {
		return models.CartSummary{}, fmt.Errorf("failed to save cart: %w", err)
	}

	summary := models.Summarize(lines)
	s.hub.Publish(CartChange{Session: session, Summary: summary})
	log.Debug().Str("session", session).Int("items", summary.TotalItems).Int64("total", summary.TotalPrice).Msg("cart updated")
	return summary, nil
}

func addLine(lines []models.CartLine, item models.CartLine) []models.CartLine {
	for i := range lines {
		if lines[i].ItemID == item.ItemID {
			lines[i].Quantity++
			return lines
		}
	}
	item.Quantity = 1
	return append(lines, item)
}

func removeLine(lines []models.CartLine, itemID string) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}
	return out
}

func adjustLine(lines []models.CartLine, itemID string, delta int) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ItemID == itemID {
			l.Quantity += delta
			if l.Quantity <= 0 {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}
