package repositories

import (
	"context"

	"orderuz/internal/models"
)

// CartRepository stores the cart lines of a browsing session.
// Get returns an empty slice for a session without a cart.
type CartRepository interface {
	Get(ctx context.Context, session string) ([]models.CartLine, error)
	Save(ctx context.Context, session string, lines []models.CartLine) error
	Delete(ctx context.Context, session string) error
}
