package services

import (
	"context"
	"fmt"

	"orderuz/internal/models"
	"orderuz/internal/repositories"

	"github.com/rs/zerolog/log"
)

// CheckoutRequest holds the delivery details for a checkout. Empty fields
// fall back to the account profile.
type CheckoutRequest struct {
	DeliveryAddress string
	DeliveryPhone   string
}

// CheckoutService turns a session cart into one order per restaurant.
type CheckoutService struct {
	carts    *CartService
	orders   *OrderService
	accounts repositories.AccountRepository
	catalog  repositories.CatalogRepository
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(carts *CartService, orders *OrderService, accounts repositories.AccountRepository, catalog repositories.CatalogRepository) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, accounts: accounts, catalog: catalog}
}

// Checkout places the session's cart for accountID and clears the cart.
func (s *CheckoutService) Checkout(ctx context.Context, accountID, session string, req CheckoutRequest) ([]*models.Order, error) {
	summary, err := s.carts.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	if summary.IsEmpty {
		return nil, ErrEmptyCart
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	address := req.DeliveryAddress
	if address == "" {
		address = account.Address
	}
	phone := req.DeliveryPhone
	if phone == "" {
		phone = account.Phone
	}

	var orders []*models.Order
	for _, group := range groupByRestaurant(summary.Lines) {
		restaurantID := group[0].RestaurantID
		order, err := s.orders.CreateOrder(accountID, CreateOrderRequest{
			RestaurantID:    restaurantID,
			RestaurantName:  s.restaurantName(restaurantID),
			Lines:           group,
			DeliveryAddress: address,
			DeliveryPhone:   phone,
		})
		if err != nil {
			return orders, fmt.Errorf("failed to place order for %s: %w", restaurantID, err)
		}
		orders = append(orders, order)
	}

	if _, err := s.carts.Clear(ctx, session); err != nil {
		return orders, err
	}
	log.Info().Str("account_id", accountID).Str("session", session).Int("orders", len(orders)).Msg("checkout completed")
	return orders, nil
}

func (s *CheckoutService) restaurantName(id string) string {
	r, err := s.catalog.GetRestaurant(id)
	if err != nil {
		return ""
	}
	return r.Name
}

// groupByRestaurant splits lines by restaurant, in first-seen order.
func groupByRestaurant(lines []models.CartLine) [][]models.CartLine {
	index := make(map[string]int)
	var groups [][]models.CartLine
	for _, l := range lines {
		i, ok := index[l.RestaurantID]
		if !ok {
			i = len(groups)
			index[l.RestaurantID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], l)
	}
	return groups
}
