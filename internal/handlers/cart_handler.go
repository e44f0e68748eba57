package handlers

import (
	"errors"

	"orderuz/internal/middleware"
	"orderuz/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart.
type CartHandler struct {
	carts    *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. The session middleware must
// run before them.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the cart with its totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	summary, err := h.carts.Snapshot(c.UserContext(), middleware.SessionKey(c))
	if err != nil {
		return fail(c, "Could not retrieve cart", err)
	}
	return c.JSON(summary)
}

// AddItemRequest names the dish to add.
type AddItemRequest struct {
	FoodID string `json:"food_id" validate:"required"`
}

// HandleAddItem adds one unit of a catalog dish.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	summary, err := h.carts.AddFood(c.UserContext(), middleware.SessionKey(c), req.FoodID)
	if errors.Is(err, services.ErrUnavailable) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Item is not available",
			"error":   err.Error(),
		})
	}
	if err != nil {
		return fail(c, "Could not add item", err)
	}
	return c.JSON(summary)
}

// UpdateQuantityRequest is the change applied to a line's quantity.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required,ne=0"`
}

// HandleUpdateQuantity adjusts a line; it disappears at zero.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	summary, err := h.carts.UpdateQuantity(c.UserContext(), middleware.SessionKey(c), c.Params("id"), req.Delta)
	if err != nil {
		return fail(c, "Could not update item", err)
	}
	return c.JSON(summary)
}

// HandleRemoveItem drops a line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	summary, err := h.carts.RemoveItem(c.UserContext(), middleware.SessionKey(c), c.Params("id"))
	if err != nil {
		return fail(c, "Could not remove item", err)
	}
	return c.JSON(summary)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	summary, err := h.carts.Clear(c.UserContext(), middleware.SessionKey(c))
	if err != nil {
		return fail(c, "Could not clear cart", err)
	}
	return c.JSON(summary)
}
