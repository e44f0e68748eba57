package handlers

import (
	"errors"
	"fmt"
	"slices"

	"orderuz/internal/middleware"
	"orderuz/internal/models"
	"orderuz/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orders   *services.OrderService
	checkout *services.CheckoutService
	accounts *services.AccountService
	qr       services.QRGenerator
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, checkout *services.CheckoutService, accounts *services.AccountService, qr services.QRGenerator) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		checkout: checkout,
		accounts: accounts,
		qr:       qr,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Every route requires auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Delete("/history", h.HandleClearHistory)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/tracking", h.HandleUpdateTrackingStage)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/reorder", h.HandleReorder)
	orderRoutes.Get("/:id/qrcode", h.HandleQRCode)
}

// HandleGetOrders lists the caller's orders. scope is active, history or all.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	accountID := middleware.AccountID(c)

	var (
		orders []models.Order
		err    error
	)
	switch scope := c.Query("scope", "all"); scope {
	case "active":
		orders, err = h.orders.GetActiveOrders(accountID)
	case "history":
		orders, err = h.orders.GetOrderHistory(accountID)
	case "all":
		orders, err = h.orders.GetOrders(accountID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Unknown scope %q", scope),
		})
	}
	if err != nil {
		return fail(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// CheckoutRequest holds optional delivery overrides.
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"max=255"`
	DeliveryPhone   string `json:"delivery_phone" validate:"max=32"`
}

// HandleCheckout places the session cart as one order per restaurant.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if len(c.Body()) > 0 {
		if ok, err := parseAndValidate(c, h.validate, &req); !ok {
			return err
		}
	}

	orders, err := h.checkout.Checkout(c.UserContext(), middleware.AccountID(c), middleware.SessionKey(c), services.CheckoutRequest{
		DeliveryAddress: req.DeliveryAddress,
		DeliveryPhone:   req.DeliveryPhone,
	})
	if errors.Is(err, services.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart is empty",
			"error":   err.Error(),
		})
	}
	if err != nil {
		return fail(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"orders":  orders,
	})
}

// ownedOrder loads the order and checks the caller may see it. Restaurant
// accounts may see orders for restaurants they manage.
func (h *OrderHandler) ownedOrder(c *fiber.Ctx) (*models.Order, bool, error) {
	orderID := c.Params("id")
	order, err := h.orders.GetOrderByID(orderID)
	if err != nil {
		return nil, false, fail(c, "Could not retrieve order", err)
	}
	accountID := middleware.AccountID(c)
	if order.AccountID == accountID || h.manages(accountID, order.RestaurantID) {
		return order, true, nil
	}
	return nil, false, notFound(c, fmt.Sprintf("Order with ID %s not found", orderID))
}

func (h *OrderHandler) manages(accountID, restaurantID string) bool {
	account, err := h.accounts.GetAccount(accountID)
	if err != nil {
		return false
	}
	return account.AccountType == models.AccountRestaurant && slices.Contains(account.ManagedRestaurants, restaurantID)
}

func (h *OrderHandler) reply(c *fiber.Ctx, id string) error {
	order, err := h.orders.GetOrderByID(id)
	if err != nil {
		return fail(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, ok, err := h.ownedOrder(c)
	if !ok {
		return err
	}
	return c.JSON(order)
}

// UpdateStatusRequest carries the new order status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	order, ok, err := h.ownedOrder(c)
	if !ok {
		return err
	}
	var req UpdateStatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	if err := h.orders.UpdateOrderStatus(order.ID, models.OrderStatus(req.Status)); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order update failed",
				"error":   err.Error(),
			})
		}
		return fail(c, "Could not update order status", err)
	}
	return h.reply(c, order.ID)
}

// TrackingRequest names the stage to complete.
type TrackingRequest struct {
	StageIndex *int `json:"stage_index" validate:"required"`
}

// HandleUpdateTrackingStage completes stages up to the given index.
func (h *OrderHandler) HandleUpdateTrackingStage(c *fiber.Ctx) error {
	order, ok, err := h.ownedOrder(c)
	if !ok {
		return err
	}
	var req TrackingRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	if err := h.orders.UpdateTrackingStage(order.ID, *req.StageIndex); err != nil {
		return fail(c, "Could not update tracking", err)
	}
	return h.reply(c, order.ID)
}

// HandleCancelOrder cancels an active order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, ok, err := h.ownedOrder(c)
	if !ok {
		return err
	}
	cancelled, err := h.orders.CancelOrder(order.ID)
	if err != nil {
		return fail(c, "Could not cancel order", err)
	}
	if !cancelled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("Order %s is already %s", order.ID, order.Status),
		})
	}
	return h.reply(c, order.ID)
}

// HandleReorder places a copy of a past order.
func (h *OrderHandler) HandleReorder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orders.ReorderOrder(middleware.AccountID(c), orderID)
	if err != nil {
		return fail(c, "Could not reorder", err)
	}
	if order == nil {
		return notFound(c, fmt.Sprintf("Order with ID %s not found", orderID))
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleClearHistory removes the caller's finished orders.
func (h *OrderHandler) HandleClearHistory(c *fiber.Ctx) error {
	removed, err := h.orders.ClearOrderHistory(middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not clear order history", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order history cleared",
		"removed": removed,
	})
}

// HandleQRCode renders the order's tracking QR code as PNG.
func (h *OrderHandler) HandleQRCode(c *fiber.Ctx) error {
	order, ok, err := h.ownedOrder(c)
	if !ok {
		return err
	}
	png, err := h.qr.Generate(order.ID)
	if err != nil {
		return fail(c, "Could not generate QR code", err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
