package handlers

import (
	"orderuz/internal/middleware"
	"orderuz/internal/models"
	"orderuz/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AccountHandler handles registration, login and profile requests.
type AccountHandler struct {
	accounts *services.AccountService
	validate *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the auth and account routes.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)

	accountRoutes := router.Group("/account", auth)
	accountRoutes.Get("/", h.HandleGetAccount)
	accountRoutes.Patch("/", h.HandleUpdateProfile)
	accountRoutes.Delete("/", h.HandleDeleteAccount)
	accountRoutes.Put("/password", h.HandleChangePassword)
	accountRoutes.Put("/location", h.HandleSetLocation)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	AccountType string `json:"account_type" validate:"omitempty,oneof=user restaurant"`
	Phone       string `json:"phone" validate:"max=32"`
	Address     string `json:"address" validate:"max=255"`
}

// HandleRegister handles new account registration.
func (h *AccountHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	account := &models.Account{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Address:     req.Address,
		AccountType: models.AccountType(req.AccountType),
	}
	ok, err := h.accounts.Register(account)
	if err != nil {
		return fail(c, "Could not register account", err)
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   "email already registered",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account registered successfully",
		"account": account,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles login and issues a JWT token.
func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	token, ok, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		return fail(c, "Could not log in", err)
	}
	if !ok {
		log.Debug().Str("email", req.Email).Msg("login rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   "invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleGetAccount returns the caller's profile.
func (h *AccountHandler) HandleGetAccount(c *fiber.Ctx) error {
	account, err := h.accounts.GetAccount(middleware.AccountID(c))
	if err != nil {
		return fail(c, "Could not retrieve account", err)
	}
	return c.JSON(account)
}

// UpdateProfileRequest holds the editable profile fields.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=32"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// HandleUpdateProfile applies a partial profile update.
func (h *AccountHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	account, err := h.accounts.UpdateProfile(middleware.AccountID(c), services.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return fail(c, "Could not update profile", err)
	}
	return c.JSON(account)
}

// LocationRequest is the delivery area.
type LocationRequest struct {
	City     string `json:"city" validate:"required,max=100"`
	District string `json:"district" validate:"max=100"`
}

// HandleSetLocation stores the caller's delivery area.
func (h *AccountHandler) HandleSetLocation(c *fiber.Ctx) error {
	var req LocationRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	account, err := h.accounts.SetLocation(middleware.AccountID(c), models.Location{City: req.City, District: req.District})
	if err != nil {
		return fail(c, "Could not update location", err)
	}
	return c.JSON(account)
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// HandleChangePassword replaces the caller's password.
func (h *AccountHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	ok, err := h.accounts.ChangePassword(middleware.AccountID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		return fail(c, "Could not change password", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Current password is incorrect"})
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// DeleteAccountRequest confirms deletion with the password.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// HandleDeleteAccount removes the caller's account.
func (h *AccountHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	var req DeleteAccountRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	ok, err := h.accounts.DeleteAccount(middleware.AccountID(c), req.Password)
	if err != nil {
		return fail(c, "Could not delete account", err)
	}
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Password is incorrect"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
