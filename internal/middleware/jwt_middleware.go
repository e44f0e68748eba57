package middleware

import (
	"strings"

	"orderuz/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	localAccountID = "account_id"
	localEmail     = "email"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(accounts *services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		tokenString, ok := bearer(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		if err := authenticate(c, accounts, tokenString); err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}
		return c.Next()
	}
}

// AuthOptional stores the caller's identity when a valid token is sent and
// lets anonymous requests through.
func AuthOptional(accounts *services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearer(c.Get("Authorization")); ok {
			if err := authenticate(c, accounts, tokenString); err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("ignoring invalid token")
			}
		}
		return c.Next()
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *fiber.Ctx, accounts *services.AccountService, tokenString string) error {
	claims, err := accounts.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	id, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	c.Locals(localAccountID, id)
	c.Locals(localEmail, email)
	return nil
}

// AccountID returns the authenticated account, or "" for anonymous requests.
func AccountID(c *fiber.Ctx) string {
	id, _ := c.Locals(localAccountID).(string)
	return id
}
