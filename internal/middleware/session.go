package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Cart session resolution. Clients send their key in SessionHeader.
const (
	SessionHeader  = "X-Session-ID"
	DefaultSession = "guest"
	localSession   = "session"
	maxSessionLen  = 128
)

// Session resolves the cart session key for every request.
func Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(SessionHeader))
		if key == "" || len(key) > maxSessionLen {
			key = DefaultSession
		}
		c.Locals(localSession, key)
		return c.Next()
	}
}

// SessionKey returns the key stored by Session.
func SessionKey(c *fiber.Ctx) string {
	if key, ok := c.Locals(localSession).(string); ok && key != "" {
		return key
	}
	return DefaultSession
}
