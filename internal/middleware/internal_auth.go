// Package middleware provides HTTP middleware for the internal API surface.
package middleware

import (
	"crypto/subtle"

	"guildpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// InternalAuth gates the internal API behind a shared token. The only
// callers are the storefront API gateway and the Discord bot, both of which
// hold the token; end users never reach this service directly.
func InternalAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return response.InternalError(c, "internal token not configured")
		}
		provided := c.Get("X-Internal-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return response.Unauthorized(c, "invalid internal token")
		}
		return c.Next()
	}
}
