package response

import (
	domainerrors "guildpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// DomainError translates a ledger error into the right HTTP status:
// precondition violations are 400s, unknown wallets are 404s, anything
// else is a 500.
func DomainError(c *fiber.Ctx, err error) error {
	if derr, ok := err.(*domainerrors.DomainError); ok {
		status := fiber.StatusBadRequest
		if derr == domainerrors.ErrWalletNotFound {
			status = fiber.StatusNotFound
		}
		return Respond(c, status, fiber.Map{
			"error": derr.Message,
			"code":  derr.Code,
		})
	}
	return InternalError(c, err.Error())
}
