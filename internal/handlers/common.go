package handlers

import (
	"errors"
	"fmt"
	"log"

	"lapak/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError translates domain error kinds into HTTP responses. Business
// failures carry their message; anything unrecognized is a storage or
// programming fault and surfaces as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *models.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": fmt.Sprintf("Insufficient stock for %s", stockErr.ProductName),
		})
	case errors.Is(err, models.ErrEmptyCart):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Cart is empty",
		})
	case errors.Is(err, models.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// currentUserID reads the identity the auth middleware stored on the request.
func currentUserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("user_id").(string)
	return id, ok && id != ""
}

// validationMessages flattens validator errors into a field → message map,
// matching the register/login error shape.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}
