package authValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"yoga/middleware"
)

// IssueToken accepts any claims object as long as it names an email.
func IssueToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := make(map[string]any)
		if err := c.BodyParser(&claims); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		email, _ := claims["email"].(string)
		if strings.TrimSpace(email) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"email": "email is required!"})
		}

		c.Locals("validatedClaims", claims)
		return c.Next()
	}
}
