package authController

import (
	"github.com/gofiber/fiber/v2"

	"yoga/middleware"
)

type Controller struct {
	tokens *middleware.TokenManager
}

func New(tokens *middleware.TokenManager) *Controller {
	return &Controller{tokens: tokens}
}

// IssueToken signs the caller's claims. There is no password step; the
// client signs in with its identity provider first.
func (ctl *Controller) IssueToken(c *fiber.Ctx) error {
	claims, ok := c.Locals("validatedClaims").(map[string]any)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	token, err := ctl.tokens.Issue(claims)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"token": token})
}
