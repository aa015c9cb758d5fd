package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authController "yoga/controllers/auth"
	authValidator "yoga/validators/auth"
)

func SetupAuthRoutes(app *fiber.App, ctl *authController.Controller) {
	app.Post("/jwt", authValidator.IssueToken(), ctl.IssueToken)
}
