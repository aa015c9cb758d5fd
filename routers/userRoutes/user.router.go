package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	userController "yoga/controllers/user"
	"yoga/middleware"
	userValidator "yoga/validators/user"
)

// SetupUserRoutes wires account and role endpoints. Promoting to admin is
// open so the first admin can be bootstrapped.
func SetupUserRoutes(app *fiber.App, ctl *userController.Controller, guards middleware.Guards) {
	userGroup := app.Group("/users")

	userGroup.Post("/", userValidator.CreateUser(), ctl.CreateUser)
	userGroup.Get("/", guards.Admin, ctl.ListUsers)
	userGroup.Delete("/:id", ctl.DeleteUser)

	// Role status checks
	userGroup.Get("/admin/:email", guards.Authenticated, ctl.IsAdmin)
	userGroup.Get("/instructor/:email", guards.Authenticated, ctl.IsInstructor)

	// Promotions
	userGroup.Patch("/admin/:id", ctl.MakeAdmin)
	userGroup.Patch("/instructor/:id", guards.Admin, ctl.MakeInstructor)
}
