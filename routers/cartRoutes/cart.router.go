package cartRoutes

import (
	"github.com/gofiber/fiber/v2"

	cartController "yoga/controllers/cart"
	cartValidator "yoga/validators/cart"
)

func SetupCartRoutes(app *fiber.App, ctl *cartController.Controller) {
	cartGroup := app.Group("/carts")

	cartGroup.Get("/", ctl.ListCart)
	cartGroup.Post("/", cartValidator.AddToCart(), ctl.AddToCart)
	cartGroup.Delete("/:id", ctl.RemoveFromCart)
}
