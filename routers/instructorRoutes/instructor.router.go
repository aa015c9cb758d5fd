package instructorRoutes

import (
	"github.com/gofiber/fiber/v2"

	instructorController "yoga/controllers/instructor"
)

func SetupInstructorRoutes(app *fiber.App, ctl *instructorController.Controller) {
	app.Get("/instructors", ctl.ListInstructors)
}
