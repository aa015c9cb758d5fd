package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	authController "yoga/controllers/auth"
	cartController "yoga/controllers/cart"
	courseController "yoga/controllers/course"
	instructorController "yoga/controllers/instructor"
	paymentController "yoga/controllers/payment"
	userController "yoga/controllers/user"
	"yoga/database"
	"yoga/middleware"
	"yoga/routers/authRoutes"
	"yoga/routers/cartRoutes"
	"yoga/routers/courseRoutes"
	"yoga/routers/instructorRoutes"
	"yoga/routers/paymentRoutes"
	"yoga/routers/userRoutes"
	"yoga/services"
)

const banner = "Tranquility oasis yoga center Server is running..."

// Deps is everything the HTTP surface needs, built once at startup.
type Deps struct {
	Stores      *database.Stores
	Tokens      *middleware.TokenManager
	Enrollments *services.Enrollments
	Gateway     services.PaymentGateway
	CorsOrigins string
	AccessLog   bool
}

func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Tranquility Oasis",
	})

	origins := deps.CorsOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Idempotency-Key",
	}))

	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(banner)
	})

	gate := services.NewRoleGate(deps.Stores.Users)
	guards := middleware.NewGuards(deps.Tokens, gate)
	moderator := services.NewModerator(deps.Stores.Courses)

	authRoutes.SetupAuthRoutes(app, authController.New(deps.Tokens))
	userRoutes.SetupUserRoutes(app, userController.New(deps.Stores.Users, gate), guards)
	courseRoutes.SetupCourseRoutes(app, courseController.New(deps.Stores.Courses, moderator), guards)
	instructorRoutes.SetupInstructorRoutes(app, instructorController.New(deps.Stores.Instructors))
	cartRoutes.SetupCartRoutes(app, cartController.New(deps.Stores.Carts))
	paymentRoutes.SetupPaymentRoutes(app, paymentController.New(deps.Stores.Payments, deps.Enrollments, deps.Gateway), guards)

	return app
}
