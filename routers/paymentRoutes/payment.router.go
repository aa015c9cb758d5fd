package paymentRoutes

import (
	"github.com/gofiber/fiber/v2"

	paymentController "yoga/controllers/payment"
	"yoga/middleware"
	paymentValidator "yoga/validators/payment"
)

func SetupPaymentRoutes(app *fiber.App, ctl *paymentController.Controller, guards middleware.Guards) {
	app.Post("/create-payment-intent", guards.Authenticated, paymentValidator.CreatePaymentIntent(), ctl.CreatePaymentIntent)

	paymentGroup := app.Group("/payments")

	paymentGroup.Get("/", ctl.ListPayments)
	paymentGroup.Post("/", guards.Authenticated, paymentValidator.CompleteEnrollment(), ctl.CompletePayment)
	paymentGroup.Get("/:id", guards.Authenticated, ctl.GetPayment)
	paymentGroup.Post("/:id/retry", guards.Authenticated, ctl.RetryPayment)
}
