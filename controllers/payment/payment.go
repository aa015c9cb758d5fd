package paymentController

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"yoga/database"
	"yoga/middleware"
	"yoga/models"
	"yoga/services"
	paymentValidator "yoga/validators/payment"
)

type Controller struct {
	payments    *database.Collection[models.Payment]
	enrollments *services.Enrollments
	gateway     services.PaymentGateway
}

func New(payments *database.Collection[models.Payment], enrollments *services.Enrollments, gateway services.PaymentGateway) *Controller {
	return &Controller{payments: payments, enrollments: enrollments, gateway: gateway}
}

// CreatePaymentIntent asks the processor for a card intent and hands the
// client secret back to the checkout form.
func (ctl *Controller) CreatePaymentIntent(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	reqData, ok := c.Locals("validatedPaymentIntent").(*paymentValidator.PaymentIntentRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	cents, err := services.AmountInCents(reqData.Price)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}

	intent, err := ctl.gateway.CreatePaymentIntent(c.UserContext(), services.PaymentIntentRequest{
		AmountCents:    cents,
		Email:          identity.Email,
		Description:    reqData.Description,
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}

// ListPayments returns a user's payment history, newest first.
func (ctl *Controller) ListPayments(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.JSON([]models.Payment{})
	}

	payments, err := ctl.payments.FindMany(c.UserContext(), database.Filter{"email": email}, database.FindOptions{
		Sort: []database.Sort{{Column: "date", Desc: true}},
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(payments)
}

func (ctl *Controller) GetPayment(c *fiber.Ctx) error {
	payment, err := ctl.ownPayment(c)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(payment)
}

// CompletePayment records the payment and enrolls the caller. The payment
// id is reported on failure too so the client can retry it.
func (ctl *Controller) CompletePayment(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	reqData, ok := c.Locals("validatedPayment").(*paymentValidator.CompleteEnrollmentRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	if reqData.Email == "" {
		reqData.Email = identity.Email
	}
	if reqData.Email != identity.Email {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
	}

	payment := &models.Payment{
		Email:         reqData.Email,
		Amount:        reqData.Total(),
		Date:          reqData.Date,
		TransactionID: reqData.TransactionID,
		CartItemID:    reqData.CartItemID,
		CourseID:      reqData.CourseID,
		CourseName:    reqData.CourseName,
	}
	if len(reqData.Details) > 0 {
		payment.Details = datatypes.JSON(reqData.Details)
	}

	result, err := ctl.enrollments.Complete(c.UserContext(), payment)
	return enrollmentResponse(c, result, err)
}

func (ctl *Controller) RetryPayment(c *fiber.Ctx) error {
	payment, err := ctl.ownPayment(c)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}

	result, err := ctl.enrollments.Retry(c.UserContext(), payment.ID)
	return enrollmentResponse(c, result, err)
}

// ownPayment loads the payment named in the path if the caller made it.
func (ctl *Controller) ownPayment(c *fiber.Ctx) (*models.Payment, error) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, services.ErrUnauthenticated
	}

	payment, err := ctl.payments.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, services.ErrPaymentNotFound
	}
	if payment.Email != identity.Email {
		return nil, services.ErrForbidden
	}
	return payment, nil
}

func enrollmentResponse(c *fiber.Ctx, result *services.EnrollmentResult, err error) error {
	if err == nil {
		return c.JSON(result)
	}
	if result == nil {
		return middleware.FailureResponse(c, err)
	}
	return c.Status(middleware.StatusFor(err)).JSON(fiber.Map{
		"error":     err.Error(),
		"paymentId": result.PaymentID,
	})
}
