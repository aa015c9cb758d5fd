package paymentValidator

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"yoga/validators"
)

type PaymentIntentRequest struct {
	Price       float64 `json:"price" validate:"gt=0"`
	Description string  `json:"description"`
}

// CompleteEnrollmentRequest leaves cartItemId optional: a payment without one
// is still recorded and then reported as missing its reference.
type CompleteEnrollmentRequest struct {
	Email         string          `json:"email" validate:"omitempty,email"`
	Amount        float64         `json:"amount" validate:"gte=0"`
	Price         float64         `json:"price" validate:"gte=0"`
	Date          time.Time       `json:"date"`
	TransactionID string          `json:"transactionId"`
	CartItemID    string          `json:"cartItemId"`
	CourseID      string          `json:"courseId"`
	CourseName    string          `json:"courseName"`
	Details       json.RawMessage `json:"details"`
}

// Total prefers amount and falls back to the older price field.
func (r *CompleteEnrollmentRequest) Total() float64 {
	if r.Amount > 0 {
		return r.Amount
	}
	return r.Price
}

func CreatePaymentIntent() fiber.Handler {
	return validators.Body[PaymentIntentRequest]("validatedPaymentIntent")
}

func CompleteEnrollment() fiber.Handler {
	return validators.Body[CompleteEnrollmentRequest]("validatedPayment")
}
