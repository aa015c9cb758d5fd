package cartValidator

import (
	"github.com/gofiber/fiber/v2"

	"yoga/validators"
)

type AddToCartRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	CourseID   string  `json:"courseId" validate:"required"`
	CourseName string  `json:"courseName"`
	Image      string  `json:"image"`
	Price      float64 `json:"price" validate:"gte=0"`
}

func AddToCart() fiber.Handler {
	return validators.Body[AddToCartRequest]("validatedCartItem")
}
