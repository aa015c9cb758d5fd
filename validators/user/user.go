package userValidator

import (
	"github.com/gofiber/fiber/v2"

	"yoga/validators"
)

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Photo string `json:"photo"`
}

func CreateUser() fiber.Handler {
	return validators.Body[CreateUserRequest]("validatedUser")
}
