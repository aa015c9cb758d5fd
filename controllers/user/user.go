package userController

import (
	"github.com/gofiber/fiber/v2"

	"yoga/database"
	"yoga/middleware"
	"yoga/models"
	"yoga/services"
	userValidator "yoga/validators/user"
)

type Controller struct {
	users *database.Collection[models.User]
	gate  *services.RoleGate
}

func New(users *database.Collection[models.User], gate *services.RoleGate) *Controller {
	return &Controller{users: users, gate: gate}
}

// CreateUser registers a user on first sign-in. Signing in again reports the
// existing record instead of inserting a duplicate.
func (ctl *Controller) CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*userValidator.CreateUserRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	existing, err := ctl.users.FindOne(c.UserContext(), database.Filter{"email": reqData.Email})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	if existing != nil {
		return c.JSON(fiber.Map{"message": "user already exists"})
	}

	result, err := ctl.users.Insert(c.UserContext(), &models.User{
		Name:  reqData.Name,
		Email: reqData.Email,
		Photo: reqData.Photo,
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}

func (ctl *Controller) ListUsers(c *fiber.Ctx) error {
	users, err := ctl.users.FindMany(c.UserContext(), nil, database.FindOptions{})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(users)
}

func (ctl *Controller) DeleteUser(c *fiber.Ctx) error {
	result, err := ctl.users.DeleteByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}

func (ctl *Controller) IsAdmin(c *fiber.Ctx) error {
	ok, err := ctl.hasRole(c, models.RoleAdmin)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(fiber.Map{"admin": ok})
}

func (ctl *Controller) IsInstructor(c *fiber.Ctx) error {
	ok, err := ctl.hasRole(c, models.RoleInstructor)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(fiber.Map{"instructor": ok})
}

func (ctl *Controller) hasRole(c *fiber.Ctx, role models.Role) (bool, error) {
	identity, _ := middleware.CurrentIdentity(c)
	return ctl.gate.HasRole(c.UserContext(), identity, c.Params("email"), role)
}

func (ctl *Controller) MakeAdmin(c *fiber.Ctx) error {
	return ctl.setRole(c, models.RoleAdmin)
}

func (ctl *Controller) MakeInstructor(c *fiber.Ctx) error {
	return ctl.setRole(c, models.RoleInstructor)
}

func (ctl *Controller) setRole(c *fiber.Ctx, role models.Role) error {
	result, err := ctl.users.UpdateByID(c.UserContext(), c.Params("id"), database.Patch{"role": role})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}
