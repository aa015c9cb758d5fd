package cartController

import (
	"github.com/gofiber/fiber/v2"

	"yoga/database"
	"yoga/middleware"
	"yoga/models"
	cartValidator "yoga/validators/cart"
)

type Controller struct {
	carts *database.Collection[models.CartItem]
}

func New(carts *database.Collection[models.CartItem]) *Controller {
	return &Controller{carts: carts}
}

func (ctl *Controller) ListCart(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.JSON([]models.CartItem{})
	}

	items, err := ctl.carts.FindMany(c.UserContext(), database.Filter{"email": email}, database.FindOptions{})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(items)
}

func (ctl *Controller) AddToCart(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCartItem").(*cartValidator.AddToCartRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	result, err := ctl.carts.Insert(c.UserContext(), &models.CartItem{
		Email:      reqData.Email,
		CourseID:   reqData.CourseID,
		CourseName: reqData.CourseName,
		Image:      reqData.Image,
		Price:      reqData.Price,
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}

func (ctl *Controller) RemoveFromCart(c *fiber.Ctx) error {
	result, err := ctl.carts.DeleteByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}
