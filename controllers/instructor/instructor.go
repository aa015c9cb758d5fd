package instructorController

import (
	"github.com/gofiber/fiber/v2"

	"yoga/database"
	"yoga/middleware"
	"yoga/models"
)

type Controller struct {
	instructors *database.Collection[models.Instructor]
}

func New(instructors *database.Collection[models.Instructor]) *Controller {
	return &Controller{instructors: instructors}
}

// ListInstructors returns the most followed instructors first.
func (ctl *Controller) ListInstructors(c *fiber.Ctx) error {
	instructors, err := ctl.instructors.FindMany(c.UserContext(), nil, database.FindOptions{
		Sort:  []database.Sort{{Column: "total_students", Desc: true}},
		Limit: c.QueryInt("limit", 0),
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(instructors)
}
