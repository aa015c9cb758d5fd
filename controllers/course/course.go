package courseController

import (
	"github.com/gofiber/fiber/v2"

	"yoga/database"
	"yoga/middleware"
	"yoga/models"
	"yoga/services"
	courseValidator "yoga/validators/course"
)

type Controller struct {
	courses   *database.CourseCollection
	moderator *services.Moderator
}

func New(courses *database.CourseCollection, moderator *services.Moderator) *Controller {
	return &Controller{courses: courses, moderator: moderator}
}

// ListCourses sorts by popularity only when a limit is given.
func (ctl *Controller) ListCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*courseValidator.CourseListRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	filter := database.Filter{}
	if reqData.Status != "" {
		filter["status"] = reqData.Status
	}
	if reqData.InstructorEmail != "" {
		filter["instructor_email"] = reqData.InstructorEmail
	}

	var opts database.FindOptions
	if reqData.Limit > 0 {
		opts.Sort = []database.Sort{{Column: "enrolled_count", Desc: true}}
		opts.Limit = reqData.Limit
	}

	courses, err := ctl.courses.FindMany(c.UserContext(), filter, opts)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(courses)
}

// SubmitCourse files a course for review under the caller's email unless
// another instructor email is given.
func (ctl *Controller) SubmitCourse(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.SubmitCourseRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	course := &models.Course{
		Name:            reqData.Name,
		Image:           reqData.Image,
		InstructorName:  reqData.InstructorName,
		InstructorEmail: reqData.InstructorEmail,
		Price:           reqData.Price,
		Seats:           reqData.Seats,
	}
	if course.InstructorEmail == "" {
		course.InstructorEmail = identity.Email
	}

	result, err := ctl.moderator.Submit(c.UserContext(), course)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}

func (ctl *Controller) GetCourse(c *fiber.Ctx) error {
	course, err := ctl.courses.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
	}
	return c.JSON(course)
}

// InstructorCourses lists the caller's own submissions in every status.
func (ctl *Controller) InstructorCourses(c *fiber.Ctx) error {
	identity, _ := middleware.CurrentIdentity(c)
	email := c.Params("email")
	if identity == nil || identity.Email != email {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "forbidden access")
	}

	courses, err := ctl.courses.FindMany(c.UserContext(), database.Filter{"instructor_email": email}, database.FindOptions{
		Sort: []database.Sort{{Column: "created_at", Desc: true}},
	})
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(courses)
}

func (ctl *Controller) ModerateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedModeration").(*courseValidator.ModerateRequest)
	if !ok {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	op, err := services.ParseModeration(reqData.Operation, reqData.Feedback)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return ctl.moderate(c, op)
}

func (ctl *Controller) SetFeedback(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFeedback").(*courseValidator.FeedbackRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}
	return ctl.moderate(c, services.SetFeedback{Text: reqData.Feedback})
}

func (ctl *Controller) moderate(c *fiber.Ctx, op services.Moderation) error {
	modified, err := ctl.moderator.Moderate(c.UserContext(), c.Params("id"), op)
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(fiber.Map{"modifiedCount": modified})
}

func (ctl *Controller) DeleteCourse(c *fiber.Ctx) error {
	result, err := ctl.courses.DeleteByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return middleware.FailureResponse(c, err)
	}
	return c.JSON(result)
}
