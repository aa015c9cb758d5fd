package courseValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"yoga/middleware"
	"yoga/validators"
)

// SubmitCourseRequest deliberately has no status or enrolled count: both are
// set by the moderator on submission.
type SubmitCourseRequest struct {
	Name            string  `json:"name" validate:"required"`
	Image           string  `json:"image"`
	InstructorName  string  `json:"instructorName"`
	InstructorEmail string  `json:"instructorEmail" validate:"omitempty,email"`
	Price           float64 `json:"price" validate:"gte=0"`
	Seats           int     `json:"seats" validate:"gte=0"`
}

type ModerateRequest struct {
	Operation string `json:"operation"`
	Feedback  string `json:"feedback"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

type CourseListRequest struct {
	Limit           int    `query:"limit"`
	Status          string `query:"status" validate:"omitempty,oneof=pending approved denied"`
	InstructorEmail string `query:"instructorEmail"`
}

func SubmitCourse() fiber.Handler {
	return validators.Body[SubmitCourseRequest]("validatedCourse")
}

// Moderate only parses the body; unknown operations are rejected by the moderator.
func Moderate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModerateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body!"})
		}
		c.Locals("validatedModeration", reqData)
		return c.Next()
	}
}

func Feedback() fiber.Handler {
	return validators.Body[FeedbackRequest]("validatedFeedback")
}

// CourseList treats a missing or non-numeric limit as no limit.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &CourseListRequest{
			Limit:           c.QueryInt("limit", 0),
			Status:          strings.TrimSpace(c.Query("status")),
			InstructorEmail: strings.TrimSpace(c.Query("instructorEmail")),
		}
		if fields := validators.Struct(reqData); len(fields) > 0 {
			return middleware.ValidationErrorResponse(c, fields)
		}
		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}
