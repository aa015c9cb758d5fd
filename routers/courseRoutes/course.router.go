package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	courseController "yoga/controllers/course"
	"yoga/middleware"
	courseValidator "yoga/validators/course"
)

func SetupCourseRoutes(app *fiber.App, ctl *courseController.Controller, guards middleware.Guards) {
	courseGroup := app.Group("/courses")

	courseGroup.Get("/", courseValidator.CourseList(), ctl.ListCourses)
	courseGroup.Post("/", guards.Authenticated, courseValidator.SubmitCourse(), ctl.SubmitCourse)
	courseGroup.Get("/instructor/:email", guards.Authenticated, ctl.InstructorCourses)
	courseGroup.Get("/:id", ctl.GetCourse)

	// Moderation
	courseGroup.Patch("/:id", courseValidator.Moderate(), ctl.ModerateCourse)
	courseGroup.Post("/:id/feedback", courseValidator.Feedback(), ctl.SetFeedback)

	courseGroup.Delete("/:id", guards.Instructor, ctl.DeleteCourse)
}
