package services

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"yoga/database"
	"yoga/models"
)

// Moderation is a closed set of course review actions: Approve, Deny and
// SetFeedback.
type Moderation interface {
	patch() database.Patch
}

type Approve struct{}

type Deny struct{}

type SetFeedback struct {
	Text string
}

func (Approve) patch() database.Patch {
	return database.Patch{"status": models.CourseApproved}
}

func (Deny) patch() database.Patch {
	return database.Patch{"status": models.CourseDenied}
}

func (f SetFeedback) patch() database.Patch {
	return database.Patch{"feedback": f.Text}
}

// ParseModeration maps the wire verb to its action.
func ParseModeration(operation, feedback string) (Moderation, error) {
	switch strings.TrimSpace(operation) {
	case "approve":
		return Approve{}, nil
	case "deny":
		return Deny{}, nil
	case "feedback":
		return SetFeedback{Text: feedback}, nil
	default:
		return nil, ErrUnsupportedOperation
	}
}

type CourseWriter interface {
	Insert(ctx context.Context, record *models.Course) (database.InsertResult, error)
	UpdateByID(ctx context.Context, id string, patch database.Patch) (database.UpdateResult, error)
}

type Moderator struct {
	courses CourseWriter
}

func NewModerator(courses CourseWriter) *Moderator {
	return &Moderator{courses: courses}
}

// Submit stores a new course awaiting review. Status and enrolled count are
// always reset regardless of what the caller sent.
func (m *Moderator) Submit(ctx context.Context, course *models.Course) (database.InsertResult, error) {
	course.ID = ""
	course.Status = models.CoursePending
	course.EnrolledCount = 0
	course.Feedback = ""
	course.Slug = slug.Make(course.Name)
	return m.courses.Insert(ctx, course)
}

// Moderate applies op to the course. Repeating approve or deny is allowed;
// the last write wins.
func (m *Moderator) Moderate(ctx context.Context, courseID string, op Moderation) (int64, error) {
	if op == nil {
		return 0, ErrUnsupportedOperation
	}
	res, err := m.courses.UpdateByID(ctx, courseID, op.patch())
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
