package models

// CourseStatus is the moderation state of a course.
type CourseStatus string

const (
	CoursePending  CourseStatus = "pending"
	CourseApproved CourseStatus = "approved"
	CourseDenied   CourseStatus = "denied"
)

type Course struct {
	Base
	Name            string       `gorm:"not null" json:"name"`
	Slug            string       `gorm:"type:varchar(255);index" json:"slug"`
	Image           string       `json:"image"`
	InstructorName  string       `json:"instructorName"`
	InstructorEmail string       `gorm:"type:varchar(255);index" json:"instructorEmail"`
	Price           float64      `gorm:"not null;default:0" json:"price"`
	Seats           int          `gorm:"default:0" json:"seats"` // 0 means uncapped
	EnrolledCount   int          `gorm:"not null;default:0" json:"enrolledCount"`
	Status          CourseStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Feedback        string       `gorm:"type:text" json:"feedback"`
}

func (Course) TableName() string {
	return "course_info"
}
