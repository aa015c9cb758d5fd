package models

// Instructor is a read-only profile populated by the roster import.
type Instructor struct {
	Base
	Name          string `json:"name" yaml:"name"`
	Email         string `gorm:"type:varchar(255);uniqueIndex" json:"email" yaml:"email"`
	Image         string `json:"image" yaml:"image"`
	TotalStudents int    `gorm:"default:0" json:"totalStudents" yaml:"totalStudents"`
}

func (Instructor) TableName() string {
	return "instructors_info"
}
