package models

// Role gates mutating operations. The empty role means a plain student.
type Role string

const (
	RoleUnset      Role = ""
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
)

type User struct {
	Base
	Name  string `gorm:"default:''" json:"name"`
	Email string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Photo string `gorm:"default:''" json:"photo"`
	Role  Role   `gorm:"type:varchar(20);default:''" json:"role"`
}

func (User) TableName() string {
	return "users_info"
}
