package models

type CartItem struct {
	Base
	Email      string  `gorm:"type:varchar(255);index;not null" json:"email"`
	CourseID   string  `gorm:"type:varchar(36);index;not null" json:"courseId"`
	CourseName string  `json:"courseName"`
	Image      string  `json:"image"`
	Price      float64 `gorm:"not null" json:"price"` // price snapshot at add time
}

func (CartItem) TableName() string {
	return "carts"
}
