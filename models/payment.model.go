package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus tracks how far the enrollment behind a payment got.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentEnrolled PaymentStatus = "enrolled"
	PaymentFailed   PaymentStatus = "failed"
)

// Payment is append-only from the client's point of view; only the
// enrollment bookkeeping fields change after insert.
type Payment struct {
	Base
	Email         string         `gorm:"type:varchar(255);index;not null" json:"email"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	TransactionID string         `gorm:"type:varchar(100);index" json:"transactionId"`
	CartItemID    string         `gorm:"type:varchar(36)" json:"cartItemId"`
	CourseID      string         `gorm:"type:varchar(36);index" json:"courseId"`
	CourseName    string         `json:"courseName"`
	Details       datatypes.JSON `json:"details,omitempty"` // raw processor payload

	Status        PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	FailureReason string        `gorm:"type:text" json:"failureReason,omitempty"`
	Attempts      int           `gorm:"default:0" json:"attempts"`
}

func (Payment) TableName() string {
	return "payments"
}
