package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"yoga/database"
	"yoga/models"
)

// Notifier tells a student their seat is confirmed.
type Notifier interface {
	EnrollmentConfirmed(ctx context.Context, payment *models.Payment) error
}

// Publisher emits domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

const EventEnrollmentCompleted = "enrollment.completed"

type EnrollmentResult struct {
	PaymentID          string `json:"paymentId"`
	CartDeletedCount   int64  `json:"cartDeletedCount"`
	CourseUpdatedCount int64  `json:"courseUpdatedCount"`
}

type EnrollmentEvent struct {
	Type       string    `json:"type"`
	PaymentID  string    `json:"paymentId"`
	Email      string    `json:"email"`
	CourseID   string    `json:"courseId"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Enrollments turns a payment plus a cart item into a confirmed seat.
//
// The payment is written first and survives any later failure. Removing the
// cart item, incrementing the course and marking the payment enrolled commit
// in one transaction, so a reader never sees the cart item gone without the
// seat counted. Failed payments keep their reason and can be retried by id.
type Enrollments struct {
	stores    *database.Stores
	notifier  Notifier
	publisher Publisher
	now       func() time.Time
}

type EnrollmentOption func(*Enrollments)

func WithNotifier(n Notifier) EnrollmentOption {
	return func(e *Enrollments) { e.notifier = n }
}

func WithPublisher(p Publisher) EnrollmentOption {
	return func(e *Enrollments) { e.publisher = p }
}

func WithClock(now func() time.Time) EnrollmentOption {
	return func(e *Enrollments) { e.now = now }
}

func NewEnrollments(stores *database.Stores, opts ...EnrollmentOption) *Enrollments {
	e := &Enrollments{stores: stores, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Complete records payment and enrolls its owner in the referenced course.
// The returned result carries the payment id even when a later step fails.
func (e *Enrollments) Complete(ctx context.Context, payment *models.Payment) (*EnrollmentResult, error) {
	payment.ID = ""
	payment.Status = models.PaymentPending
	payment.FailureReason = ""
	payment.Attempts = 0
	if payment.Date.IsZero() {
		payment.Date = e.now()
	}

	inserted, err := e.stores.Payments.Insert(ctx, payment)
	if err != nil {
		return nil, err
	}
	result := &EnrollmentResult{PaymentID: inserted.InsertedID}

	if payment.CartItemID == "" {
		e.markFailed(ctx, payment, ErrMissingReference)
		return result, ErrMissingReference
	}

	return e.enroll(ctx, payment)
}

// Retry re-runs the enrollment steps for a stored payment. A payment that is
// already enrolled is left alone and reports zero counts.
func (e *Enrollments) Retry(ctx context.Context, paymentID string) (*EnrollmentResult, error) {
	payment, err := e.stores.Payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	result := &EnrollmentResult{PaymentID: payment.ID}
	if payment.Status == models.PaymentEnrolled {
		return result, nil
	}
	if payment.CartItemID == "" {
		return result, ErrMissingReference
	}
	return e.enroll(ctx, payment)
}

func (e *Enrollments) enroll(ctx context.Context, payment *models.Payment) (*EnrollmentResult, error) {
	result := &EnrollmentResult{PaymentID: payment.ID}
	courseID := payment.CourseID

	err := e.stores.RunInTx(ctx, func(tx *database.Stores) error {
		item, err := tx.Carts.FindByID(ctx, payment.CartItemID)
		if errors.Is(err, database.ErrInvalidIdentifier) {
			return fmt.Errorf("%w: %q", ErrCartItemNotFound, payment.CartItemID)
		}
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		// Another user's cart item is treated as absent.
		if !strings.EqualFold(item.Email, payment.Email) {
			return fmt.Errorf("%w: %q", ErrCartItemNotFound, payment.CartItemID)
		}
		if courseID != "" && courseID != item.CourseID {
			return fmt.Errorf("%w: course %q is not the course in cart item %s", ErrEnrollmentUpdateFailed, courseID, item.ID)
		}
		courseID = item.CourseID

		deleted, err := tx.Carts.DeleteByID(ctx, item.ID)
		if err != nil {
			return err
		}
		if deleted.DeletedCount == 0 {
			return ErrCartItemNotFound
		}

		updated, err := tx.Courses.IncrementEnrolled(ctx, courseID)
		if errors.Is(err, database.ErrInvalidIdentifier) {
			return fmt.Errorf("%w: course %q: %v", ErrEnrollmentUpdateFailed, courseID, err)
		}
		if err != nil {
			return err
		}
		if updated == 0 {
			return fmt.Errorf("%w: course %q", ErrEnrollmentUpdateFailed, courseID)
		}

		marked, err := tx.Payments.UpdateOne(ctx,
			database.Filter{"id": payment.ID, "status": payment.Status},
			database.Patch{
				"status":         models.PaymentEnrolled,
				"course_id":      courseID,
				"failure_reason": "",
				"attempts":       gorm.Expr("attempts + ?", 1),
			},
			false,
		)
		if err != nil {
			return err
		}
		if marked.ModifiedCount == 0 {
			return fmt.Errorf("%w: payment %s changed concurrently", ErrEnrollmentUpdateFailed, payment.ID)
		}

		result.CartDeletedCount = deleted.DeletedCount
		result.CourseUpdatedCount = updated
		return nil
	})
	if err != nil {
		e.markFailed(ctx, payment, err)
		return &EnrollmentResult{PaymentID: payment.ID}, err
	}

	payment.Status = models.PaymentEnrolled
	payment.CourseID = courseID
	log.Printf("[ENROLLMENT] Payment %s enrolled %s in course %s", payment.ID, payment.Email, courseID)
	e.announce(ctx, payment)
	return result, nil
}

// markFailed only touches a payment still in the status we read, so a
// concurrent success is never overwritten.
func (e *Enrollments) markFailed(ctx context.Context, payment *models.Payment, cause error) {
	_, err := e.stores.Payments.UpdateOne(ctx,
		database.Filter{"id": payment.ID, "status": payment.Status},
		database.Patch{
			"status":         models.PaymentFailed,
			"failure_reason": cause.Error(),
			"attempts":       gorm.Expr("attempts + ?", 1),
		},
		false,
	)
	if err != nil {
		log.Printf("[ENROLLMENT] Failed to mark payment %s as failed: %v", payment.ID, err)
		return
	}
	log.Printf("[ENROLLMENT] Payment %s failed: %v", payment.ID, cause)
}

func (e *Enrollments) announce(ctx context.Context, payment *models.Payment) {
	if e.notifier != nil {
		if err := e.notifier.EnrollmentConfirmed(ctx, payment); err != nil {
			log.Printf("[ENROLLMENT] Confirmation email for payment %s failed: %v", payment.ID, err)
		}
	}
	if e.publisher != nil {
		event := EnrollmentEvent{
			Type:       EventEnrollmentCompleted,
			PaymentID:  payment.ID,
			Email:      payment.Email,
			CourseID:   payment.CourseID,
			Amount:     payment.Amount,
			OccurredAt: e.now(),
		}
		if err := e.publisher.Publish(ctx, payment.CourseID, event); err != nil {
			log.Printf("[ENROLLMENT] Publishing event for payment %s failed: %v", payment.ID, err)
		}
	}
}
