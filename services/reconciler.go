package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"yoga/database"
	"yoga/models"
)

// Reconciler retries enrollments left pending, e.g. when the process died
// between recording a payment and committing the seat.
type Reconciler struct {
	enrollments *Enrollments
	maxAttempts int
	minAge      time.Duration
	cron        *cron.Cron
}

func NewReconciler(enrollments *Enrollments, maxAttempts int) *Reconciler {
	return &Reconciler{
		enrollments: enrollments,
		maxAttempts: maxAttempts,
		minAge:      time.Minute,
	}
}

// Start schedules RunOnce on the given cron spec.
func (r *Reconciler) Start(schedule string) error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc(schedule, func() {
		log.Println("[RECONCILER] Running pending enrollment check...")
		retried, enrolled := r.RunOnce(context.Background())
		if retried > 0 {
			log.Printf("[RECONCILER] Retried %d payments, %d enrolled", retried, enrolled)
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	log.Printf("[RECONCILER] Scheduler started with spec %q", schedule)
	return nil
}

// Stop waits for a running job to finish.
func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

// RunOnce retries every pending payment old enough and under the attempt cap.
func (r *Reconciler) RunOnce(ctx context.Context) (retried, enrolled int) {
	payments, err := r.enrollments.stores.Payments.FindMany(ctx,
		database.Filter{"status": models.PaymentPending},
		database.FindOptions{Sort: []database.Sort{{Column: "date"}}},
	)
	if err != nil {
		log.Printf("[RECONCILER] Error fetching pending payments: %v", err)
		return 0, 0
	}

	cutoff := r.enrollments.now().Add(-r.minAge)
	for _, p := range payments {
		if p.Attempts >= r.maxAttempts || p.CreatedAt.After(cutoff) {
			continue
		}

		retried++
		if _, err := r.enrollments.Retry(ctx, p.ID); err != nil {
			log.Printf("[RECONCILER] Payment %s still not enrolled: %v", p.ID, err)
			continue
		}
		enrolled++
	}
	return retried, enrolled
}
