package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga/database"
	"yoga/database/dbtest"
	"yoga/models"
	"yoga/services"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) EnrollmentConfirmed(ctx context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p.Email)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []interface{}
}

func (f *fakePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.events = append(f.events, value)
	return nil
}

type fixture struct {
	stores   *database.Stores
	courseID string
	cartID   string
}

func seed(t *testing.T, course models.Course) fixture {
	t.Helper()
	ctx := context.Background()
	stores := dbtest.Stores(t)

	c, err := stores.Courses.Insert(ctx, &course)
	require.NoError(t, err)
	cart, err := stores.Carts.Insert(ctx, &models.CartItem{Email: "a@x.com", CourseID: c.InsertedID, Price: 20})
	require.NoError(t, err)

	return fixture{stores: stores, courseID: c.InsertedID, cartID: cart.InsertedID}
}

func TestComplete_HappyPath(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Hatha", Status: models.CourseApproved, EnrolledCount: 3})
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	enrollments := services.NewEnrollments(fx.stores, services.WithNotifier(notifier), services.WithPublisher(publisher))

	res, err := enrollments.Complete(ctx, &models.Payment{
		Email:      "a@x.com",
		Amount:     20,
		CartItemID: fx.cartID,
		CourseID:   fx.courseID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.CartDeletedCount)
	assert.Equal(t, int64(1), res.CourseUpdatedCount)

	course, err := fx.stores.Courses.FindByID(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, 4, course.EnrolledCount)

	carts, err := fx.stores.Carts.FindMany(ctx, database.Filter{"email": "a@x.com"}, database.FindOptions{})
	require.NoError(t, err)
	assert.Empty(t, carts)

	payment, err := fx.stores.Payments.FindByID(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentEnrolled, payment.Status)
	assert.Equal(t, 1, payment.Attempts)
	assert.False(t, payment.Date.IsZero())

	assert.Equal(t, []string{"a@x.com"}, notifier.sent)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, fx.courseID, publisher.keys[0])
	event := publisher.events[0].(services.EnrollmentEvent)
	assert.Equal(t, services.EventEnrollmentCompleted, event.Type)
	assert.Equal(t, res.PaymentID, event.PaymentID)
}

func TestComplete_CourseTakenFromCartItem(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Yin", Status: models.CourseApproved})
	enrollments := services.NewEnrollments(fx.stores)

	res, err := enrollments.Complete(ctx, &models.Payment{Email: "a@x.com", Amount: 20, CartItemID: fx.cartID})
	require.NoError(t, err)

	payment, err := fx.stores.Payments.FindByID(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, fx.courseID, payment.CourseID)
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name        string
		course      models.Course
		cartItemID  func(fx fixture) string
		courseID    func(fx fixture) string
		expectedErr error
		cartRemains bool
	}{
		{
			name:        "missing cart reference",
			course:      models.Course{Name: "A", Status: models.CourseApproved},
			cartItemID:  func(fixture) string { return "" },
			courseID:    func(fx fixture) string { return fx.courseID },
			expectedErr: services.ErrMissingReference,
			cartRemains: true,
		},
		{
			name:        "cart item does not exist",
			course:      models.Course{Name: "B", Status: models.CourseApproved},
			cartItemID:  func(fixture) string { return "6f1c0a3e-5a54-4b5e-9f43-7d0a2b9c1e11" },
			courseID:    func(fx fixture) string { return fx.courseID },
			expectedErr: services.ErrCartItemNotFound,
			cartRemains: true,
		},
		{
			name:        "cart reference is malformed",
			course:      models.Course{Name: "B2", Status: models.CourseApproved},
			cartItemID:  func(fixture) string { return "cart-1" },
			courseID:    func(fx fixture) string { return fx.courseID },
			expectedErr: services.ErrCartItemNotFound,
			cartRemains: true,
		},
		{
			name:        "course does not match cart item",
			course:      models.Course{Name: "B3", Status: models.CourseApproved},
			cartItemID:  func(fx fixture) string { return fx.cartID },
			courseID:    func(fixture) string { return "6f1c0a3e-5a54-4b5e-9f43-7d0a2b9c1e11" },
			expectedErr: services.ErrEnrollmentUpdateFailed,
			cartRemains: true,
		},
		{
			name:        "course is full",
			course:      models.Course{Name: "C", Status: models.CourseApproved, Seats: 2, EnrolledCount: 2},
			cartItemID:  func(fx fixture) string { return fx.cartID },
			courseID:    func(fx fixture) string { return fx.courseID },
			expectedErr: services.ErrEnrollmentUpdateFailed,
			cartRemains: true,
		},
		{
			name:        "course reference is malformed",
			course:      models.Course{Name: "D", Status: models.CourseApproved},
			cartItemID:  func(fx fixture) string { return fx.cartID },
			courseID:    func(fixture) string { return "C1" },
			expectedErr: services.ErrEnrollmentUpdateFailed,
			cartRemains: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			fx := seed(t, tt.course)
			enrollments := services.NewEnrollments(fx.stores)

			res, err := enrollments.Complete(ctx, &models.Payment{
				Email:      "a@x.com",
				Amount:     20,
				CartItemID: tt.cartItemID(fx),
				CourseID:   tt.courseID(fx),
			})
			require.ErrorIs(t, err, tt.expectedErr)
			require.NotNil(t, res)

			// The payment stays recorded, marked failed with its reason.
			payment, err := fx.stores.Payments.FindByID(ctx, res.PaymentID)
			require.NoError(t, err)
			require.NotNil(t, payment)
			assert.Equal(t, models.PaymentFailed, payment.Status)
			assert.NotEmpty(t, payment.FailureReason)

			cart, err := fx.stores.Carts.FindByID(ctx, fx.cartID)
			require.NoError(t, err)
			assert.Equal(t, tt.cartRemains, cart != nil)

			course, err := fx.stores.Courses.FindByID(ctx, fx.courseID)
			require.NoError(t, err)
			assert.Equal(t, tt.course.EnrolledCount, course.EnrolledCount)
		})
	}
}

func TestComplete_ForeignCartItem(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Cheap", Price: 1, Status: models.CourseApproved})
	pricey, err := fx.stores.Courses.Insert(ctx, &models.Course{Name: "Pricey", Price: 500, Status: models.CourseApproved})
	require.NoError(t, err)
	enrollments := services.NewEnrollments(fx.stores)

	for _, courseID := range []string{"", fx.courseID, pricey.InsertedID} {
		res, err := enrollments.Complete(ctx, &models.Payment{
			Email:      "alice@x.com",
			Amount:     1,
			CartItemID: fx.cartID,
			CourseID:   courseID,
		})
		require.ErrorIs(t, err, services.ErrCartItemNotFound)

		payment, err := fx.stores.Payments.FindByID(ctx, res.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentFailed, payment.Status)
	}

	cart, err := fx.stores.Carts.FindByID(ctx, fx.cartID)
	require.NoError(t, err)
	assert.NotNil(t, cart, "the owner's cart item must stay in place")

	for _, id := range []string{fx.courseID, pricey.InsertedID} {
		course, err := fx.stores.Courses.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, course.EnrolledCount, course.Name)
	}

	// The owner can still complete it.
	_, err = enrollments.Complete(ctx, &models.Payment{Email: "a@x.com", Amount: 20, CartItemID: fx.cartID})
	require.NoError(t, err)
}

func TestComplete_SameCartItemRace(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Flow", Status: models.CourseApproved})
	enrollments := services.NewEnrollments(fx.stores)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = enrollments.Complete(ctx, &models.Payment{
				Email:      "a@x.com",
				Amount:     20,
				CartItemID: fx.cartID,
				CourseID:   fx.courseID,
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, services.ErrCartItemNotFound):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	course, err := fx.stores.Courses.FindByID(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.EnrolledCount)
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Ashtanga", Status: models.CourseApproved, Seats: 1, EnrolledCount: 1})
	enrollments := services.NewEnrollments(fx.stores)

	res, err := enrollments.Complete(ctx, &models.Payment{Email: "a@x.com", Amount: 20, CartItemID: fx.cartID, CourseID: fx.courseID})
	require.ErrorIs(t, err, services.ErrEnrollmentUpdateFailed)

	// A seat frees up; retrying the same payment now succeeds.
	_, err = fx.stores.Courses.UpdateByID(ctx, fx.courseID, database.Patch{"seats": 2})
	require.NoError(t, err)

	again, err := enrollments.Retry(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.CartDeletedCount)
	assert.Equal(t, int64(1), again.CourseUpdatedCount)

	payment, err := fx.stores.Payments.FindByID(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentEnrolled, payment.Status)
	assert.Empty(t, payment.FailureReason)
	assert.Equal(t, 2, payment.Attempts)

	// Retrying an enrolled payment is a no-op.
	noop, err := enrollments.Retry(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Zero(t, noop.CartDeletedCount)
	assert.Zero(t, noop.CourseUpdatedCount)

	course, err := fx.stores.Courses.FindByID(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, 2, course.EnrolledCount)
}

func TestRetry_UnknownPayment(t *testing.T) {
	enrollments := services.NewEnrollments(dbtest.Stores(t))

	_, err := enrollments.Retry(context.Background(), "6f1c0a3e-5a54-4b5e-9f43-7d0a2b9c1e11")
	assert.ErrorIs(t, err, services.ErrPaymentNotFound)

	_, err = enrollments.Retry(context.Background(), "nope")
	assert.ErrorIs(t, err, services.ErrInvalidIdentifier)
}

func TestReconciler_RunOnce(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Kundalini", Status: models.CourseApproved})

	// A payment recorded by a process that died before enrolling.
	_, err := fx.stores.Payments.Insert(ctx, &models.Payment{
		Email:      "a@x.com",
		Amount:     20,
		Date:       time.Now(),
		CartItemID: fx.cartID,
		CourseID:   fx.courseID,
		Status:     models.PaymentPending,
	})
	require.NoError(t, err)
	// Out of attempts: skipped.
	_, err = fx.stores.Payments.Insert(ctx, &models.Payment{
		Email:      "b@x.com",
		Amount:     20,
		Date:       time.Now(),
		CartItemID: fx.cartID,
		Status:     models.PaymentPending,
		Attempts:   5,
	})
	require.NoError(t, err)

	later := func() time.Time { return time.Now().Add(2 * time.Minute) }
	reconciler := services.NewReconciler(services.NewEnrollments(fx.stores, services.WithClock(later)), 5)

	retried, enrolled := reconciler.RunOnce(ctx)
	assert.Equal(t, 1, retried)
	assert.Equal(t, 1, enrolled)

	course, err := fx.stores.Courses.FindByID(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.EnrolledCount)

	retried, _ = reconciler.RunOnce(ctx)
	assert.Zero(t, retried)
}

func TestReconciler_SkipsFreshPayments(t *testing.T) {
	ctx := context.Background()
	fx := seed(t, models.Course{Name: "Vinyasa", Status: models.CourseApproved})

	_, err := fx.stores.Payments.Insert(ctx, &models.Payment{
		Email: "a@x.com", Amount: 20, Date: time.Now(), CartItemID: fx.cartID, Status: models.PaymentPending,
	})
	require.NoError(t, err)

	reconciler := services.NewReconciler(services.NewEnrollments(fx.stores), 5)
	retried, _ := reconciler.RunOnce(ctx)
	assert.Zero(t, retried)
}

func TestReconciler_StartRejectsBadSchedule(t *testing.T) {
	reconciler := services.NewReconciler(services.NewEnrollments(dbtest.Stores(t)), 5)
	assert.Error(t, reconciler.Start("not a cron spec"))
	reconciler.Stop()
}
