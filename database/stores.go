package database

import (
	"context"

	"gorm.io/gorm"

	"yoga/models"
)

// Stores bundles one accessor per entity kind over a single handle.
type Stores struct {
	db *gorm.DB

	Users       *Collection[models.User]
	Courses     *CourseCollection
	Instructors *Collection[models.Instructor]
	Carts       *Collection[models.CartItem]
	Payments    *Collection[models.Payment]
}

func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		db:          db,
		Users:       NewCollection[models.User](db),
		Courses:     &CourseCollection{Collection: NewCollection[models.Course](db)},
		Instructors: NewCollection[models.Instructor](db),
		Carts:       NewCollection[models.CartItem](db),
		Payments:    NewCollection[models.Payment](db),
	}
}

// RunInTx runs fn against accessors bound to one transaction. Returning an
// error from fn rolls back every call made through tx.
func (s *Stores) RunInTx(ctx context.Context, fn func(tx *Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// CourseCollection adds the enrollment counter to the course accessor.
type CourseCollection struct {
	*Collection[models.Course]
}

// IncrementEnrolled bumps enrolled_count by one. Denied courses and courses
// without a free seat are left untouched and report zero rows.
func (c *CourseCollection) IncrementEnrolled(ctx context.Context, id string) (int64, error) {
	if !models.ValidID(id) {
		return 0, ErrInvalidIdentifier
	}

	res := c.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND status <> ?", id, models.CourseDenied).
		Where("seats <= 0 OR enrolled_count < seats").
		Updates(map[string]any{"enrolled_count": gorm.Expr("enrolled_count + ?", 1)})
	if res.Error != nil {
		return 0, storeErr(res.Error)
	}
	return res.RowsAffected, nil
}
