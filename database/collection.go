package database

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoga/models"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// Filter matches records by column equality.
type Filter map[string]any

// Patch holds column assignments; values may be gorm expressions.
type Patch map[string]any

type Sort struct {
	Column string
	Desc   bool
}

type FindOptions struct {
	Sort  []Sort
	Limit int // <= 0 means no limit
}

type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

type UpdateResult struct {
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type identified interface {
	GetID() string
}

// Collection is a thin accessor over one table. Every method is a single
// store call; callers needing several calls to commit together use Stores.RunInTx.
type Collection[T any] struct {
	db *gorm.DB
}

func NewCollection[T any](db *gorm.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

func (c *Collection[T]) FindMany(ctx context.Context, filter Filter, opts FindOptions) ([]T, error) {
	q := c.db.WithContext(ctx).Model(new(T))
	if len(filter) > 0 {
		q = q.Where(map[string]any(filter))
	}
	for _, s := range opts.Sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	records := make([]T, 0)
	if err := q.Find(&records).Error; err != nil {
		return nil, storeErr(err)
	}
	return records, nil
}

// FindOne returns nil without error when nothing matches.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var record T
	err := c.db.WithContext(ctx).Where(map[string]any(filter)).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &record, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if !models.ValidID(id) {
		return nil, ErrInvalidIdentifier
	}
	return c.FindOne(ctx, Filter{"id": id})
}

func (c *Collection[T]) Insert(ctx context.Context, record *T) (InsertResult, error) {
	if err := c.db.WithContext(ctx).Create(record).Error; err != nil {
		return InsertResult{}, storeErr(err)
	}
	var id string
	if r, ok := any(record).(identified); ok {
		id = r.GetID()
	}
	return InsertResult{InsertedID: id}, nil
}

// UpdateOne applies patch to the first record matching filter. With upsert
// and no match, a record built from filter and patch is inserted instead.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter Filter, patch Patch, upsert bool) (UpdateResult, error) {
	db := c.db.WithContext(ctx)

	id, ok := filter["id"].(string)
	if !ok {
		var target T
		err := db.Select("id").Where(map[string]any(filter)).Take(&target).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if upsert {
				return c.upsert(ctx, filter, patch)
			}
			return UpdateResult{}, nil
		case err != nil:
			return UpdateResult{}, storeErr(err)
		}
		id = any(&target).(identified).GetID()
	}

	res := db.Model(new(T)).Where(map[string]any(filter)).Where("id = ?", id).Updates(map[string]any(patch))
	if res.Error != nil {
		return UpdateResult{}, storeErr(res.Error)
	}
	if res.RowsAffected == 0 && upsert {
		return c.upsert(ctx, filter, patch)
	}
	return UpdateResult{MatchedCount: res.RowsAffected, ModifiedCount: res.RowsAffected}, nil
}

func (c *Collection[T]) UpdateByID(ctx context.Context, id string, patch Patch) (UpdateResult, error) {
	if !models.ValidID(id) {
		return UpdateResult{}, ErrInvalidIdentifier
	}
	return c.UpdateOne(ctx, Filter{"id": id}, patch, false)
}

func (c *Collection[T]) upsert(ctx context.Context, filter Filter, patch Patch) (UpdateResult, error) {
	values := make(map[string]any, len(filter)+len(patch)+3)
	for k, v := range filter {
		values[k] = v
	}
	for k, v := range patch {
		values[k] = v
	}
	id, _ := values["id"].(string)
	if id == "" {
		id = uuid.NewString()
		values["id"] = id
	}
	// Map creates skip model hooks and autotime fields.
	now := time.Now()
	for _, col := range []string{"created_at", "updated_at"} {
		if _, ok := values[col]; !ok {
			values[col] = now
		}
	}

	if err := c.db.WithContext(ctx).Model(new(T)).Create(values).Error; err != nil {
		return UpdateResult{}, storeErr(err)
	}
	return UpdateResult{UpsertedID: id}, nil
}

func (c *Collection[T]) DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error) {
	id, ok := filter["id"].(string)
	if !ok {
		target, err := c.FindOne(ctx, filter)
		if err != nil || target == nil {
			return DeleteResult{}, err
		}
		id = any(target).(identified).GetID()
	}

	res := c.db.WithContext(ctx).Where(map[string]any(filter)).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return DeleteResult{}, storeErr(res.Error)
	}
	return DeleteResult{DeletedCount: res.RowsAffected}, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (DeleteResult, error) {
	if !models.ValidID(id) {
		return DeleteResult{}, ErrInvalidIdentifier
	}
	return c.DeleteOne(ctx, Filter{"id": id})
}

// storeErr logs the driver error and hides it behind the sentinel, so
// SQL details never reach a response body.
func storeErr(err error) error {
	log.Printf("[STORE] %v", err)
	return ErrStoreUnavailable
}
