package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base replaces gorm.Model for collections keyed by generated string identifiers.
type Base struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a fresh identifier unless the caller already set one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// ValidID reports whether id has the shape of a generated identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (b Base) GetID() string {
	return b.ID
}
