package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upload records one photo stored by the local object store. Path is the
// object key relative to the upload root (reports/<user>/<uuid>.jpg).
type Upload struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Path        string    `gorm:"not null;size:512;uniqueIndex" json:"path"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *Upload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
