package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportUpvote is one row of the upvote ledger. The composite unique index
// on (report_id, user_id) is the actual at-most-once guarantee; any client
// cache of "already upvoted" is a convenience on top of it. Rows are never
// updated; they are only removed when the owning account is deleted.
type ReportUpvote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_upvotes_report_user" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_upvotes_report_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *ReportUpvote) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
