package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report categories as submitted by the mobile client.
const (
	CategoryRoads        = "roads"
	CategoryLighting     = "lighting"
	CategoryWaterSupply  = "water_supply"
	CategoryCleanliness  = "cleanliness"
	CategoryPublicSafety = "public_safety"
	CategoryObstructions = "obstructions"
)

// Report statuses. Transitions are intentionally unconstrained: admins may
// move a report from any status to any other.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

// ValidCategory reports whether c is a known report category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryRoads, CategoryLighting, CategoryWaterSupply,
		CategoryCleanliness, CategoryPublicSafety, CategoryObstructions:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known report status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Report is a citizen-submitted civic issue.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"not null;type:text" json:"description"`
	Category    string    `gorm:"not null;size:50;index" json:"category"`
	Status      string    `gorm:"not null;default:'pending';size:50;index" json:"status"`
	Latitude    *float64  `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude   *float64  `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`
	Address     *string   `gorm:"size:500" json:"address,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UpvoteCount int       `gorm:"not null;default:0" json:"upvote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
