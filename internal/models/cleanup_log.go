package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeletedReportSummary captures what a purged report looked like right
// before deletion. Stored inside the cleanup log's jsonb column; after the
// delete this is the only record the report ever existed.
type DeletedReportSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CleanupLog is an append-only audit record of one retention cleanup run.
// Written only for runs that deleted at least one report.
type CleanupLog struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CleanupDate      time.Time      `gorm:"not null;index" json:"cleanup_date"`
	ReportsDeleted   int            `gorm:"not null" json:"reports_deleted"`
	CutoffDate       time.Time      `gorm:"not null" json:"cutoff_date"`
	DeletedReportIDs datatypes.JSON `gorm:"type:jsonb" json:"deleted_report_ids"`
	DeletedReports   datatypes.JSON `gorm:"type:jsonb" json:"deleted_reports"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (l *CleanupLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
