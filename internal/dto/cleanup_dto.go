package dto

import (
	"time"

	"github.com/issuespotter/backend/internal/models"
)

// CleanupResult is the outcome of one retention cleanup run. Error is set
// only when Success is false.
type CleanupResult struct {
	Success    bool                          `json:"success"`
	Deleted    int                           `json:"deleted"`
	Reports    []models.DeletedReportSummary `json:"reports"`
	CutoffDate *time.Time                    `json:"cutoff_date,omitempty"`
	Error      string                        `json:"error,omitempty"`
}

// CleanupStats backs the admin cleanup management panel.
type CleanupStats struct {
	RecentLogs           []models.CleanupLog `json:"recent_logs"`
	CurrentResolvedCount int64               `json:"current_resolved_count"`
	PendingDeleteCount   int64               `json:"pending_delete_count"`
	RetentionDays        int                 `json:"retention_days"`
	IsServiceRunning     bool                `json:"is_service_running"`
	NextCleanupIn        *string             `json:"next_cleanup_in"`
}
