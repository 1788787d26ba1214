package logging

import (
	"log/slog"
	"time"

	"github.com/issuespotter/backend/internal/models"
	"gorm.io/gorm"
)

const systemLogRetentionDays = 30

// StartRetention runs a daily goroutine that deletes system_logs rows
// older than 30 days. This is separate from the report retention
// scheduler, which has its own audit trail.
func StartRetention(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -systemLogRetentionDays)
				result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
				if result.Error != nil {
					slog.Error("system log retention sweep failed", "error", result.Error)
				} else if result.RowsAffected > 0 {
					slog.Info("system log retention sweep completed", "deleted", result.RowsAffected)
				}
			case <-done:
				return
			}
		}
	}()
}
