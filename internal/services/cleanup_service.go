package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/dto"
	"github.com/issuespotter/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const recentLogLimit = 10

// CleanupService purges resolved reports older than the retention window,
// writing an audit log entry before each deleting run. One instance is
// constructed in main and shared; Start/Stop toggle the daily timer.
type CleanupService struct {
	db            *gorm.DB
	retentionDays int
	interval      time.Duration

	mu      sync.Mutex
	running bool
	done    chan struct{}

	// now is swapped in tests to pin the clock.
	now func() time.Time
}

func NewCleanupService(db *gorm.DB, retentionDays int, interval time.Duration) *CleanupService {
	return &CleanupService{
		db:            db,
		retentionDays: retentionDays,
		interval:      interval,
		now:           time.Now,
	}
}

// Start begins periodic cleanup: one immediate run, then one per interval.
// Calling Start while already running is a no-op.
func (s *CleanupService) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Info("cleanup service already running")
		return
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	slog.Info("starting report cleanup service", "retention_days", s.retentionDays, "interval", s.interval.String())

	go func() {
		s.Run()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Run()
			case <-done:
				return
			}
		}
	}()
}

// Stop halts the periodic timer. Calling Stop while not running is a no-op.
func (s *CleanupService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		slog.Info("cleanup service is not running")
		return
	}
	slog.Info("stopping report cleanup service")
	s.running = false
	close(s.done)
	s.done = nil
}

// IsRunning reports whether the periodic timer is active.
func (s *CleanupService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run executes one cleanup pass. Failures are returned in the result, never
// panicked or propagated; a failed run does not stop the scheduler.
func (s *CleanupService) Run() dto.CleanupResult {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	var expired []models.Report
	err := s.db.Select("id", "title", "created_at", "updated_at").
		Where("status = ? AND updated_at < ?", models.StatusResolved, cutoff).
		Find(&expired).Error
	if err != nil {
		slog.Error("cleanup: fetching expired reports failed", "error", err)
		return dto.CleanupResult{Success: false, Error: err.Error()}
	}

	if len(expired) == 0 {
		slog.Info("cleanup: no reports past retention")
		return dto.CleanupResult{Success: true, Deleted: 0, Reports: []models.DeletedReportSummary{}, CutoffDate: &cutoff}
	}

	summaries := make([]models.DeletedReportSummary, len(expired))
	for i, r := range expired {
		summaries[i] = models.DeletedReportSummary{
			ID:        r.ID,
			Title:     r.Title,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
	}

	// Audit before delete. A failed log write is non-fatal: the purge is
	// the contract, the audit trail is best effort.
	if err := s.writeLog(cutoff, summaries); err != nil {
		slog.Error("cleanup: writing audit log failed", "error", err, "count", len(summaries))
	}

	// Delete by re-evaluating the predicate rather than the captured id
	// list. A report whose status flipped since the fetch escapes the
	// purge; one that newly crossed the cutoff is swept without a log row.
	result := s.db.Where("status = ? AND updated_at < ?", models.StatusResolved, cutoff).
		Delete(&models.Report{})
	if result.Error != nil {
		slog.Error("cleanup: deleting reports failed", "error", result.Error)
		return dto.CleanupResult{Success: false, Error: result.Error.Error()}
	}

	slog.Info("cleanup: deleted resolved reports past retention",
		"deleted", result.RowsAffected, "cutoff", cutoff.Format(time.RFC3339))

	return dto.CleanupResult{
		Success:    true,
		Deleted:    len(summaries),
		Reports:    summaries,
		CutoffDate: &cutoff,
	}
}

// ManualCleanup runs one pass on demand, regardless of scheduler state.
func (s *CleanupService) ManualCleanup() dto.CleanupResult {
	slog.Info("manual cleanup triggered by admin")
	return s.Run()
}

func (s *CleanupService) writeLog(cutoff time.Time, summaries []models.DeletedReportSummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(summaries))
	for i, summary := range summaries {
		ids[i] = summary.ID
	}
	rawIDs, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	entry := models.CleanupLog{
		CleanupDate:      s.now(),
		ReportsDeleted:   len(summaries),
		CutoffDate:       cutoff,
		DeletedReportIDs: datatypes.JSON(rawIDs),
		DeletedReports:   datatypes.JSON(raw),
	}
	return s.db.Create(&entry).Error
}

// Stats returns the cleanup panel data: recent audit entries, current
// resolved count, how many reports the next run would delete, and the
// countdown to the next midnight-aligned run.
func (s *CleanupService) Stats() (*dto.CleanupStats, error) {
	var logs []models.CleanupLog
	if err := s.db.Order("cleanup_date DESC").Limit(recentLogLimit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("fetching cleanup logs: %w", err)
	}

	var resolvedCount int64
	if err := s.db.Model(&models.Report{}).
		Where("status = ?", models.StatusResolved).
		Count(&resolvedCount).Error; err != nil {
		return nil, fmt.Errorf("counting resolved reports: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	var pendingDelete int64
	if err := s.db.Model(&models.Report{}).
		Where("status = ? AND updated_at < ?", models.StatusResolved, cutoff).
		Count(&pendingDelete).Error; err != nil {
		return nil, fmt.Errorf("counting pending deletions: %w", err)
	}

	return &dto.CleanupStats{
		RecentLogs:           logs,
		CurrentResolvedCount: resolvedCount,
		PendingDeleteCount:   pendingDelete,
		RetentionDays:        s.retentionDays,
		IsServiceRunning:     s.IsRunning(),
		NextCleanupIn:        s.nextCleanupIn(),
	}, nil
}

// nextCleanupIn formats the time until the next midnight as "XhYm".
// Returns nil when the scheduler is stopped.
func (s *CleanupService) nextCleanupIn() *string {
	if !s.IsRunning() {
		return nil
	}

	now := s.now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	until := nextMidnight.Sub(now)

	hours := int(until.Hours())
	minutes := int(until.Minutes()) % 60
	countdown := fmt.Sprintf("%dh %dm", hours, minutes)
	return &countdown
}
