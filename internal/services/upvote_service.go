package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyUpvoted = errors.New("you've already upvoted this report")
	ErrReportMissing  = errors.New("report not found")
)

// UpvoteService owns the upvote ledger: at most one (report, user) row,
// enforced by the composite unique index, plus the denormalized counter on
// the report. The index is the correctness guarantee; any client-side
// "already upvoted" set is just a cache seeded from UpvotedReportIDs.
type UpvoteService struct {
	db *gorm.DB
}

func NewUpvoteService(db *gorm.DB) *UpvoteService {
	return &UpvoteService{db: db}
}

// Upvote records userID's upvote on reportID. Returns ErrAlreadyUpvoted
// when the ledger already holds the pair — a benign condition, not a
// failure. The counter bump is a single atomic UPDATE, so concurrent
// upvoters on the same report cannot undercount.
func (s *UpvoteService) Upvote(userID, reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportMissing
		}
		return nil, fmt.Errorf("fetching report: %w", err)
	}

	upvote := models.ReportUpvote{
		ReportID: reportID,
		UserID:   userID,
	}
	if err := s.db.Create(&upvote).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyUpvoted
		}
		return nil, fmt.Errorf("inserting upvote: %w", err)
	}

	if err := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("upvote_count", gorm.Expr("upvote_count + 1")).Error; err != nil {
		// Ledger row exists but the counter lagged. Not rolled back; the
		// ledger stays the source of truth.
		return nil, fmt.Errorf("incrementing upvote count: %w", err)
	}

	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("reloading report: %w", err)
	}
	return &report, nil
}

// HasUpvoted reports whether the ledger holds (reportID, userID).
func (s *UpvoteService) HasUpvoted(userID, reportID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.ReportUpvote{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	return count > 0, err
}

// UpvotedReportIDs returns every report id the user has upvoted. Clients
// call this at login to seed their fast-path "already upvoted" set.
func (s *UpvoteService) UpvotedReportIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.ReportUpvote{}).
		Where("user_id = ?", userID).
		Pluck("report_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetching upvoted report ids: %w", err)
	}
	return ids, nil
}

// isDuplicateKey matches both GORM's translated error and the raw
// Postgres unique-violation SQLSTATE.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(strings.ToLower(msg), "duplicate") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
