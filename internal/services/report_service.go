package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/dto"
	"github.com/issuespotter/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotReportOwner = errors.New("report belongs to another user")
	ErrInvalidStatus  = errors.New("invalid status")
)

type ReportService struct {
	db     *gorm.DB
	filter *ContentFilter
}

func NewReportService(db *gorm.DB, filter *ContentFilter) *ReportService {
	return &ReportService{db: db, filter: filter}
}

// Submit validates and persists a citizen report. New reports always start
// as pending with a zero upvote count.
func (s *ReportService) Submit(userID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is required")
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("invalid category: %s", req.Category)
	}

	for _, text := range []string{req.Title, req.Description} {
		if ok, reason := s.filter.Check(text); !ok {
			return nil, errors.New(s.filter.RejectionMessage(reason))
		}
	}

	report := models.Report{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Status:      models.StatusPending,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		ImageURL:    req.ImageURL,
		UserID:      userID,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

// List fetches reports newest-first. Status and category equality filters
// go to SQL; free-text search and the today/yesterday bucket are applied
// over the fetched list, mirroring the dashboard's behavior. No store-level
// pagination: the dashboard slices client-side.
func (s *ReportService) List(filters dto.ReportFilters) ([]models.Report, error) {
	query := s.db.Order("created_at DESC")
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("fetching reports: %w", err)
	}

	if filters.Search != "" {
		reports = filterBySearch(reports, filters.Search)
	}
	if filters.When != "" {
		reports = filterByDay(reports, filters.When, time.Now())
	}
	return reports, nil
}

func filterBySearch(reports []models.Report, search string) []models.Report {
	needle := strings.ToLower(search)
	matched := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) ||
			(r.Address != nil && strings.Contains(strings.ToLower(*r.Address), needle)) {
			matched = append(matched, r)
		}
	}
	return matched
}

func filterByDay(reports []models.Report, when string, now time.Time) []models.Report {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	if when == "yesterday" {
		end = start
		start = start.AddDate(0, 0, -1)
	}

	matched := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if !r.CreatedAt.Before(start) && r.CreatedAt.Before(end) {
			matched = append(matched, r)
		}
	}
	return matched
}

func (s *ReportService) Get(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListByUser returns the user's own submissions, newest first.
func (s *ReportService) ListByUser(userID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("fetching user reports: %w", err)
	}
	return reports, nil
}

// DeleteOwn removes a report if it belongs to userID.
func (s *ReportService) DeleteOwn(userID, reportID uuid.UUID) error {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	if report.UserID != userID {
		return ErrNotReportOwner
	}
	return s.db.Delete(&report).Error
}

// UpdateStatus applies an admin status change. Any status may follow any
// other; only enum membership is validated.
func (s *ReportService) UpdateStatus(reportID uuid.UUID, status string) (*models.Report, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("updating status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrReportNotFound
	}

	return s.Get(reportID)
}

// DashboardStats aggregates the admin overview numbers.
func (s *ReportService) DashboardStats() (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{
		StatusCounts:   make(map[string]int64),
		CategoryCounts: make(map[string]int64),
	}

	if err := s.db.Model(&models.Report{}).Count(&stats.TotalReports).Error; err != nil {
		return nil, fmt.Errorf("counting reports: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.Report{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.ReportsToday).Error; err != nil {
		return nil, fmt.Errorf("counting today's reports: %w", err)
	}

	type groupCount struct {
		Key   string
		Count int64
	}

	var byStatus []groupCount
	if err := s.db.Model(&models.Report{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("grouping by status: %w", err)
	}
	for _, g := range byStatus {
		stats.StatusCounts[g.Key] = g.Count
	}

	var byCategory []groupCount
	if err := s.db.Model(&models.Report{}).
		Select("category AS key, COUNT(*) AS count").
		Group("category").
		Scan(&byCategory).Error; err != nil {
		return nil, fmt.Errorf("grouping by category: %w", err)
	}
	for _, g := range byCategory {
		stats.CategoryCounts[g.Key] = g.Count
	}

	// Average days from submission to resolution, over resolved reports.
	var resolved []models.Report
	if err := s.db.Select("created_at", "updated_at").
		Where("status = ?", models.StatusResolved).
		Find(&resolved).Error; err != nil {
		return nil, fmt.Errorf("fetching resolved reports: %w", err)
	}
	if len(resolved) > 0 {
		var totalDays float64
		for _, r := range resolved {
			totalDays += r.UpdatedAt.Sub(r.CreatedAt).Hours() / 24
		}
		stats.AvgResolutionDays = totalDays / float64(len(resolved))
	}

	return stats, nil
}
