package dto

import "github.com/issuespotter/backend/internal/models"

type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Address     *string  `json:"address,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// ReportFilters shapes the dashboard list query. Status and Category are
// pushed down to SQL; Search and When are applied over the fetched list.
type ReportFilters struct {
	Status   string
	Category string
	Search   string
	When     string // "", "today" or "yesterday"
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int             `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// DashboardStats backs the admin overview cards and charts.
type DashboardStats struct {
	TotalReports      int64            `json:"total_reports"`
	ReportsToday      int64            `json:"reports_today"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	CategoryCounts    map[string]int64 `json:"category_counts"`
	AvgResolutionDays float64          `json:"avg_resolution_days"`
}

type UploadResponse struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}
