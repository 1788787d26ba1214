package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/dto"
	"github.com/issuespotter/backend/internal/services"
)

type AdminHandler struct {
	reportService *services.ReportService
}

func NewAdminHandler(reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{reportService: reportService}
}

// UpdateStatus handles PATCH /admin/reports/:id/status. Any status may
// follow any other.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report ID",
		})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	report, err := h.reportService.UpdateStatus(reportID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Report not found",
			})
		}
		if errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update status",
		})
	}

	return c.JSON(report)
}

func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.reportService.DashboardStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch dashboard stats",
		})
	}
	return c.JSON(stats)
}
