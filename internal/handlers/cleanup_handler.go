package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/issuespotter/backend/internal/dto"
	"github.com/issuespotter/backend/internal/services"
)

// CleanupHandler exposes the retention cleanup controls to the admin
// dashboard's settings panel.
type CleanupHandler struct {
	cleanupService *services.CleanupService
}

func NewCleanupHandler(cleanupService *services.CleanupService) *CleanupHandler {
	return &CleanupHandler{cleanupService: cleanupService}
}

func (h *CleanupHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.cleanupService.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch cleanup stats",
		})
	}
	return c.JSON(stats)
}

func (h *CleanupHandler) Run(c *fiber.Ctx) error {
	result := h.cleanupService.ManualCleanup()
	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

func (h *CleanupHandler) Start(c *fiber.Ctx) error {
	h.cleanupService.Start()
	return c.JSON(fiber.Map{"message": "Cleanup service started", "running": true})
}

func (h *CleanupHandler) Stop(c *fiber.Ctx) error {
	h.cleanupService.Stop()
	return c.JSON(fiber.Map{"message": "Cleanup service stopped", "running": false})
}
