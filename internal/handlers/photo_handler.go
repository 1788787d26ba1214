package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/issuespotter/backend/internal/authctx"
	"github.com/issuespotter/backend/internal/dto"
	"github.com/issuespotter/backend/internal/services"
)

const maxPhotoBytes = 4 * 1024 * 1024

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Upload handles POST /photos: a multipart "photo" part stored under a
// fresh object key, returning the key and public URL for the report form.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	userID, err := authctx.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing photo file",
		})
	}
	if fileHeader.Size > maxPhotoBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "Photo exceeds the 4MB limit",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read photo file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read photo file",
		})
	}

	upload, err := h.photoService.Save(userID, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImageType) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(dto.ErrorResponse{
				Error: true, Message: "Only JPEG, PNG and WebP images are accepted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store photo",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Path:      upload.Path,
		PublicURL: h.photoService.PublicURL(upload.Path),
	})
}
