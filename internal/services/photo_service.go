package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/models"
	"gorm.io/gorm"
)

var ErrUnsupportedImageType = errors.New("unsupported image type")

// PhotoService is the object store for report photos: files on local disk
// under the upload root, one Upload row per stored object. Keys follow
// reports/<user>/<uuid>.<ext> and are never overwritten.
type PhotoService struct {
	db      *gorm.DB
	dir     string
	baseURL string
}

func NewPhotoService(db *gorm.DB, dir, baseURL string) *PhotoService {
	return &PhotoService{db: db, dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the photo bytes under a fresh object key and records it.
// An existing file at the key is an error, never replaced.
func (s *PhotoService) Save(userID uuid.UUID, contentType string, data []byte) (*models.Upload, error) {
	ext, ok := imageExt(contentType)
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	key := filepath.Join("reports", userID.String(), uuid.New().String()+ext)
	fullPath := filepath.Join(s.dir, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating photo file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(fullPath)
		return nil, fmt.Errorf("writing photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing photo file: %w", err)
	}

	upload := models.Upload{
		UserID:      userID,
		Path:        filepath.ToSlash(key),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}
	if err := s.db.Create(&upload).Error; err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("recording upload: %w", err)
	}

	return &upload, nil
}

// PublicURL returns the URL the stored object is served from.
func (s *PhotoService) PublicURL(key string) string {
	return s.baseURL + "/uploads/" + key
}

func imageExt(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/webp":
		return ".webp", true
	}
	return "", false
}
