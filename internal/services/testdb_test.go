package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/config"
	"github.com/issuespotter/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database and migrates every model
// the services touch.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test DB: %v", err)
	}

	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Report{},
		&models.ReportUpvote{},
		&models.CleanupLog{},
		&models.Upload{},
	)
	if err != nil {
		t.Fatalf("migrating models: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "x",
		Role:     "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return &user
}

func newReport(t *testing.T, db *gorm.DB, userID uuid.UUID, title, category, status string) *models.Report {
	t.Helper()
	report := models.Report{
		ID:          uuid.New(),
		Title:       title,
		Description: "test description for " + title,
		Category:    category,
		Status:      status,
		UserID:      userID,
	}
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("seeding report %s: %v", title, err)
	}
	return &report
}

// backdate rewrites a report's updated_at without triggering GORM's
// timestamp auto-update.
func backdate(t *testing.T, db *gorm.DB, reportID uuid.UUID, updatedAt time.Time) {
	t.Helper()
	err := db.Model(&models.Report{}).
		Where("id = ?", reportID).
		UpdateColumn("updated_at", updatedAt).Error
	if err != nil {
		t.Fatalf("backdating report: %v", err)
	}
}
