package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPhotoSave_WritesFileAndRecord(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	svc := NewPhotoService(db, dir, "http://localhost:8080/")

	user := newUser(t, db, "photo@example.com")
	data := []byte("not really a jpeg")

	upload, err := svc.Save(user.ID, "image/jpeg", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(upload.Path, "reports/"+user.ID.String()+"/") {
		t.Errorf("unexpected object key %q", upload.Path)
	}
	if !strings.HasSuffix(upload.Path, ".jpg") {
		t.Errorf("expected .jpg extension, got %q", upload.Path)
	}
	if upload.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", upload.SizeBytes, len(data))
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(upload.Path)))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(onDisk) != string(data) {
		t.Error("stored bytes differ from input")
	}

	url := svc.PublicURL(upload.Path)
	if url != "http://localhost:8080/uploads/"+upload.Path {
		t.Errorf("PublicURL = %q", url)
	}
}

func TestPhotoSave_RejectsUnsupportedType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, t.TempDir(), "http://localhost:8080")

	user := newUser(t, db, "photo2@example.com")
	if _, err := svc.Save(user.ID, "application/pdf", []byte("%PDF-")); !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("got %v, want ErrUnsupportedImageType", err)
	}
}

func TestPhotoSave_KeysNeverCollide(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, t.TempDir(), "http://localhost:8080")

	user := newUser(t, db, "photo3@example.com")
	first, err := svc.Save(user.ID, "image/png", []byte("a"))
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := svc.Save(user.ID, "image/png", []byte("b"))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if first.Path == second.Path {
		t.Error("two uploads produced the same object key")
	}
}
