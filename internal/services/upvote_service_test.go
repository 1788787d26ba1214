package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/issuespotter/backend/internal/models"
)

func TestUpvote_IncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	voter := newUser(t, db, "voter@example.com")
	report := newReport(t, db, owner.ID, "Dark alley", models.CategoryPublicSafety, models.StatusPending)

	svc := NewUpvoteService(db)

	updated, err := svc.Upvote(voter.ID, report.ID)
	if err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	if updated.UpvoteCount != 1 {
		t.Errorf("UpvoteCount = %d, want 1", updated.UpvoteCount)
	}

	var rows int64
	db.Model(&models.ReportUpvote{}).Where("report_id = ? AND user_id = ?", report.ID, voter.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("ledger rows = %d, want 1", rows)
	}
}

func TestUpvote_SecondAttemptRejected(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	voter := newUser(t, db, "voter@example.com")
	report := newReport(t, db, owner.ID, "Dark alley", models.CategoryPublicSafety, models.StatusPending)

	svc := NewUpvoteService(db)

	if _, err := svc.Upvote(voter.ID, report.ID); err != nil {
		t.Fatalf("first upvote: %v", err)
	}

	_, err := svc.Upvote(voter.ID, report.ID)
	if !errors.Is(err, ErrAlreadyUpvoted) {
		t.Fatalf("second upvote: got %v, want ErrAlreadyUpvoted", err)
	}

	// Count unchanged and still one ledger row.
	var report2 models.Report
	if err := db.First(&report2, "id = ?", report.ID).Error; err != nil {
		t.Fatalf("reloading report: %v", err)
	}
	if report2.UpvoteCount != 1 {
		t.Errorf("UpvoteCount after duplicate = %d, want 1", report2.UpvoteCount)
	}
	var rows int64
	db.Model(&models.ReportUpvote{}).Where("report_id = ?", report.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("ledger rows = %d, want 1", rows)
	}
}

// A second session that never saw the client-side cache still cannot
// double-upvote: the unique index alone stops it.
func TestUpvote_UniqueIndexStopsSecondSession(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	voter := newUser(t, db, "voter@example.com")
	report := newReport(t, db, owner.ID, "Flooded underpass", models.CategoryWaterSupply, models.StatusPending)

	// First session wrote the ledger row directly.
	row := models.ReportUpvote{ReportID: report.ID, UserID: voter.ID}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seeding ledger row: %v", err)
	}

	svc := NewUpvoteService(db)
	_, err := svc.Upvote(voter.ID, report.ID)
	if !errors.Is(err, ErrAlreadyUpvoted) {
		t.Fatalf("got %v, want ErrAlreadyUpvoted", err)
	}

	var report2 models.Report
	db.First(&report2, "id = ?", report.ID)
	if report2.UpvoteCount != 0 {
		t.Errorf("duplicate must not bump the counter, got %d", report2.UpvoteCount)
	}
}

func TestUpvote_DistinctUsersEachCount(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	report := newReport(t, db, owner.ID, "Collapsed sidewalk", models.CategoryRoads, models.StatusPending)

	svc := NewUpvoteService(db)

	voters := make([]uuid.UUID, 5)
	for i := range voters {
		voters[i] = newUser(t, db, uuid.NewString()+"@example.com").ID
	}

	var wg sync.WaitGroup
	upvoteErrs := make(chan error, len(voters))
	for _, v := range voters {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := svc.Upvote(id, report.ID); err != nil {
				upvoteErrs <- err
			}
		}(v)
	}
	wg.Wait()
	close(upvoteErrs)
	for err := range upvoteErrs {
		t.Errorf("concurrent Upvote failed: %v", err)
	}

	var report2 models.Report
	if err := db.First(&report2, "id = ?", report.ID).Error; err != nil {
		t.Fatalf("reloading report: %v", err)
	}
	if report2.UpvoteCount != 5 {
		t.Errorf("UpvoteCount = %d, want 5", report2.UpvoteCount)
	}
}

func TestUpvote_UnknownReport(t *testing.T) {
	db := setupTestDB(t)
	voter := newUser(t, db, "voter@example.com")

	svc := NewUpvoteService(db)
	_, err := svc.Upvote(voter.ID, uuid.New())
	if !errors.Is(err, ErrReportMissing) {
		t.Fatalf("got %v, want ErrReportMissing", err)
	}
}

func TestUpvotedReportIDs(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	voter := newUser(t, db, "voter@example.com")
	other := newUser(t, db, "other@example.com")

	r1 := newReport(t, db, owner.ID, "One", models.CategoryRoads, models.StatusPending)
	r2 := newReport(t, db, owner.ID, "Two", models.CategoryRoads, models.StatusPending)
	r3 := newReport(t, db, owner.ID, "Three", models.CategoryRoads, models.StatusPending)

	svc := NewUpvoteService(db)
	for _, r := range []uuid.UUID{r1.ID, r2.ID} {
		if _, err := svc.Upvote(voter.ID, r); err != nil {
			t.Fatalf("seeding upvote: %v", err)
		}
	}
	if _, err := svc.Upvote(other.ID, r3.ID); err != nil {
		t.Fatalf("seeding other user's upvote: %v", err)
	}

	ids, err := svc.UpvotedReportIDs(voter.ID)
	if err != nil {
		t.Fatalf("UpvotedReportIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	got := map[uuid.UUID]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if !got[r1.ID] || !got[r2.ID] {
		t.Errorf("ids missing the voter's reports: %v", ids)
	}
	if got[r3.ID] {
		t.Error("ids contain another user's upvote")
	}
}

func TestHasUpvoted(t *testing.T) {
	db := setupTestDB(t)
	owner := newUser(t, db, "owner@example.com")
	voter := newUser(t, db, "voter@example.com")
	report := newReport(t, db, owner.ID, "One", models.CategoryRoads, models.StatusPending)

	svc := NewUpvoteService(db)

	has, err := svc.HasUpvoted(voter.ID, report.ID)
	if err != nil || has {
		t.Fatalf("HasUpvoted before = (%v, %v), want (false, nil)", has, err)
	}

	if _, err := svc.Upvote(voter.ID, report.ID); err != nil {
		t.Fatalf("Upvote: %v", err)
	}

	has, err = svc.HasUpvoted(voter.ID, report.ID)
	if err != nil || !has {
		t.Fatalf("HasUpvoted after = (%v, %v), want (true, nil)", has, err)
	}
}
