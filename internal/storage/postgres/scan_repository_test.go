package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/testutil"
)

func TestScanRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewScanRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	eventID := testutil.InsertEvent(t, ctx, pool, "EXPO-25")
	a := testutil.InsertAttendee(t, ctx, pool, domain.Attendee{EventID: eventID, Name: "Alice"})
	b := testutil.InsertBooth(t, ctx, pool, domain.Booth{EventID: eventID, Number: "A1", Name: "Acme"})

	base := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{
		"00000000-0000-0000-0000-000000000101",
		"00000000-0000-0000-0000-000000000102",
	} {
		rec := domain.ScanRecord{
			ID:         id,
			AttendeeID: a.ID,
			BoothID:    b.ID,
			EventID:    eventID,
			ScannedAt:  base.Add(time.Duration(i) * time.Minute),
			Notes:      "hello",
		}
		if err := repo.CreateScan(ctx, rec); err != nil {
			t.Fatalf("create scan %d: %v", i, err)
		}
	}

	t.Run("missing references", func(t *testing.T) {
		rec := domain.ScanRecord{
			ID:         "00000000-0000-0000-0000-000000000103",
			AttendeeID: "00000000-0000-0000-0000-000000000999",
			BoothID:    b.ID,
			EventID:    eventID,
			ScannedAt:  base,
		}
		if err := repo.CreateScan(ctx, rec); err != domain.ErrAttendeeNotFound {
			t.Fatalf("expected ErrAttendeeNotFound, got %v", err)
		}
		rec.AttendeeID, rec.BoothID = a.ID, "00000000-0000-0000-0000-000000000999"
		if err := repo.CreateScan(ctx, rec); err != domain.ErrBoothNotFound {
			t.Fatalf("expected ErrBoothNotFound, got %v", err)
		}
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		scans, err := repo.ListScans(ctx, domain.ScanFilter{BoothID: b.ID, Limit: 1})
		if err != nil {
			t.Fatalf("list scans: %v", err)
		}
		if len(scans) != 1 || scans[0].ID != "00000000-0000-0000-0000-000000000102" {
			t.Fatalf("unexpected scans: %+v", scans)
		}
		if scans[0].Notes != "hello" {
			t.Fatalf("expected notes to round-trip, got %q", scans[0].Notes)
		}

		scans, err = repo.ListScans(ctx, domain.ScanFilter{EventID: eventID, AttendeeID: a.ID})
		if err != nil {
			t.Fatalf("list scans: %v", err)
		}
		if len(scans) != 2 {
			t.Fatalf("expected 2 scans, got %d", len(scans))
		}
	})
}
