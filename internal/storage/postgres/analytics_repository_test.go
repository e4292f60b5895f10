package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/testutil"
)

func TestAnalyticsRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewAnalyticsRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	eventID := testutil.InsertEvent(t, ctx, pool, "EXPO-25")

	alice := testutil.InsertAttendee(t, ctx, pool, domain.Attendee{EventID: eventID, Name: "Alice", Company: "Acme"})
	bob := testutil.InsertAttendee(t, ctx, pool, domain.Attendee{EventID: eventID, Name: "Bob"})
	var booths []domain.Booth
	for i := 0; i < 3; i++ {
		booths = append(booths, testutil.InsertBooth(t, ctx, pool, domain.Booth{
			EventID: eventID,
			Number:  fmt.Sprintf("B%d", i),
			Name:    fmt.Sprintf("Booth %d", i),
		}))
	}
	x := booths[0]

	// 23:30 UTC on April 1 is April 2 in UTC+8.
	day1 := time.Date(2025, 4, 1, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	testutil.InsertScan(t, ctx, pool, alice, x, day1)
	testutil.InsertScan(t, ctx, pool, alice, x, day2)
	testutil.InsertScan(t, ctx, pool, alice, x, day2.Add(time.Hour))
	testutil.InsertScan(t, ctx, pool, bob, x, day2)
	testutil.InsertScan(t, ctx, pool, bob, booths[1], day2)

	t.Run("booth stats", func(t *testing.T) {
		stats, err := repo.BoothStats(ctx, x.ID)
		if err != nil {
			t.Fatalf("booth stats: %v", err)
		}
		if stats.CounterpartCount != 2 || stats.TotalScans != 4 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
		if stats.LastScan == nil || !stats.LastScan.Equal(day2.Add(time.Hour)) {
			t.Fatalf("unexpected last scan: %v", stats.LastScan)
		}

		empty, err := repo.BoothStats(ctx, booths[2].ID)
		if err != nil {
			t.Fatalf("booth stats: %v", err)
		}
		if empty.TotalScans != 0 || empty.LastScan != nil {
			t.Fatalf("expected zero stats, got %+v", empty)
		}
	})

	t.Run("daily histogram in UTC and UTC+8", func(t *testing.T) {
		days, err := repo.DailyHistogram(ctx, x.ID, domain.DailyQuery{Location: time.UTC})
		if err != nil {
			t.Fatalf("daily: %v", err)
		}
		if len(days) != 2 || days[0].TotalScans != 1 || days[1].TotalScans != 3 || days[1].UniqueVisitors != 2 {
			t.Fatalf("unexpected UTC buckets: %+v", days)
		}

		taipei, err := time.LoadLocation("Asia/Taipei")
		if err != nil {
			t.Skipf("tzdata unavailable: %v", err)
		}
		days, err = repo.DailyHistogram(ctx, x.ID, domain.DailyQuery{Location: taipei})
		if err != nil {
			t.Fatalf("daily: %v", err)
		}
		if len(days) != 1 || days[0].TotalScans != 4 || days[0].Date.Day() != 2 {
			t.Fatalf("unexpected local buckets: %+v", days)
		}

		from := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
		days, err = repo.DailyHistogram(ctx, x.ID, domain.DailyQuery{Location: time.UTC, From: &from})
		if err != nil {
			t.Fatalf("daily: %v", err)
		}
		if len(days) != 1 || days[0].TotalScans != 3 {
			t.Fatalf("unexpected filtered buckets: %+v", days)
		}
	})

	t.Run("hourly histogram", func(t *testing.T) {
		day := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
		hours, err := repo.HourlyHistogram(ctx, x.ID, domain.HourlyQuery{Location: time.UTC, Day: &day})
		if err != nil {
			t.Fatalf("hourly: %v", err)
		}
		if len(hours) != 2 || hours[0].Hour != 10 || hours[0].UniqueVisitors != 2 || hours[1].Hour != 11 {
			t.Fatalf("unexpected hours: %+v", hours)
		}
	})

	t.Run("repeat visitors", func(t *testing.T) {
		visits, err := repo.RepeatVisitors(ctx, x.ID)
		if err != nil {
			t.Fatalf("repeat: %v", err)
		}
		if len(visits) != 1 || visits[0].AttendeeID != alice.ID || visits[0].VisitCount != 3 {
			t.Fatalf("unexpected visits: %+v", visits)
		}
		if visits[0].AttendeeName != "Alice" || !visits[0].FirstVisit.Equal(day1) {
			t.Fatalf("unexpected visit detail: %+v", visits[0])
		}
	})

	t.Run("event stats", func(t *testing.T) {
		stats, err := repo.EventStats(ctx, eventID, 10)
		if err != nil {
			t.Fatalf("event stats: %v", err)
		}
		if stats.Booths != (domain.Coverage{Total: 3, WithScans: 2, WithoutScans: 1}) {
			t.Fatalf("unexpected booth coverage: %+v", stats.Booths)
		}
		if stats.Attendees != (domain.Coverage{Total: 2, WithScans: 2, WithoutScans: 0}) {
			t.Fatalf("unexpected attendee coverage: %+v", stats.Attendees)
		}
		if stats.TotalScans != 5 {
			t.Fatalf("expected 5 scans, got %d", stats.TotalScans)
		}
		if len(stats.TopBooths) != 2 || stats.TopBooths[0].ID != x.ID {
			t.Fatalf("unexpected top booths: %+v", stats.TopBooths)
		}
		if len(stats.TopAttendees) != 2 || stats.TopAttendees[0].ID != bob.ID {
			t.Fatalf("expected Bob (2 booths) first, got %+v", stats.TopAttendees)
		}
		if len(stats.TopCompanies) != 1 || stats.TopCompanies[0].ID != "Acme" || stats.TopCompanies[0].TotalScans != 3 {
			t.Fatalf("unexpected companies: %+v", stats.TopCompanies)
		}
		if len(stats.LeastVisitedBooths) != 3 || stats.LeastVisitedBooths[0].ID != booths[2].ID {
			t.Fatalf("unexpected least visited: %+v", stats.LeastVisitedBooths)
		}
	})
}
