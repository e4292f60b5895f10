package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/testutil"
)

func TestRegistryRepository_Events(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewRegistryRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	event := domain.Event{
		ID:        "00000000-0000-0000-0000-000000000010",
		Name:      "Expo",
		Code:      "EXPO-25",
		StartDate: start,
		EndDate:   start.Add(72 * time.Hour),
		Status:    domain.EventStatusUpcoming,
		CreatedAt: start,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}

	dup := event
	dup.ID = "00000000-0000-0000-0000-000000000011"
	if err := repo.CreateEvent(ctx, dup); err != domain.ErrDuplicateEventCode {
		t.Fatalf("expected ErrDuplicateEventCode, got %v", err)
	}

	got, err := repo.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Code != event.Code || got.Status != event.Status || !got.EndDate.Equal(event.EndDate) {
		t.Fatalf("unexpected event: %+v", got)
	}

	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	if _, err := repo.GetEvent(ctx, "00000000-0000-0000-0000-000000000099"); err != domain.ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
	if _, err := repo.GetEvent(ctx, "not-a-uuid"); err != domain.ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound for malformed id, got %v", err)
	}
}

func TestRegistryRepository_AttendeesAndBooths(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewRegistryRepository(pool)

	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)
	eventID := testutil.InsertEvent(t, ctx, pool, "EXPO-25")

	attendee := domain.Attendee{
		ID:        "00000000-0000-0000-0000-000000000020",
		EventID:   eventID,
		Name:      "Alice",
		Email:     "alice@example.com",
		Token:     "ATT_0123456789abcdef0123456789abcdef",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateAttendee(ctx, attendee); err != nil {
		t.Fatalf("create attendee: %v", err)
	}

	t.Run("duplicate email in same event", func(t *testing.T) {
		other := attendee
		other.ID = "00000000-0000-0000-0000-000000000021"
		other.Token = "ATT_1123456789abcdef0123456789abcdef"
		if err := repo.CreateAttendee(ctx, other); err != domain.ErrDuplicateEmail {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("attendees without email do not collide", func(t *testing.T) {
		for i, id := range []string{"00000000-0000-0000-0000-000000000022", "00000000-0000-0000-0000-000000000023"} {
			a := domain.Attendee{ID: id, EventID: eventID, Name: "Walk-in", Token: "ATT_" + string(rune('a'+i)) + "123456789abcdef0123456789abcdef"}
			if err := repo.CreateAttendee(ctx, a); err != nil {
				t.Fatalf("create attendee %d: %v", i, err)
			}
		}
	})

	t.Run("token is unique across kinds", func(t *testing.T) {
		booth := domain.Booth{
			ID:      "00000000-0000-0000-0000-000000000030",
			EventID: eventID,
			Number:  "A1",
			Name:    "Acme",
			Token:   attendee.Token,
		}
		if err := repo.CreateBooth(ctx, booth); err != domain.ErrDuplicateToken {
			t.Fatalf("expected ErrDuplicateToken, got %v", err)
		}
	})

	booth := domain.Booth{
		ID:      "00000000-0000-0000-0000-000000000031",
		EventID: eventID,
		Number:  "A1",
		Name:    "Acme",
		Token:   "BOOTH_0123456789abcdef0123456789abcdef",
	}
	if err := repo.CreateBooth(ctx, booth); err != nil {
		t.Fatalf("create booth: %v", err)
	}

	t.Run("duplicate booth number", func(t *testing.T) {
		other := booth
		other.ID = "00000000-0000-0000-0000-000000000032"
		other.Token = "BOOTH_1123456789abcdef0123456789abcdef"
		if err := repo.CreateBooth(ctx, other); err != domain.ErrDuplicateBoothNumber {
			t.Fatalf("expected ErrDuplicateBoothNumber, got %v", err)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		orphan := domain.Booth{
			ID:      "00000000-0000-0000-0000-000000000033",
			EventID: "00000000-0000-0000-0000-000000000099",
			Number:  "Z9",
			Name:    "Orphan",
			Token:   "BOOTH_2123456789abcdef0123456789abcdef",
		}
		if err := repo.CreateBooth(ctx, orphan); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("token lookups are kind specific", func(t *testing.T) {
		a, err := repo.FindAttendeeByToken(ctx, attendee.Token)
		if err != nil || a == nil || a.ID != attendee.ID {
			t.Fatalf("expected attendee, got %+v, %v", a, err)
		}
		b, err := repo.FindBoothByToken(ctx, attendee.Token)
		if err != nil || b != nil {
			t.Fatalf("expected no booth, got %+v, %v", b, err)
		}
		b, err = repo.FindBoothByToken(ctx, booth.Token)
		if err != nil || b == nil || b.Number != "A1" {
			t.Fatalf("expected booth, got %+v, %v", b, err)
		}
	})

	attendees, err := repo.ListAttendees(ctx, eventID)
	if err != nil {
		t.Fatalf("list attendees: %v", err)
	}
	if len(attendees) != 3 {
		t.Fatalf("expected 3 attendees, got %d", len(attendees))
	}
	booths, err := repo.ListBooths(ctx, eventID)
	if err != nil {
		t.Fatalf("list booths: %v", err)
	}
	if len(booths) != 1 {
		t.Fatalf("expected 1 booth, got %d", len(booths))
	}
}
