package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

var base = time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "expo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store) (domain.Event, domain.Attendee, domain.Booth) {
	t.Helper()
	ctx := context.Background()
	e := domain.Event{ID: "event-1", Name: "Expo", Code: "EXPO", StartDate: base, EndDate: base, Status: domain.EventStatusActive, CreatedAt: base}
	a := domain.Attendee{ID: "att-1", EventID: e.ID, Name: "Alice", Email: "alice@example.com", Company: "Acme", Token: "ATT_01", CreatedAt: base}
	b := domain.Booth{ID: "booth-1", EventID: e.ID, Number: "A1", Name: "Acme", Token: "BOOTH_01", CreatedAt: base}
	require.NoError(t, s.CreateEvent(ctx, e))
	require.NoError(t, s.CreateAttendee(ctx, a))
	require.NoError(t, s.CreateBooth(ctx, b))
	return e, a, b
}

func TestStore_RegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	e, a, b := seed(t, s)

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	gotA, err := s.GetAttendee(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, gotA)

	gotB, err := s.FindBoothByToken(ctx, b.Token)
	require.NoError(t, err)
	require.NotNil(t, gotB)
	assert.Equal(t, b, *gotB)

	none, err := s.FindAttendeeByToken(ctx, b.Token)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = s.GetBooth(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBoothNotFound)
}

func TestStore_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	e, _, _ := seed(t, s)

	dup := domain.Event{ID: "event-2", Name: "Other", Code: "EXPO", StartDate: base, EndDate: base, Status: domain.EventStatusActive, CreatedAt: base}
	assert.ErrorIs(t, s.CreateEvent(ctx, dup), domain.ErrDuplicateEventCode)

	err := s.CreateAttendee(ctx, domain.Attendee{ID: "att-2", EventID: e.ID, Name: "Alias", Email: "alice@example.com", Token: "ATT_02", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	err = s.CreateAttendee(ctx, domain.Attendee{ID: "att-3", EventID: e.ID, Name: "Mallory", Token: "BOOTH_01", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)

	err = s.CreateAttendee(ctx, domain.Attendee{ID: "att-6", EventID: e.ID, Name: "Copy", Token: "ATT_01", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)

	err = s.CreateBooth(ctx, domain.Booth{ID: "booth-2", EventID: e.ID, Number: "A1", Name: "Again", Token: "BOOTH_02", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicateBoothNumber)

	err = s.CreateBooth(ctx, domain.Booth{ID: "booth-3", EventID: "missing", Number: "B1", Name: "Orphan", Token: "BOOTH_03", CreatedAt: base})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	require.NoError(t, s.CreateAttendee(ctx, domain.Attendee{ID: "att-4", EventID: e.ID, Name: "Walk-in", Token: "ATT_04", CreatedAt: base}))
	require.NoError(t, s.CreateAttendee(ctx, domain.Attendee{ID: "att-5", EventID: e.ID, Name: "Walk-in", Token: "ATT_05", CreatedAt: base}))
}

func TestStore_ScansAndAnalytics(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	e, a, b := seed(t, s)

	bob := domain.Attendee{ID: "att-2", EventID: e.ID, Name: "Bob", Token: "ATT_02", CreatedAt: base}
	require.NoError(t, s.CreateAttendee(ctx, bob))
	idle := domain.Booth{ID: "booth-2", EventID: e.ID, Number: "B1", Name: "Idle", Token: "BOOTH_02", CreatedAt: base}
	require.NoError(t, s.CreateBooth(ctx, idle))

	scans := []domain.ScanRecord{
		{ID: "s1", AttendeeID: a.ID, BoothID: b.ID, EventID: e.ID, ScannedAt: base},
		{ID: "s2", AttendeeID: a.ID, BoothID: b.ID, EventID: e.ID, ScannedAt: base.Add(time.Hour)},
		{ID: "s3", AttendeeID: bob.ID, BoothID: b.ID, EventID: e.ID, ScannedAt: base.Add(24 * time.Hour), Notes: "demo"},
	}
	for _, rec := range scans {
		require.NoError(t, s.CreateScan(ctx, rec))
	}

	err := s.CreateScan(ctx, domain.ScanRecord{ID: "s4", AttendeeID: "missing", BoothID: b.ID, EventID: e.ID, ScannedAt: base})
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)

	listed, err := s.ListScans(ctx, domain.ScanFilter{BoothID: b.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "s3", listed[0].ID)
	assert.Equal(t, "demo", listed[0].Notes)
	assert.True(t, listed[0].ScannedAt.Equal(scans[2].ScannedAt))

	stats, err := s.BoothStats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CounterpartCount)
	assert.Equal(t, 3, stats.TotalScans)
	require.NotNil(t, stats.LastScan)
	assert.True(t, stats.LastScan.Equal(scans[2].ScannedAt))

	days, err := s.DailyHistogram(ctx, b.ID, domain.DailyQuery{Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 3, days[0].TotalScans+days[1].TotalScans)

	visits, err := s.RepeatVisitors(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "Alice", visits[0].AttendeeName)
	assert.Equal(t, 2, visits[0].VisitCount)

	event, err := s.EventStats(ctx, e.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.Coverage{Total: 2, WithScans: 1, WithoutScans: 1}, event.Booths)
	assert.Equal(t, domain.Coverage{Total: 2, WithScans: 2, WithoutScans: 0}, event.Attendees)
	assert.Equal(t, 3, event.TotalScans)
	require.NotEmpty(t, event.LeastVisitedBooths)
	assert.Equal(t, idle.ID, event.LeastVisitedBooths[0].ID)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	seed(t, s)
	events, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
