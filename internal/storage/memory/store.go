// Package memory is a process-local store for development and tests. It
// enforces the same uniqueness and reference rules as the SQL schemas and
// computes analytics with the reducers in internal/analytics.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/foylaou/ExpoPass-sub000/internal/analytics"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type Store struct {
	mu        sync.RWMutex
	events    map[string]domain.Event
	attendees map[string]domain.Attendee
	booths    map[string]domain.Booth
	tokens    map[string]string
	scans     []domain.ScanRecord
}

func New() *Store {
	return &Store{
		events:    make(map[string]domain.Event),
		attendees: make(map[string]domain.Attendee),
		booths:    make(map[string]domain.Booth),
		tokens:    make(map[string]string),
	}
}

func (s *Store) CreateEvent(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Code == event.Code {
			return domain.ErrDuplicateEventCode
		}
	}
	s.events[event.ID] = event
	return nil
}

func (s *Store) ListEvents(_ context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (s *Store) CreateAttendee(_ context.Context, a domain.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[a.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	if _, taken := s.tokens[a.Token]; taken {
		return domain.ErrDuplicateToken
	}
	if a.Email != "" {
		for _, other := range s.attendees {
			if other.EventID == a.EventID && other.Email == a.Email {
				return domain.ErrDuplicateEmail
			}
		}
	}
	s.attendees[a.ID] = a
	s.tokens[a.Token] = a.ID
	return nil
}

func (s *Store) ListAttendees(_ context.Context, eventID string) ([]domain.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attendee, 0)
	for _, a := range s.attendees {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetAttendee(_ context.Context, id string) (domain.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attendees[id]
	if !ok {
		return domain.Attendee{}, domain.ErrAttendeeNotFound
	}
	return a, nil
}

func (s *Store) CreateBooth(_ context.Context, b domain.Booth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[b.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	if _, taken := s.tokens[b.Token]; taken {
		return domain.ErrDuplicateToken
	}
	for _, other := range s.booths {
		if other.EventID == b.EventID && other.Number == b.Number {
			return domain.ErrDuplicateBoothNumber
		}
	}
	s.booths[b.ID] = b
	s.tokens[b.Token] = b.ID
	return nil
}

func (s *Store) ListBooths(_ context.Context, eventID string) ([]domain.Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boothsOf(eventID), nil
}

func (s *Store) GetBooth(_ context.Context, id string) (domain.Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.booths[id]
	if !ok {
		return domain.Booth{}, domain.ErrBoothNotFound
	}
	return b, nil
}

func (s *Store) FindAttendeeByToken(_ context.Context, tok string) (*domain.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attendees[s.tokens[tok]]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) FindBoothByToken(_ context.Context, tok string) (*domain.Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.booths[s.tokens[tok]]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Store) CreateScan(_ context.Context, rec domain.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[rec.EventID]; !ok {
		return domain.ErrEventNotFound
	}
	if _, ok := s.attendees[rec.AttendeeID]; !ok {
		return domain.ErrAttendeeNotFound
	}
	if _, ok := s.booths[rec.BoothID]; !ok {
		return domain.ErrBoothNotFound
	}
	s.scans = append(s.scans, rec)
	return nil
}

// ListScans returns matching scans, newest first.
func (s *Store) ListScans(_ context.Context, f domain.ScanFilter) ([]domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScanRecord, 0)
	for _, rec := range s.scans {
		if f.EventID != "" && rec.EventID != f.EventID {
			continue
		}
		if f.BoothID != "" && rec.BoothID != f.BoothID {
			continue
		}
		if f.AttendeeID != "" && rec.AttendeeID != f.AttendeeID {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScannedAt.After(out[j].ScannedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) boothsOf(eventID string) []domain.Booth {
	out := make([]domain.Booth, 0)
	for _, b := range s.booths {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// snapshot copies the scan log so reducers run without holding the lock.
func (s *Store) snapshot() []domain.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ScanRecord(nil), s.scans...)
}

func (s *Store) BoothStats(_ context.Context, boothID string) (domain.EntityStats, error) {
	return analytics.BoothStats(boothID, s.snapshot()), nil
}

func (s *Store) AttendeeStats(_ context.Context, attendeeID string) (domain.EntityStats, error) {
	return analytics.AttendeeStats(attendeeID, s.snapshot()), nil
}

func (s *Store) DailyHistogram(_ context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error) {
	return analytics.Daily(boothID, s.snapshot(), q), nil
}

func (s *Store) HourlyHistogram(_ context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error) {
	return analytics.Hourly(boothID, s.snapshot(), q), nil
}

func (s *Store) RepeatVisitors(_ context.Context, boothID string) ([]domain.RepeatVisit, error) {
	scans := s.snapshot()
	s.mu.RLock()
	names := make(map[string]string, len(s.attendees))
	for id, a := range s.attendees {
		names[id] = a.Name
	}
	s.mu.RUnlock()
	return analytics.RepeatVisitors(boothID, scans, names), nil
}

func (s *Store) EventStats(_ context.Context, eventID string, limit int) (domain.EventStats, error) {
	s.mu.RLock()
	booths := s.boothsOf(eventID)
	attendees := make([]domain.Attendee, 0)
	for _, a := range s.attendees {
		if a.EventID == eventID {
			attendees = append(attendees, a)
		}
	}
	scans := make([]domain.ScanRecord, 0)
	for _, rec := range s.scans {
		if rec.EventID == eventID {
			scans = append(scans, rec)
		}
	}
	s.mu.RUnlock()
	return analytics.EventStats(eventID, booths, attendees, scans, limit), nil
}
