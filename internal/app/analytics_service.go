package app

import (
	"context"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

// AnalyticsRepository computes read views over the scan log. Implementations
// may aggregate in SQL or reduce rows in memory; the output contract is the same.
type AnalyticsRepository interface {
	BoothStats(ctx context.Context, boothID string) (domain.EntityStats, error)
	AttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error)
	DailyHistogram(ctx context.Context, boothID string, q domain.DailyQuery) ([]domain.DailyBucket, error)
	HourlyHistogram(ctx context.Context, boothID string, q domain.HourlyQuery) ([]domain.HourlyBucket, error)
	RepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error)
	EventStats(ctx context.Context, eventID string, limit int) (domain.EventStats, error)
}

// EntityLookup reports whether referenced entities exist.
type EntityLookup interface {
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	GetAttendee(ctx context.Context, id string) (domain.Attendee, error)
	GetBooth(ctx context.Context, id string) (domain.Booth, error)
}

type AnalyticsService struct {
	repo   AnalyticsRepository
	lookup EntityLookup
	loc    *time.Location
	limit  int
}

type AnalyticsServiceOption func(*AnalyticsService)

// WithLocation sets the reporting timezone used for date and hour buckets.
func WithLocation(loc *time.Location) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRankingLimit overrides the number of rows in each ranking.
func WithRankingLimit(n int) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		if n > 0 {
			s.limit = n
		}
	}
}

func NewAnalyticsService(repo AnalyticsRepository, lookup EntityLookup, opts ...AnalyticsServiceOption) *AnalyticsService {
	svc := &AnalyticsService{
		repo:   repo,
		lookup: lookup,
		loc:    time.UTC,
		limit:  domain.DefaultRankingLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Location returns the reporting timezone.
func (s *AnalyticsService) Location() *time.Location {
	return s.loc
}

// GetEntityStats returns scan stats for an attendee or a booth.
func (s *AnalyticsService) GetEntityStats(ctx context.Context, kind domain.TokenKind, id string) (domain.EntityStats, error) {
	switch kind {
	case domain.TokenKindAttendee:
		return s.GetAttendeeStats(ctx, id)
	case domain.TokenKindBooth:
		return s.GetBoothStats(ctx, id)
	}
	return domain.EntityStats{}, domain.ErrInvalidKind
}

func (s *AnalyticsService) GetBoothStats(ctx context.Context, boothID string) (domain.EntityStats, error) {
	if err := s.requireBooth(ctx, boothID); err != nil {
		return domain.EntityStats{}, err
	}
	return s.repo.BoothStats(ctx, boothID)
}

func (s *AnalyticsService) GetAttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error) {
	if attendeeID == "" {
		return domain.EntityStats{}, domain.ErrInvalidID
	}
	if _, err := s.lookup.GetAttendee(ctx, attendeeID); err != nil {
		return domain.EntityStats{}, err
	}
	return s.repo.AttendeeStats(ctx, attendeeID)
}

// DateRange bounds the daily histogram; both ends are inclusive calendar
// dates and may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (s *AnalyticsService) GetDailyHistogram(ctx context.Context, boothID string, r DateRange) ([]domain.DailyBucket, error) {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return nil, domain.ErrInvalidDateRange
	}
	if err := s.requireBooth(ctx, boothID); err != nil {
		return nil, err
	}
	return s.repo.DailyHistogram(ctx, boothID, domain.DailyQuery{
		Location: s.loc,
		From:     r.From,
		To:       r.To,
	})
}

func (s *AnalyticsService) GetHourlyHistogram(ctx context.Context, boothID string, day *time.Time) ([]domain.HourlyBucket, error) {
	if err := s.requireBooth(ctx, boothID); err != nil {
		return nil, err
	}
	return s.repo.HourlyHistogram(ctx, boothID, domain.HourlyQuery{
		Location: s.loc,
		Day:      day,
	})
}

func (s *AnalyticsService) GetRepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error) {
	if err := s.requireBooth(ctx, boothID); err != nil {
		return nil, err
	}
	return s.repo.RepeatVisitors(ctx, boothID)
}

func (s *AnalyticsService) GetEventStats(ctx context.Context, eventID string) (domain.EventStats, error) {
	if eventID == "" {
		return domain.EventStats{}, domain.ErrInvalidID
	}
	if _, err := s.lookup.GetEvent(ctx, eventID); err != nil {
		return domain.EventStats{}, err
	}
	return s.repo.EventStats(ctx, eventID, s.limit)
}

func (s *AnalyticsService) requireBooth(ctx context.Context, boothID string) error {
	if boothID == "" {
		return domain.ErrInvalidID
	}
	_, err := s.lookup.GetBooth(ctx, boothID)
	return err
}
