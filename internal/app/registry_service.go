package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/clock"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

// maxTokenAttempts bounds re-issuing after a storage-level token collision.
const maxTokenAttempts = 3

type RegistryRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	CreateAttendee(ctx context.Context, attendee domain.Attendee) error
	ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error)
	CreateBooth(ctx context.Context, booth domain.Booth) error
	ListBooths(ctx context.Context, eventID string) ([]domain.Booth, error)
}

type TokenIssuer interface {
	IssueToken(kind domain.TokenKind) (string, error)
}

// RegistryService creates the entities scans refer to and issues their tokens.
type RegistryService struct {
	repo   RegistryRepository
	issuer TokenIssuer
	clock  clock.Clock
}

func NewRegistryService(repo RegistryRepository, issuer TokenIssuer, clk clock.Clock) *RegistryService {
	return &RegistryService{
		repo:   repo,
		issuer: issuer,
		clock:  clk,
	}
}

type CreateEventInput struct {
	Name      string
	Code      string
	StartDate *time.Time
	EndDate   *time.Time
	Status    domain.EventStatus
}

func (s *RegistryService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return domain.Event{}, domain.ErrEventCodeRequired
	}
	if in.Status != "" && !in.Status.Valid() {
		return domain.Event{}, domain.ErrInvalidEventStatus
	}

	now := s.clock.Now()
	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}
	end := start
	if in.EndDate != nil {
		end = in.EndDate.UTC()
	}
	if end.Before(start) {
		return domain.Event{}, domain.ErrInvalidEventDates
	}

	status := in.Status
	if status == "" {
		status = statusAt(now, start, end)
	}

	event := domain.Event{
		ID:        newUUID(),
		Name:      name,
		Code:      code,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		CreatedAt: now,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *RegistryService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

type CreateAttendeeInput struct {
	EventID     string
	Name        string
	Email       string
	Company     string
	Title       string
	Phone       string
	BadgeNumber string
}

// CreateAttendee registers an attendee and issues its token.
func (s *RegistryService) CreateAttendee(ctx context.Context, in CreateAttendeeInput) (domain.Attendee, error) {
	if in.EventID == "" {
		return domain.Attendee{}, domain.ErrInvalidID
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Attendee{}, domain.ErrAttendeeNameRequired
	}

	attendee := domain.Attendee{
		ID:          newUUID(),
		EventID:     in.EventID,
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Company:     strings.TrimSpace(in.Company),
		Title:       strings.TrimSpace(in.Title),
		Phone:       strings.TrimSpace(in.Phone),
		BadgeNumber: strings.TrimSpace(in.BadgeNumber),
		CreatedAt:   s.clock.Now(),
	}
	err := s.withToken(domain.TokenKindAttendee, func(tok string) error {
		attendee.Token = tok
		return s.repo.CreateAttendee(ctx, attendee)
	})
	if err != nil {
		return domain.Attendee{}, err
	}
	return attendee, nil
}

func (s *RegistryService) ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendees(ctx, eventID)
}

type CreateBoothInput struct {
	EventID     string
	Number      string
	Name        string
	Company     string
	Description string
	Location    string
}

// CreateBooth registers a booth and issues its token.
func (s *RegistryService) CreateBooth(ctx context.Context, in CreateBoothInput) (domain.Booth, error) {
	if in.EventID == "" {
		return domain.Booth{}, domain.ErrInvalidID
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return domain.Booth{}, domain.ErrBoothNumberRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Booth{}, domain.ErrBoothNameRequired
	}

	booth := domain.Booth{
		ID:          newUUID(),
		EventID:     in.EventID,
		Number:      number,
		Name:        name,
		Company:     strings.TrimSpace(in.Company),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		CreatedAt:   s.clock.Now(),
	}
	err := s.withToken(domain.TokenKindBooth, func(tok string) error {
		booth.Token = tok
		return s.repo.CreateBooth(ctx, booth)
	})
	if err != nil {
		return domain.Booth{}, err
	}
	return booth, nil
}

func (s *RegistryService) ListBooths(ctx context.Context, eventID string) ([]domain.Booth, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListBooths(ctx, eventID)
}

// withToken issues a token and runs insert, re-issuing when the store reports
// the token is already taken.
func (s *RegistryService) withToken(kind domain.TokenKind, insert func(tok string) error) error {
	var err error
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, issueErr := s.issuer.IssueToken(kind)
		if issueErr != nil {
			return issueErr
		}
		err = insert(tok)
		if !errors.Is(err, domain.ErrDuplicateToken) {
			return err
		}
	}
	return err
}

// statusAt treats the end date as inclusive through the end of that day.
func statusAt(now, start, end time.Time) domain.EventStatus {
	switch {
	case now.Before(start):
		return domain.EventStatusUpcoming
	case !now.Before(end.Truncate(24 * time.Hour).Add(24 * time.Hour)):
		return domain.EventStatusEnded
	default:
		return domain.EventStatusActive
	}
}
