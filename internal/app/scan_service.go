package app

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foylaou/ExpoPass-sub000/internal/clock"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/token"
)

const (
	maxNotesLength   = 500
	defaultScanLimit = 50
	maxScanLimit     = 500
)

// Scan outcomes reported to a ScanObserver.
const (
	ScanOutcomeRecorded     = "recorded"
	ScanOutcomeInvalidToken = "invalid_token"
	ScanOutcomeCrossEvent   = "cross_event"
	ScanOutcomeError        = "error"
)

// TokenVerifier is the minimal interface the recorder needs to resolve tokens.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tok string) (domain.Verification, error)
}

// ScanRepository appends to and reads the scan log. Records are never updated.
type ScanRepository interface {
	CreateScan(ctx context.Context, rec domain.ScanRecord) error
	ListScans(ctx context.Context, filter domain.ScanFilter) ([]domain.ScanRecord, error)
}

type ScanObserver interface {
	ObserveScan(outcome string)
}

type ScanService struct {
	verifier TokenVerifier
	repo     ScanRepository
	clock    clock.Clock
	logger   logrus.FieldLogger
	observer ScanObserver
}

type ScanServiceOption func(*ScanService)

// WithLogger sets the logger used for data-integrity warnings.
func WithLogger(l logrus.FieldLogger) ScanServiceOption {
	return func(s *ScanService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithScanObserver(o ScanObserver) ScanServiceOption {
	return func(s *ScanService) {
		s.observer = o
	}
}

// NewScanService builds a recorder. Timestamps come from clk wrapped in a
// monotonic clock.
func NewScanService(verifier TokenVerifier, repo ScanRepository, clk clock.Clock, opts ...ScanServiceOption) *ScanService {
	svc := &ScanService{
		verifier: verifier,
		repo:     repo,
		clock:    clock.NewMonotonic(clk),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type RecordScanInput struct {
	AttendeeToken string
	BoothToken    string
	EventID       string
	Notes         string
}

// RecordScan appends a scan linking the attendee and booth behind the two
// tokens. Every call creates a new record; repeat visits are not merged.
func (s *ScanService) RecordScan(ctx context.Context, in RecordScanInput) (domain.ScanRecord, error) {
	rec, err := s.record(ctx, in)
	s.observe(err)
	return rec, err
}

func (s *ScanService) record(ctx context.Context, in RecordScanInput) (domain.ScanRecord, error) {
	if in.EventID == "" {
		return domain.ScanRecord{}, domain.ErrInvalidID
	}

	attendee, err := s.verifier.VerifyToken(ctx, in.AttendeeToken)
	if err != nil {
		return domain.ScanRecord{}, err
	}
	if !attendee.Valid || attendee.Kind != domain.TokenKindAttendee {
		return domain.ScanRecord{}, &domain.TokenError{Role: domain.TokenKindAttendee, Token: in.AttendeeToken}
	}

	booth, err := s.verifier.VerifyToken(ctx, in.BoothToken)
	if err != nil {
		return domain.ScanRecord{}, err
	}
	if !booth.Valid || booth.Kind != domain.TokenKindBooth {
		return domain.ScanRecord{}, &domain.TokenError{Role: domain.TokenKindBooth, Token: in.BoothToken}
	}

	if attendee.Attendee.EventID != in.EventID || booth.Booth.EventID != in.EventID {
		mismatch := &domain.CrossEventError{
			EventID:         in.EventID,
			AttendeeEventID: attendee.Attendee.EventID,
			BoothEventID:    booth.Booth.EventID,
		}
		s.logger.WithFields(logrus.Fields{
			"event_id":          in.EventID,
			"attendee_id":       attendee.Attendee.ID,
			"attendee_event_id": mismatch.AttendeeEventID,
			"booth_id":          booth.Booth.ID,
			"booth_event_id":    mismatch.BoothEventID,
		}).Warn("rejected cross-event scan")
		return domain.ScanRecord{}, mismatch
	}

	rec := domain.ScanRecord{
		ID:         newUUID(),
		AttendeeID: attendee.Attendee.ID,
		BoothID:    booth.Booth.ID,
		EventID:    in.EventID,
		ScannedAt:  s.clock.Now(),
		Notes:      cleanNotes(in.Notes),
	}
	if err := s.repo.CreateScan(ctx, rec); err != nil {
		return domain.ScanRecord{}, err
	}
	return rec, nil
}

type RecordPairInput struct {
	TokenA  string
	TokenB  string
	EventID string
	Notes   string
}

// RecordPair records a scan from two tokens presented in either order.
// The tokens are classified by prefix; a pair that is not one attendee and
// one booth fails as an unrecognized token.
func (s *ScanService) RecordPair(ctx context.Context, in RecordPairInput) (domain.ScanRecord, error) {
	a, b := token.Normalize(in.TokenA), token.Normalize(in.TokenB)
	kindA, kindB := token.KindOf(a), token.KindOf(b)

	switch {
	case kindA == domain.TokenKindAttendee && kindB == domain.TokenKindBooth:
	case kindA == domain.TokenKindBooth && kindB == domain.TokenKindAttendee:
		a, b = b, a
	case kindA == domain.TokenKindAttendee:
		err := &domain.TokenError{Role: domain.TokenKindBooth, Token: in.TokenB}
		s.observe(err)
		return domain.ScanRecord{}, err
	case kindB == domain.TokenKindAttendee:
		err := &domain.TokenError{Role: domain.TokenKindBooth, Token: in.TokenA}
		s.observe(err)
		return domain.ScanRecord{}, err
	case kindA == domain.TokenKindBooth:
		err := &domain.TokenError{Role: domain.TokenKindAttendee, Token: in.TokenB}
		s.observe(err)
		return domain.ScanRecord{}, err
	default:
		err := &domain.TokenError{Role: domain.TokenKindAttendee, Token: in.TokenA}
		s.observe(err)
		return domain.ScanRecord{}, err
	}

	return s.RecordScan(ctx, RecordScanInput{
		AttendeeToken: a,
		BoothToken:    b,
		EventID:       in.EventID,
		Notes:         in.Notes,
	})
}

// ListScans returns the newest scans matching filter.
func (s *ScanService) ListScans(ctx context.Context, filter domain.ScanFilter) ([]domain.ScanRecord, error) {
	if filter.EventID == "" && filter.BoothID == "" && filter.AttendeeID == "" {
		return nil, domain.ErrInvalidID
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultScanLimit
	case filter.Limit > maxScanLimit:
		filter.Limit = maxScanLimit
	}
	return s.repo.ListScans(ctx, filter)
}

func (s *ScanService) observe(err error) {
	if s.observer == nil {
		return
	}
	switch {
	case err == nil:
		s.observer.ObserveScan(ScanOutcomeRecorded)
	case errors.Is(err, domain.ErrInvalidToken):
		s.observer.ObserveScan(ScanOutcomeInvalidToken)
	case errors.Is(err, domain.ErrCrossEventMismatch):
		s.observer.ObserveScan(ScanOutcomeCrossEvent)
	default:
		s.observer.ObserveScan(ScanOutcomeError)
	}
}

func cleanNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if r := []rune(notes); len(r) > maxNotesLength {
		notes = string(r[:maxNotesLength])
	}
	return notes
}
