package app

import (
	"context"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/token"
)

// TokenRepository resolves tokens to the entities that own them. A missing
// entity is reported as (nil, nil).
type TokenRepository interface {
	FindAttendeeByToken(ctx context.Context, tok string) (*domain.Attendee, error)
	FindBoothByToken(ctx context.Context, tok string) (*domain.Booth, error)
}

// VerifyObserver receives the outcome of every verification.
type VerifyObserver interface {
	ObserveVerification(kind domain.TokenKind, valid bool)
}

type TokenService struct {
	repo     TokenRepository
	observer VerifyObserver
}

type TokenServiceOption func(*TokenService)

func WithVerifyObserver(o VerifyObserver) TokenServiceOption {
	return func(s *TokenService) {
		s.observer = o
	}
}

func NewTokenService(repo TokenRepository, opts ...TokenServiceOption) *TokenService {
	svc := &TokenService{repo: repo}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// IssueToken returns a new token for kind.
func (s *TokenService) IssueToken(kind domain.TokenKind) (string, error) {
	return token.Issue(kind)
}

// VerifyToken resolves a scanned token. Unknown or stale tokens yield an
// invalid Verification and a nil error; only storage failures return an error.
// The prefix decides which store is consulted.
func (s *TokenService) VerifyToken(ctx context.Context, raw string) (domain.Verification, error) {
	tok := token.Normalize(raw)
	kind := token.KindOf(tok)

	res := domain.Invalid()
	switch kind {
	case domain.TokenKindAttendee:
		a, err := s.repo.FindAttendeeByToken(ctx, tok)
		if err != nil {
			return domain.Verification{}, err
		}
		if a != nil {
			res = domain.Verification{Valid: true, Kind: kind, Attendee: a}
		}
	case domain.TokenKindBooth:
		b, err := s.repo.FindBoothByToken(ctx, tok)
		if err != nil {
			return domain.Verification{}, err
		}
		if b != nil {
			res = domain.Verification{Valid: true, Kind: kind, Booth: b}
		}
	}

	if s.observer != nil {
		s.observer.ObserveVerification(kind, res.Valid)
	}
	return res, nil
}
