package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/clock"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
	"github.com/foylaou/ExpoPass-sub000/internal/storage/memory"
)

type fixture struct {
	store    *memory.Store
	registry *RegistryService
	tokens   *TokenService
	event    domain.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	tokens := NewTokenService(store)
	registry := NewRegistryService(store, tokens, clock.NewFixed(time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)))

	event, err := registry.CreateEvent(context.Background(), CreateEventInput{Name: "Expo", Code: "EXPO-25"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return &fixture{store: store, registry: registry, tokens: tokens, event: event}
}

func (f *fixture) attendee(t *testing.T, name, company string) domain.Attendee {
	t.Helper()
	a, err := f.registry.CreateAttendee(context.Background(), CreateAttendeeInput{
		EventID: f.event.ID,
		Name:    name,
		Company: company,
	})
	if err != nil {
		t.Fatalf("create attendee: %v", err)
	}
	return a
}

func (f *fixture) booth(t *testing.T, number string) domain.Booth {
	t.Helper()
	b, err := f.registry.CreateBooth(context.Background(), CreateBoothInput{
		EventID: f.event.ID,
		Number:  number,
		Name:    "Booth " + number,
	})
	if err != nil {
		t.Fatalf("create booth: %v", err)
	}
	return b
}

type countingObserver struct {
	mu       sync.Mutex
	scans    map[string]int
	verified map[domain.TokenKind][2]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		scans:    map[string]int{},
		verified: map[domain.TokenKind][2]int{},
	}
}

func (o *countingObserver) ObserveScan(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scans[outcome]++
}

func (o *countingObserver) ObserveVerification(kind domain.TokenKind, valid bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := o.verified[kind]
	if valid {
		c[0]++
	} else {
		c[1]++
	}
	o.verified[kind] = c
}

type failingTokenRepo struct {
	err error
}

func (f failingTokenRepo) FindAttendeeByToken(context.Context, string) (*domain.Attendee, error) {
	return nil, f.err
}

func (f failingTokenRepo) FindBoothByToken(context.Context, string) (*domain.Booth, error) {
	return nil, f.err
}
