package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken         = errors.New("token not recognized")
	ErrCrossEventMismatch   = errors.New("attendee or booth belongs to a different event")
	ErrEventNotFound        = errors.New("event not found")
	ErrAttendeeNotFound     = errors.New("attendee not found")
	ErrBoothNotFound        = errors.New("booth not found")
	ErrDuplicateToken       = errors.New("token already in use")
	ErrDuplicateEmail       = errors.New("email already registered for event")
	ErrDuplicateBoothNumber = errors.New("booth number already used in event")
	ErrDuplicateEventCode   = errors.New("event code already in use")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidKind          = errors.New("invalid token kind")
	ErrEventNameRequired    = errors.New("event name required")
	ErrEventCodeRequired    = errors.New("event code required")
	ErrInvalidEventDates    = errors.New("event end date before start date")
	ErrInvalidEventStatus   = errors.New("invalid event status")
	ErrAttendeeNameRequired = errors.New("attendee name required")
	ErrBoothNumberRequired  = errors.New("booth number required")
	ErrBoothNameRequired    = errors.New("booth name required")
	ErrInvalidDateRange     = errors.New("invalid date range")
)

// TokenError reports which side of a scan carried an unusable token.
type TokenError struct {
	Role  TokenKind
	Token string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s %s", e.Role, ErrInvalidToken.Error())
}

func (e *TokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// CrossEventError carries the conflicting event IDs of a rejected scan.
type CrossEventError struct {
	EventID         string
	AttendeeEventID string
	BoothEventID    string
}

func (e *CrossEventError) Error() string {
	return fmt.Sprintf("%s: scan event %s, attendee event %s, booth event %s",
		ErrCrossEventMismatch.Error(), e.EventID, e.AttendeeEventID, e.BoothEventID)
}

func (e *CrossEventError) Is(target error) bool {
	return target == ErrCrossEventMismatch
}
