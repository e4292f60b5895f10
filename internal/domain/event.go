package domain

import "time"

type EventStatus string

const (
	EventStatusUpcoming EventStatus = "upcoming"
	EventStatusActive   EventStatus = "active"
	EventStatusEnded    EventStatus = "ended"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusActive, EventStatusEnded:
		return true
	}
	return false
}

// Event is a time-boxed exhibition that owns attendees, booths and scans.
type Event struct {
	ID        string
	Name      string
	Code      string
	StartDate time.Time
	EndDate   time.Time
	Status    EventStatus
	CreatedAt time.Time
}
