package domain

import "time"

// Attendee is a registered visitor of exactly one event.
// Optional fields are empty when absent.
type Attendee struct {
	ID          string
	EventID     string
	Name        string
	Email       string
	Company     string
	Title       string
	Phone       string
	Token       string
	BadgeNumber string
	CreatedAt   time.Time
}
