package domain

import "time"

// Booth is an exhibitor space within exactly one event.
type Booth struct {
	ID          string
	EventID     string
	Number      string
	Name        string
	Company     string
	Description string
	Location    string
	Token       string
	CreatedAt   time.Time
}
