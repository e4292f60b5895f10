package domain

import "time"

// ScanRecord is an immutable fact: an attendee was at a booth of an event at
// ScannedAt. EventID always matches the attendee's and the booth's event.
type ScanRecord struct {
	ID         string
	AttendeeID string
	BoothID    string
	EventID    string
	ScannedAt  time.Time
	Notes      string
}

// ScanFilter narrows a scan history listing. Empty fields do not filter.
type ScanFilter struct {
	EventID    string
	BoothID    string
	AttendeeID string
	Limit      int
}
