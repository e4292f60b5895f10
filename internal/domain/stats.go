package domain

import "time"

// DefaultRankingLimit caps every ranking returned with event stats.
const DefaultRankingLimit = 10

// EntityStats summarises the scans of one attendee or one booth.
// CounterpartCount is the number of distinct booths (for an attendee) or
// distinct attendees (for a booth).
type EntityStats struct {
	EntityID         string
	Kind             TokenKind
	CounterpartCount int
	TotalScans       int
	LastScan         *time.Time
}

// DailyQuery selects an inclusive calendar date range. Nil bounds are open.
type DailyQuery struct {
	Location *time.Location
	From     *time.Time
	To       *time.Time
}

// HourlyQuery optionally restricts the hourly histogram to one calendar date.
type HourlyQuery struct {
	Location *time.Location
	Day      *time.Time
}

type DailyBucket struct {
	Date           time.Time
	UniqueVisitors int
	TotalScans     int
}

type HourlyBucket struct {
	Hour           int
	UniqueVisitors int
	TotalScans     int
}

type RepeatVisit struct {
	AttendeeID   string
	AttendeeName string
	VisitCount   int
	FirstVisit   time.Time
	LastVisit    time.Time
}

// Coverage counts entities of one kind and how many of them appear in scans.
type Coverage struct {
	Total        int
	WithScans    int
	WithoutScans int
}

// RankEntry is one row of a ranking. For booths UniqueCount is distinct
// visitors, for attendees distinct booths, for companies distinct attendees.
type RankEntry struct {
	ID          string
	Label       string
	Company     string
	UniqueCount int
	TotalScans  int
}

type EventStats struct {
	EventID            string
	Booths             Coverage
	Attendees          Coverage
	TotalScans         int
	TopBooths          []RankEntry
	TopAttendees       []RankEntry
	TopCompanies       []RankEntry
	LeastVisitedBooths []RankEntry
}
