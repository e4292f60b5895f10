package http

import (
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

type eventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Name:      e.Name,
		Code:      e.Code,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

type attendeeResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Company     string    `json:"company,omitempty"`
	Title       string    `json:"title,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	QRCodeToken string    `json:"qr_code_token"`
	BadgeNumber string    `json:"badge_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAttendeeResponse(a domain.Attendee) attendeeResponse {
	return attendeeResponse{
		ID:          a.ID,
		EventID:     a.EventID,
		Name:        a.Name,
		Email:       a.Email,
		Company:     a.Company,
		Title:       a.Title,
		Phone:       a.Phone,
		QRCodeToken: a.Token,
		BadgeNumber: a.BadgeNumber,
		CreatedAt:   a.CreatedAt,
	}
}

type boothResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Number      string    `json:"booth_number"`
	Name        string    `json:"name"`
	Company     string    `json:"company,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	QRCodeToken string    `json:"qr_code_token"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBoothResponse(b domain.Booth) boothResponse {
	return boothResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		Number:      b.Number,
		Name:        b.Name,
		Company:     b.Company,
		Description: b.Description,
		Location:    b.Location,
		QRCodeToken: b.Token,
		CreatedAt:   b.CreatedAt,
	}
}

type scanResponse struct {
	ID         string    `json:"id"`
	AttendeeID string    `json:"attendee_id"`
	BoothID    string    `json:"booth_id"`
	EventID    string    `json:"event_id"`
	ScannedAt  time.Time `json:"scanned_at"`
	Notes      string    `json:"notes,omitempty"`
}

func toScanResponse(s domain.ScanRecord) scanResponse {
	return scanResponse{
		ID:         s.ID,
		AttendeeID: s.AttendeeID,
		BoothID:    s.BoothID,
		EventID:    s.EventID,
		ScannedAt:  s.ScannedAt,
		Notes:      s.Notes,
	}
}

type entityStatsResponse struct {
	EntityID         string     `json:"entity_id"`
	Kind             string     `json:"kind"`
	CounterpartCount int        `json:"counterpart_count"`
	TotalScans       int        `json:"total_scans"`
	LastScan         *time.Time `json:"last_scan"`
}

func toEntityStatsResponse(s domain.EntityStats) entityStatsResponse {
	return entityStatsResponse{
		EntityID:         s.EntityID,
		Kind:             string(s.Kind),
		CounterpartCount: s.CounterpartCount,
		TotalScans:       s.TotalScans,
		LastScan:         s.LastScan,
	}
}

type dailyBucketResponse struct {
	Date           string `json:"date"`
	UniqueVisitors int    `json:"unique_visitors"`
	TotalScans     int    `json:"total_scans"`
}

type hourlyBucketResponse struct {
	Hour           int `json:"hour"`
	UniqueVisitors int `json:"unique_visitors"`
	TotalScans     int `json:"total_scans"`
}

type repeatVisitResponse struct {
	AttendeeID   string    `json:"attendee_id"`
	AttendeeName string    `json:"attendee_name"`
	VisitCount   int       `json:"visit_count"`
	FirstVisit   time.Time `json:"first_visit"`
	LastVisit    time.Time `json:"last_visit"`
}

type coverageResponse struct {
	Total        int `json:"total"`
	WithScans    int `json:"with_scans"`
	WithoutScans int `json:"without_scans"`
}

type rankEntryResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Company     string `json:"company,omitempty"`
	UniqueCount int    `json:"unique_count"`
	TotalScans  int    `json:"total_scans"`
}

type eventStatsResponse struct {
	EventID            string              `json:"event_id"`
	Booths             coverageResponse    `json:"booths"`
	Attendees          coverageResponse    `json:"attendees"`
	TotalScans         int                 `json:"total_scans"`
	TopBooths          []rankEntryResponse `json:"top_booths"`
	TopAttendees       []rankEntryResponse `json:"top_attendees"`
	TopCompanies       []rankEntryResponse `json:"top_companies"`
	LeastVisitedBooths []rankEntryResponse `json:"least_visited_booths"`
}

func toEventStatsResponse(s domain.EventStats) eventStatsResponse {
	return eventStatsResponse{
		EventID:            s.EventID,
		Booths:             coverageResponse(s.Booths),
		Attendees:          coverageResponse(s.Attendees),
		TotalScans:         s.TotalScans,
		TopBooths:          toRankResponses(s.TopBooths),
		TopAttendees:       toRankResponses(s.TopAttendees),
		TopCompanies:       toRankResponses(s.TopCompanies),
		LeastVisitedBooths: toRankResponses(s.LeastVisitedBooths),
	}
}

func toRankResponses(entries []domain.RankEntry) []rankEntryResponse {
	out := make([]rankEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, rankEntryResponse(e))
	}
	return out
}
