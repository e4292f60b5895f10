package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

// Registry is the minimal interface needed for the admin endpoints.
type Registry interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateAttendee(ctx context.Context, in app.CreateAttendeeInput) (domain.Attendee, error)
	ListAttendees(ctx context.Context, eventID string) ([]domain.Attendee, error)
	CreateBooth(ctx context.Context, in app.CreateBoothInput) (domain.Booth, error)
	ListBooths(ctx context.Context, eventID string) ([]domain.Booth, error)
}

type createEventRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status,omitempty"`
}

type createAttendeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	Title       string `json:"title,omitempty"`
	Phone       string `json:"phone,omitempty"`
	BadgeNumber string `json:"badge_number,omitempty"`
}

type createBoothRequest struct {
	Number      string `json:"booth_number"`
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// HandleAdminEvents lists events on GET and creates one on POST.
func HandleAdminEvents(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, e := range events {
				resp = append(resp, toEventResponse(e))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createEventRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			start, err := parseTimestamp(req.StartDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "start_date must be RFC 3339 or YYYY-MM-DD")
				return
			}
			end, err := parseTimestamp(req.EndDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDate, "end_date must be RFC 3339 or YYYY-MM-DD")
				return
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Name:      req.Name,
				Code:      req.Code,
				StartDate: start,
				EndDate:   end,
				Status:    domain.EventStatus(req.Status),
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleAdminEventResources serves /admin/events/{id}/attendees and
// /admin/events/{id}/booths. Creation issues the entity's QR token.
func HandleAdminEventResources(svc Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, resource, ok := parseAdminEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case resource == "attendees" && r.Method == http.MethodGet:
			attendees, err := svc.ListAttendees(r.Context(), eventID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]attendeeResponse, 0, len(attendees))
			for _, a := range attendees {
				resp = append(resp, toAttendeeResponse(a))
			}
			writeJSON(w, http.StatusOK, resp)
		case resource == "attendees" && r.Method == http.MethodPost:
			var req createAttendeeRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			attendee, err := svc.CreateAttendee(r.Context(), app.CreateAttendeeInput{
				EventID:     eventID,
				Name:        req.Name,
				Email:       req.Email,
				Company:     req.Company,
				Title:       req.Title,
				Phone:       req.Phone,
				BadgeNumber: req.BadgeNumber,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toAttendeeResponse(attendee))
		case resource == "booths" && r.Method == http.MethodGet:
			booths, err := svc.ListBooths(r.Context(), eventID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]boothResponse, 0, len(booths))
			for _, b := range booths {
				resp = append(resp, toBoothResponse(b))
			}
			writeJSON(w, http.StatusOK, resp)
		case resource == "booths" && r.Method == http.MethodPost:
			var req createBoothRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			booth, err := svc.CreateBooth(r.Context(), app.CreateBoothInput{
				EventID:     eventID,
				Number:      req.Number,
				Name:        req.Name,
				Company:     req.Company,
				Description: req.Description,
				Location:    req.Location,
			})
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, toBoothResponse(booth))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func parseAdminEventPath(path string) (eventID, resource string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "admin" || parts[1] != "events" || parts[2] == "" {
		return "", "", false
	}
	if parts[3] != "attendees" && parts[3] != "booths" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// parseTimestamp accepts RFC 3339 or a bare date (UTC midnight). Empty is nil.
func parseTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
