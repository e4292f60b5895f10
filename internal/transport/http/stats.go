package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

const dateLayout = "2006-01-02"

// Analytics is the minimal interface needed for the read-only stats endpoints.
type Analytics interface {
	Location() *time.Location
	GetBoothStats(ctx context.Context, boothID string) (domain.EntityStats, error)
	GetAttendeeStats(ctx context.Context, attendeeID string) (domain.EntityStats, error)
	GetDailyHistogram(ctx context.Context, boothID string, r app.DateRange) ([]domain.DailyBucket, error)
	GetHourlyHistogram(ctx context.Context, boothID string, day *time.Time) ([]domain.HourlyBucket, error)
	GetRepeatVisitors(ctx context.Context, boothID string) ([]domain.RepeatVisit, error)
	GetEventStats(ctx context.Context, eventID string) (domain.EventStats, error)
}

// HandleBoothStats serves /booths/{id}/stats, /daily, /hourly and
// /repeat-visitors.
func HandleBoothStats(svc Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boothID, view, ok := parseResourcePath(r.URL.Path, "booths")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		switch view {
		case "stats":
			stats, err := svc.GetBoothStats(r.Context(), boothID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toEntityStatsResponse(stats))
		case "daily":
			dailyHistogram(w, r, svc, boothID)
		case "hourly":
			hourlyHistogram(w, r, svc, boothID)
		case "repeat-visitors":
			visits, err := svc.GetRepeatVisitors(r.Context(), boothID)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			resp := make([]repeatVisitResponse, 0, len(visits))
			for _, v := range visits {
				resp = append(resp, repeatVisitResponse(v))
			}
			writeJSON(w, http.StatusOK, resp)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func dailyHistogram(w http.ResponseWriter, r *http.Request, svc Analytics, boothID string) {
	loc := svc.Location()
	from, err := parseDateParam(r, "from", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(r, "to", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "to must be YYYY-MM-DD")
		return
	}

	days, err := svc.GetDailyHistogram(r.Context(), boothID, app.DateRange{From: from, To: to})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]dailyBucketResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, dailyBucketResponse{
			Date:           d.Date.Format(dateLayout),
			UniqueVisitors: d.UniqueVisitors,
			TotalScans:     d.TotalScans,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func hourlyHistogram(w http.ResponseWriter, r *http.Request, svc Analytics, boothID string) {
	day, err := parseDateParam(r, "date", svc.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "date must be YYYY-MM-DD")
		return
	}

	hours, err := svc.GetHourlyHistogram(r.Context(), boothID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]hourlyBucketResponse, 0, len(hours))
	for _, h := range hours {
		resp = append(resp, hourlyBucketResponse(h))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAttendeeStats serves /attendees/{id}/stats.
func HandleAttendeeStats(svc Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attendeeID, view, ok := parseResourcePath(r.URL.Path, "attendees")
		if !ok || view != "stats" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		stats, err := svc.GetAttendeeStats(r.Context(), attendeeID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEntityStatsResponse(stats))
	}
}

// HandleEventStats serves /events/{id}/stats.
func HandleEventStats(svc Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, view, ok := parseResourcePath(r.URL.Path, "events")
		if !ok || view != "stats" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		stats, err := svc.GetEventStats(r.Context(), eventID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventStatsResponse(stats))
	}
}

// parseResourcePath splits /{collection}/{id}/{view}.
func parseResourcePath(path, collection string) (id, view string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != collection || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// parseDateParam reads an optional YYYY-MM-DD query value as midnight in loc.
func parseDateParam(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
