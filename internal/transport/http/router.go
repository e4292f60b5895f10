package http

import "net/http"

// Services holds the handlers' dependencies. Health and Metrics are optional.
type Services struct {
	Tokens    TokenVerifier
	Scans     ScanRecorder
	Analytics Analytics
	Registry  Registry
	Health    Pinger
	Metrics   http.Handler
}

// NewRouter registers every route on a fresh mux.
func NewRouter(s Services) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HandleHealth(s.Health))
	if s.Metrics != nil {
		mux.Handle("/metrics", s.Metrics)
	}
	mux.Handle("/tokens/verify", HandleVerifyToken(s.Tokens))
	mux.Handle("/scans", HandleScans(s.Scans))
	mux.Handle("/booths/", HandleBoothStats(s.Analytics))
	mux.Handle("/attendees/", HandleAttendeeStats(s.Analytics))
	mux.Handle("/events/", HandleEventStats(s.Analytics))
	mux.Handle("/admin/events", HandleAdminEvents(s.Registry))
	mux.Handle("/admin/events/", HandleAdminEventResources(s.Registry))
	mux.Handle("/", NotFoundHandler())
	return mux
}
