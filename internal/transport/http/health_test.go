package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		pinger         Pinger
		expectedStatus int
		expectedBody   string
	}{
		{name: "no pinger", method: http.MethodGet, expectedStatus: http.StatusOK, expectedBody: "ok"},
		{name: "storage up", method: http.MethodGet, pinger: stubPinger{}, expectedStatus: http.StatusOK, expectedBody: "ok"},
		{name: "storage down", method: http.MethodGet, pinger: stubPinger{err: errors.New("dial tcp: refused")}, expectedStatus: http.StatusServiceUnavailable},
		{name: "head", method: http.MethodHead, expectedStatus: http.StatusOK},
		{name: "post", method: http.MethodPost, expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			HandleHealth(tt.pinger).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedBody != "" && rec.Body.String() != tt.expectedBody {
				t.Fatalf("expected body %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
