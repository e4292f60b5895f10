package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedRole   string
	}{
		{name: "attendee token", err: &domain.TokenError{Role: domain.TokenKindAttendee}, expectedStatus: http.StatusUnprocessableEntity, expectedCode: codeTokenNotRecognized, expectedRole: "attendee"},
		{name: "bare invalid token", err: domain.ErrInvalidToken, expectedStatus: http.StatusUnprocessableEntity, expectedCode: codeTokenNotRecognized},
		{name: "cross event", err: &domain.CrossEventError{EventID: "e-1"}, expectedStatus: http.StatusConflict, expectedCode: codeCrossEventMismatch},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", domain.ErrBoothNotFound), expectedStatus: http.StatusNotFound, expectedCode: codeBoothNotFound},
		{name: "duplicate token", err: domain.ErrDuplicateToken, expectedStatus: http.StatusConflict, expectedCode: codeDuplicateToken},
		{name: "invalid id", err: domain.ErrInvalidID, expectedStatus: http.StatusBadRequest, expectedCode: codeInvalidID},
		{name: "invalid event dates", err: domain.ErrInvalidEventDates, expectedStatus: http.StatusBadRequest, expectedCode: codeInvalidEventDates},
		{name: "booth name", err: domain.ErrBoothNameRequired, expectedStatus: http.StatusBadRequest, expectedCode: codeBoothNameRequired},
		{name: "unknown", err: errors.New("pq: relation missing"), expectedStatus: http.StatusInternalServerError, expectedCode: codeInternalError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Code != tt.expectedCode {
				t.Fatalf("expected code %s, got %s", tt.expectedCode, resp.Code)
			}
			if resp.Role != tt.expectedRole {
				t.Fatalf("expected role %q, got %q", tt.expectedRole, resp.Role)
			}
			if tt.expectedStatus == http.StatusInternalServerError && resp.Error != "internal error" {
				t.Fatalf("expected generic message, got %q", resp.Error)
			}
		})
	}
}
