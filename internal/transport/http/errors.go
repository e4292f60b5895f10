package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidDate          = "invalid_date"
	codeInvalidDateRange     = "invalid_date_range"
	codeInvalidLimit         = "invalid_limit"
	codeInvalidID            = "invalid_id"
	codeTokenNotRecognized   = "token_not_recognized"
	codeCrossEventMismatch   = "cross_event_mismatch"
	codeEventNotFound        = "event_not_found"
	codeAttendeeNotFound     = "attendee_not_found"
	codeBoothNotFound        = "booth_not_found"
	codeDuplicateToken       = "duplicate_token"
	codeDuplicateEmail       = "duplicate_email"
	codeDuplicateBoothNumber = "duplicate_booth_number"
	codeDuplicateEventCode   = "duplicate_event_code"
	codeEventNameRequired    = "event_name_required"
	codeEventCodeRequired    = "event_code_required"
	codeInvalidEventDates    = "invalid_event_dates"
	codeInvalidEventStatus   = "invalid_event_status"
	codeAttendeeNameRequired = "attendee_name_required"
	codeBoothNumberRequired  = "booth_number_required"
	codeBoothNameRequired    = "booth_name_required"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
	codeServiceUnavailable   = "service_unavailable"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Role  string `json:"role,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error to its HTTP status and code.
// Unknown errors are reported as 500 without leaking their text.
func writeServiceError(w http.ResponseWriter, err error) {
	var tokenErr *domain.TokenError
	if errors.As(err, &tokenErr) {
		writeErrorResponse(w, http.StatusUnprocessableEntity, errorResponse{
			Error: tokenErr.Error(),
			Code:  codeTokenNotRecognized,
			Role:  string(tokenErr.Role),
		})
		return
	}

	status, code := http.StatusInternalServerError, codeInternalError
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		status, code = http.StatusUnprocessableEntity, codeTokenNotRecognized
	case errors.Is(err, domain.ErrCrossEventMismatch):
		status, code = http.StatusConflict, codeCrossEventMismatch
	case errors.Is(err, domain.ErrEventNotFound):
		status, code = http.StatusNotFound, codeEventNotFound
	case errors.Is(err, domain.ErrAttendeeNotFound):
		status, code = http.StatusNotFound, codeAttendeeNotFound
	case errors.Is(err, domain.ErrBoothNotFound):
		status, code = http.StatusNotFound, codeBoothNotFound
	case errors.Is(err, domain.ErrDuplicateToken):
		status, code = http.StatusConflict, codeDuplicateToken
	case errors.Is(err, domain.ErrDuplicateEmail):
		status, code = http.StatusConflict, codeDuplicateEmail
	case errors.Is(err, domain.ErrDuplicateBoothNumber):
		status, code = http.StatusConflict, codeDuplicateBoothNumber
	case errors.Is(err, domain.ErrDuplicateEventCode):
		status, code = http.StatusConflict, codeDuplicateEventCode
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidKind):
		status, code = http.StatusBadRequest, codeInvalidID
	case errors.Is(err, domain.ErrInvalidDateRange):
		status, code = http.StatusBadRequest, codeInvalidDateRange
	case errors.Is(err, domain.ErrEventNameRequired):
		status, code = http.StatusBadRequest, codeEventNameRequired
	case errors.Is(err, domain.ErrEventCodeRequired):
		status, code = http.StatusBadRequest, codeEventCodeRequired
	case errors.Is(err, domain.ErrInvalidEventDates):
		status, code = http.StatusBadRequest, codeInvalidEventDates
	case errors.Is(err, domain.ErrInvalidEventStatus):
		status, code = http.StatusBadRequest, codeInvalidEventStatus
	case errors.Is(err, domain.ErrAttendeeNameRequired):
		status, code = http.StatusBadRequest, codeAttendeeNameRequired
	case errors.Is(err, domain.ErrBoothNumberRequired):
		status, code = http.StatusBadRequest, codeBoothNumberRequired
	case errors.Is(err, domain.ErrBoothNameRequired):
		status, code = http.StatusBadRequest, codeBoothNameRequired
	}

	msg := "internal error"
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeError(w, status, code, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
