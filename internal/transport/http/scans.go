package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

// ScanRecorder is the minimal interface needed for the scan endpoints.
type ScanRecorder interface {
	RecordScan(ctx context.Context, in app.RecordScanInput) (domain.ScanRecord, error)
	RecordPair(ctx context.Context, in app.RecordPairInput) (domain.ScanRecord, error)
	ListScans(ctx context.Context, filter domain.ScanFilter) ([]domain.ScanRecord, error)
}

// recordScanRequest names both roles, or carries two unlabeled tokens in
// any order.
type recordScanRequest struct {
	AttendeeToken string   `json:"attendee_token"`
	BoothToken    string   `json:"booth_token"`
	Tokens        []string `json:"tokens"`
	EventID       string   `json:"event_id"`
	Notes         string   `json:"notes"`
}

// HandleScans records scans on POST and lists them on GET.
func HandleScans(svc ScanRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			recordScan(w, r, svc)
		case http.MethodGet:
			listScans(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func recordScan(w http.ResponseWriter, r *http.Request, svc ScanRecorder) {
	var req recordScanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "event_id is required")
		return
	}

	var (
		rec domain.ScanRecord
		err error
	)
	switch {
	case len(req.Tokens) > 0:
		if len(req.Tokens) != 2 || req.AttendeeToken != "" || req.BoothToken != "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "tokens must hold exactly two tokens")
			return
		}
		rec, err = svc.RecordPair(r.Context(), app.RecordPairInput{
			TokenA:  req.Tokens[0],
			TokenB:  req.Tokens[1],
			EventID: req.EventID,
			Notes:   req.Notes,
		})
	case req.AttendeeToken == "" || req.BoothToken == "":
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "attendee_token and booth_token are required")
		return
	default:
		rec, err = svc.RecordScan(r.Context(), app.RecordScanInput{
			AttendeeToken: req.AttendeeToken,
			BoothToken:    req.BoothToken,
			EventID:       req.EventID,
			Notes:         req.Notes,
		})
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScanResponse(rec))
}

func listScans(w http.ResponseWriter, r *http.Request, svc ScanRecorder) {
	q := r.URL.Query()
	filter := domain.ScanFilter{
		EventID:    q.Get("event_id"),
		BoothID:    q.Get("booth_id"),
		AttendeeID: q.Get("attendee_id"),
	}
	if filter.EventID == "" && filter.BoothID == "" && filter.AttendeeID == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "one of event_id, booth_id or attendee_id is required")
		return
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidLimit, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	scans, err := svc.ListScans(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]scanResponse, 0, len(scans))
	for _, s := range scans {
		resp = append(resp, toScanResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}
