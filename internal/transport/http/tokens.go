package http

import (
	"context"
	"net/http"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

// TokenVerifier is the minimal interface needed to resolve a scanned token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tok string) (domain.Verification, error)
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	Valid    bool              `json:"valid"`
	Kind     string            `json:"kind,omitempty"`
	Attendee *attendeeResponse `json:"attendee,omitempty"`
	Booth    *boothResponse    `json:"booth,omitempty"`
}

// HandleVerifyToken resolves a token to its attendee or booth. Unknown tokens
// are a 200 with valid=false.
func HandleVerifyToken(svc TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req verifyTokenRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		v, err := svc.VerifyToken(r.Context(), req.Token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := verifyTokenResponse{Valid: v.Valid, Kind: string(v.Kind)}
		if v.Attendee != nil {
			a := toAttendeeResponse(*v.Attendee)
			resp.Attendee = &a
		}
		if v.Booth != nil {
			b := toBoothResponse(*v.Booth)
			resp.Booth = &b
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
