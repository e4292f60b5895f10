package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// Pinger checks that storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HandleHealth reports liveness. With a pinger it also checks storage and
// answers 503 when the check fails.
func HandleHealth(p Pinger) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if r.Method != stdhttp.MethodGet && r.Method != stdhttp.MethodHead {
			writeError(w, stdhttp.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				writeError(w, stdhttp.StatusServiceUnavailable, codeServiceUnavailable, "storage unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
