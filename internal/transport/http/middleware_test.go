package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger_LogsStatusAndPath(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/scans", nil)
	rec := httptest.NewRecorder()

	RequestLogger(handler, logger).ServeHTTP(rec, req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Level != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", entry.Level)
	}
	if entry.Data["method"] != http.MethodPost {
		t.Fatalf("expected method in log, got %v", entry.Data["method"])
	}
	if entry.Data["path"] != "/scans" {
		t.Fatalf("expected path in log, got %v", entry.Data["path"])
	}
	if entry.Data["status"] != http.StatusCreated {
		t.Fatalf("expected status in log, got %v", entry.Data["status"])
	}
}

func TestRequestLogger_DefaultsTo200(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	RequestLogger(handler, logger).ServeHTTP(rec, req)

	if got := hook.LastEntry().Data["status"]; got != http.StatusOK {
		t.Fatalf("expected default status 200 in log, got %v", got)
	}
}

func TestRequestLogger_ServerErrorsLoggedAsErrors(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	})

	req := httptest.NewRequest(http.MethodGet, "/events/e-1/stats", nil)
	RequestLogger(handler, logger).ServeHTTP(httptest.NewRecorder(), req)

	if got := hook.LastEntry().Level; got != logrus.ErrorLevel {
		t.Fatalf("expected error level, got %s", got)
	}
}

func TestInstrument_ReportsStatus(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	handler := Instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}), obs)

	req := httptest.NewRequest(http.MethodPost, "/scans", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(obs.calls) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs.calls))
	}
	if obs.calls[0].method != http.MethodPost || obs.calls[0].status != http.StatusConflict {
		t.Fatalf("unexpected observation %+v", obs.calls[0])
	}
}

func TestInstrument_NilObserverPassesThrough(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec := httptest.NewRecorder()
	Instrument(next, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rec.Code)
	}
}

type observation struct {
	method string
	status int
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

func (o *recordingObserver) ObserveRequest(method string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observation{method: method, status: status})
}
