package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

// onlyEntry returns the single log entry written for a request.
func onlyEntry(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	return logs.All()[0]
}

func TestLoggingMiddleware_Fields(t *testing.T) {
	logger, logs := observed()
	h := LoggingMiddleware(logger)(statusHandler(http.StatusAccepted))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	entry := onlyEntry(t, logs)
	fields := entry.ContextMap()

	if entry.Level != zapcore.InfoLevel {
		t.Errorf("expected info level, got %v", entry.Level)
	}
	if entry.Message != "http request" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if fields["method"] != "POST" {
		t.Errorf("expected method POST, got %v", fields["method"])
	}
	if fields["path"] != "/api/v1/refresh" {
		t.Errorf("expected path /api/v1/refresh, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusAccepted) {
		t.Errorf("expected status 202, got %v", fields["status"])
	}
	if fields["client_ip"] != "192.168.1.1:12345" {
		t.Errorf("unexpected client_ip %v", fields["client_ip"])
	}
	if _, ok := fields["duration_ms"]; !ok {
		t.Error("missing duration_ms")
	}
	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if fields["request_id"] != id {
		t.Errorf("expected request_id %q, got %v", id, fields["request_id"])
	}
}

func TestLoggingMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusSwitchingProtocols, zapcore.InfoLevel},
		{http.StatusUnauthorized, zapcore.WarnLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger, logs := observed()
			h := LoggingMiddleware(logger)(statusHandler(tt.status))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

			if got := onlyEntry(t, logs).Level; got != tt.level {
				t.Errorf("expected %v, got %v", tt.level, got)
			}
		})
	}
}

func TestLoggingMiddleware_ClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"remote addr", "", "10.0.0.1:54321"},
		{"forwarded single", "203.0.113.50", "203.0.113.50"},
		{"forwarded chain", "203.0.113.50, 70.41.3.18", "203.0.113.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observed()
			h := LoggingMiddleware(logger)(statusHandler(http.StatusOK))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = "10.0.0.1:54321"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got := onlyEntry(t, logs).ContextMap()["client_ip"]; got != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestLoggingMiddleware_ReusesChiRequestID(t *testing.T) {
	logger, logs := observed()
	h := middleware.RequestID(LoggingMiddleware(logger)(statusHandler(http.StatusOK)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "upstream-id" {
		t.Errorf("expected upstream-id header, got %q", got)
	}
	if got := onlyEntry(t, logs).ContextMap()["request_id"]; got != "upstream-id" {
		t.Errorf("expected upstream-id in log, got %v", got)
	}
}

func TestLoggingMiddleware_NilLogger(t *testing.T) {
	h := LoggingMiddleware(nil)(statusHandler(http.StatusOK))
	w := httptest.NewRecorder()

	// Should not panic
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
