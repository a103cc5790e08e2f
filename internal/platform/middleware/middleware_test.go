// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
)

/*
TestRequestID keeps well-formed caller ids and replaces the rest.
*/
func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"caller_id_kept", "req-2026_01", true},
		{"missing_minted", "", false},
		{"log_injection_replaced", "abc\nlevel=ERROR", false},
		{"oversized_replaced", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				request.Header.Set(constants.HeaderXRequestID, tt.incoming)
			}

			recorder := httptest.NewRecorder()
			middleware.RequestID()(okHandler()).ServeHTTP(recorder, request)

			got := recorder.Header().Get(constants.HeaderXRequestID)
			require.NotEmpty(t, got)
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
				assert.Len(t, got, 26)
			}
		})
	}
}

/*
TestStructuredLogger_CarriesCaller logs the authenticated user and session of the request.
*/
func TestStructuredLogger_CarriesCaller(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	verifier := fakeVerifier{"token-hr": &sec.AuthClaims{UserID: "user-hr", Role: "HR", SessionID: "01JSESSIONHR"}}
	handler := middleware.StructuredLogger(logger)(middleware.Authenticate(verifier)(okHandler()))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer token-hr")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "user-hr", entry["user_id"])
	assert.Equal(t, "01JSESSIONHR", entry["session_id"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

/*
TestRateLimitWith rejects a burst beyond the bucket with Retry-After.
*/
func TestRateLimitWith(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limited := middleware.RateLimitWith(ctx, middleware.RateLimitPolicy{RPS: 1, Burst: 2})(okHandler())

	send := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/session/activity", nil)
		request.Header.Set(constants.HeaderXRealIP, ip)
		recorder := httptest.NewRecorder()
		limited.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	rejected := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.Equal(t, "1", rejected.Header().Get("Retry-After"))
	assert.Contains(t, rejected.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

/*
TestPanicRecovery answers 500 with the error envelope.
*/
func TestPanicRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	recorder := httptest.NewRecorder()
	middleware.PanicRecovery(slog.New(slog.DiscardHandler))(panicking).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

type corsConfig struct{ development bool }

func (cfg corsConfig) IsDevelopment() bool { return cfg.development }

func (cfg corsConfig) AllowsOrigin(origin string) bool {
	return strings.HasSuffix(origin, ".collabconnect.mx")
}

/*
TestCORS echoes allowed origins and answers preflights.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		origin      string
		wantAllowed bool
	}{
		{"portal_origin", false, "https://app.collabconnect.mx", true},
		{"foreign_origin", false, "https://evil.example", false},
		{"development_any", true, "http://localhost:5173", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/session/extend", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			request.Header.Set("Access-Control-Request-Method", http.MethodPost)

			recorder := httptest.NewRecorder()
			middleware.CORS(corsConfig{development: tt.development})(okHandler()).ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestTimeout bounds ordinary requests and exempts event streams.
*/
func TestTimeout(t *testing.T) {
	var deadlines []bool
	inner := http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		_, has := request.Context().Deadline()
		deadlines = append(deadlines, has)
	})
	handler := middleware.Timeout(time.Second)(inner)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))

	stream := httptest.NewRequest(http.MethodGet, "/api/v1/session/events", nil)
	stream.Header.Set("Accept", "text/event-stream")
	handler.ServeHTTP(httptest.NewRecorder(), stream)

	assert.Equal(t, []bool{true, false}, deadlines)
}
