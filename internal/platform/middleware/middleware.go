// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware is the HTTP chain in front of the portal handlers.

Order, outermost first (see internal/api):

  - RequestID and StructuredLogger: correlation id and one log line per request.
  - Timeout, RateLimit and PanicRecovery: request budget and safety.
  - Authenticate and CORS: identity from the bearer token or the session cookie.
  - RequireSession, RequireRoles and GuardView (authz.go): session and role gates.
*/
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/pkg/ids"
)

// maxRequestIDLength bounds a client-supplied X-Request-ID.
const maxRequestIDLength = 64

// # Request Tracing

// RequestID reuses a well-formed X-Request-ID from the caller or mints a ULID.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if !validRequestID(requestID) {
				requestID = ids.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// validRequestID accepts short ids made of letters, digits, '-' and '_', so a
// caller cannot inject arbitrary text into the logs.
func validRequestID(value string) bool {
	if value == "" || len(value) > maxRequestIDLength {
		return false
	}
	for _, r := range value {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// # Request Logging

// requestTrace collects the caller identity found further down the chain so
// the access log line can carry it.
type requestTrace struct {
	userID    string
	sessionID string
}

type traceKey struct{}

// noteCaller records the verified caller on the request's trace.
func noteCaller(ctx context.Context, claims *sec.AuthClaims) {
	if trace, ok := ctx.Value(traceKey{}).(*requestTrace); ok {
		trace.userID = claims.UserID
		trace.sessionID = claims.SessionID
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so event streams are not buffered.
func (recorder *statusRecorder) Flush() {
	if flusher, ok := recorder.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// StructuredLogger injects a request logger and writes "http_request_finished"
// once the handler returns: info below 400, warn for 4xx, error for 5xx.
// Session event streams log when the stream closes.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			trace := &requestTrace{}
			ctx := context.WithValue(ctxutil.WithLogger(request.Context(), requestLogger), traceKey{}, trace)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if trace.userID != "" {
				attrs = append(attrs,
					slog.String("user_id", trace.userID),
					slog.String("session_id", trace.sessionID),
				)
			}

			requestLogger.Log(ctx, level, "http_request_finished", attrs...)
		})
	}
}

// # Request Deadlines

// Timeout bounds the request context to d. Session event streams are exempt;
// they end when the client disconnects or the session ends.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if isEventStream(request) {
				next.ServeHTTP(writer, request)
				return
			}

			ctx, cancel := context.WithTimeout(request.Context(), d)
			defer cancel()

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func isEventStream(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "text/event-stream")
}

// # Helpers

// RealIP returns the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the socket peer.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
