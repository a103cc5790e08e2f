// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
)

// maxActivityBatch bounds the events accepted per activity report.
const maxActivityBatch = 100

// Handler exposes the caller's session runtime over HTTP.
//
// # Endpoints
//   - GET  /           : Snapshot of the session and its timers.
//   - POST /activity   : Batched interaction events, each one resets the timers.
//   - POST /extend     : The explicit "continue session" action.
//   - GET  /events     : Server-sent warning and expiry notifications.
//   - GET  /navigation : Views the caller may open.
type Handler struct {
	manager   *Manager
	keepAlive time.Duration
}

// NewHandler constructs a session [Handler]. keepAlive is the interval of SSE
// comment frames that keep idle proxies from closing the stream.
func NewHandler(manager *Manager, keepAlive time.Duration) *Handler {
	return &Handler{manager: manager, keepAlive: keepAlive}
}

// Routes returns the session router. It expects authenticated requests.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.current)
	router.Post("/activity", handler.activity)
	router.Post("/extend", handler.extend)
	router.Get("/events", handler.events)
	router.Get("/navigation", handler.navigation)

	return router
}

// # Payloads

// Snapshot describes a live session as seen by its owner.
type Snapshot struct {
	SessionID          string             `json:"sessionId"`
	State              string             `json:"state"`
	RemainingSeconds   int                `json:"remainingSeconds"`
	TimeoutSeconds     int                `json:"timeoutSeconds"`
	WarningLeadSeconds int                `json:"warningLeadSeconds"`
	WarningAt          time.Time          `json:"warningAt"`
	ExpiresAt          time.Time          `json:"expiresAt"`
	LastActivity       time.Time          `json:"lastActivity"`
	User               *AuthenticatedUser `json:"user"`
}

type activityBody struct {
	Events []string `json:"events"`

	kinds []EventKind
}

// Check parses every event name; kinds holds the recognised ones.
func (body *activityBody) Check(validator *validate.Validator) {
	validator.Custom("events", len(body.Events) == 0, "At least one event is required").
		Custom("events", len(body.Events) > maxActivityBatch, fmt.Sprintf("At most %d events per report", maxActivityBatch))

	body.kinds = make([]EventKind, 0, len(body.Events))
	for _, raw := range body.Events {
		kind, err := ParseEventKind(raw)
		if err != nil {
			validator.Custom("events", true, fmt.Sprintf("Unknown event %q", raw))
			continue
		}
		body.kinds = append(body.kinds, kind)
	}
}

// snapshot assembles the public view of runtime.
func (handler *Handler) snapshot(runtime *Runtime) Snapshot {
	cfg := handler.manager.Config()
	remaining, _ := handler.manager.Remaining(runtime.ID())

	return Snapshot{
		SessionID:          runtime.ID(),
		State:              runtime.State().String(),
		RemainingSeconds:   int(remaining / time.Second),
		TimeoutSeconds:     int(cfg.Timeout / time.Second),
		WarningLeadSeconds: int(cfg.WarningLead / time.Second),
		WarningAt:          runtime.WarningAt(),
		ExpiresAt:          runtime.ExpiresAt(),
		LastActivity:       runtime.LastActivity(),
		User:               runtime.User(),
	}
}

// runtime resolves the caller's live session from the token's session id.
func (handler *Handler) runtime(request *http.Request) (*Runtime, error) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		return nil, err
	}

	runtime, err := handler.manager.Resume(request.Context(), claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperr.SessionExpired()
		}
		return nil, err
	}

	user := runtime.User()
	if user == nil || user.ID != claims.UserID {
		return nil, apperr.SessionExpired()
	}

	return runtime, nil
}

// # Handlers

/*
Current returns the caller's session snapshot.

GET /api/v1/session

Response:
  - 200: Snapshot
  - 401: SESSION_EXPIRED once the session ended
*/
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	runtime, err := handler.runtime(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.snapshot(runtime))
}

/*
Activity reports interaction events observed by the client.

POST /api/v1/session/activity

Description: Clients batch the events they observed since their last report.
Every accepted event refreshes the last activity time and re-arms the timers.
Unknown event kinds reject the whole batch.

Request:
  - Body: {"events": ["pointerdown", "keydown"]}

Response:
  - 200: Snapshot
  - 400: VALIDATION_ERROR
  - 401: SESSION_EXPIRED
*/
func (handler *Handler) activity(writer http.ResponseWriter, request *http.Request) {
	runtime, err := handler.runtime(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := &activityBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	for _, kind := range body.kinds {
		if err := handler.manager.Activity(runtime.ID(), kind); err != nil {
			respond.Error(writer, request, apperr.SessionExpired())
			return
		}
	}

	respond.OK(writer, handler.snapshot(runtime))
}

// extend handles POST /api/v1/session/extend.
func (handler *Handler) extend(writer http.ResponseWriter, request *http.Request) {
	runtime, err := handler.runtime(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.manager.Extend(runtime.ID()); err != nil {
		respond.Error(writer, request, apperr.SessionExpired())
		return
	}

	respond.OK(writer, handler.snapshot(runtime))
}

// navigation handles GET /api/v1/session/navigation.
func (handler *Handler) navigation(writer http.ResponseWriter, request *http.Request) {
	runtime, err := handler.runtime(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Navigation(runtime.User()))
}

/*
Events streams session notifications as server-sent events.

GET /api/v1/session/events

Description: The stream opens with a "session.snapshot" event and then relays
warning, extension, expiry and end notifications. It closes after the session
ends or when the client disconnects.
*/
func (handler *Handler) events(writer http.ResponseWriter, request *http.Request) {
	runtime, err := handler.runtime(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	flusher, ok := writer.(http.Flusher)
	if !ok {
		respond.Error(writer, request, apperr.Internal(errors.New("streaming unsupported")))
		return
	}

	// The stream outlives the server's write timeout
	_ = http.NewResponseController(writer).SetWriteDeadline(time.Time{})

	writer.Header().Set("Content-Type", "text/event-stream")
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Header().Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)

	ctx := request.Context()
	events := handler.manager.Notifier().Subscribe(ctx, runtime.ID())
	logger := ctxutil.Logger(ctx)

	if err := writeEvent(writer, "session.snapshot", handler.snapshot(runtime)); err != nil {
		return
	}
	flusher.Flush()

	var keepAlive <-chan time.Time
	if handler.keepAlive > 0 {
		ticker := time.NewTicker(handler.keepAlive)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-keepAlive:
			if _, err := writer.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case event, open := <-events:
			if !open {
				return
			}
			if err := writeEvent(writer, event.Type, event); err != nil {
				logger.Debug("session_stream_write_failed", "session_id", runtime.ID(), "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE frame with a JSON payload.
func writeEvent(writer http.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", name, data)
	return err
}
