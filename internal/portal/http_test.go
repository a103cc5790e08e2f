// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package portal_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/portal"
	"github.com/taibuivan/collabconnect/internal/session"
	"github.com/taibuivan/collabconnect/internal/session/sessiontest"
)

func newManager(t *testing.T) (*session.Manager, *sessiontest.ManualClock) {
	t.Helper()
	clock := sessiontest.NewManualClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	manager, err := session.NewManager(
		session.Config{Timeout: 20 * time.Minute, WarningLead: time.Minute},
		session.Deps{Store: session.NewMemoryStore(), Clock: clock},
	)
	require.NoError(t, err)
	return manager, clock
}

func portalRouter(manager *session.Manager, claims *sec.AuthClaims) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/views", portal.NewHandler(manager, constants.LoginPath, constants.DefaultPath).Routes())
	return router
}

func login(t *testing.T, manager *session.Manager, role sec.SystemRole) *sec.AuthClaims {
	t.Helper()
	user := session.AuthenticatedUser{ID: "user-" + string(role), FullName: "Ana", Role: role}
	runtime, err := manager.Start(context.Background(), user)
	require.NoError(t, err)
	return &sec.AuthClaims{UserID: user.ID, Role: string(role), SessionID: runtime.ID()}
}

/*
TestPortal_GuardOutcomes verifies each view redirects or renders by role.
*/
func TestPortal_GuardOutcomes(t *testing.T) {
	manager, _ := newManager(t)
	collaborator := login(t, manager, sec.RoleCollaborator)
	director := login(t, manager, sec.RoleDirector)

	tests := []struct {
		name         string
		claims       *sec.AuthClaims
		path         string
		wantStatus   int
		wantLocation string
	}{
		{"anonymous_dashboard", nil, "/views/dashboard", http.StatusSeeOther, "/"},
		{"anonymous_profile", nil, "/views/profile", http.StatusSeeOther, "/"},
		{"collaborator_dashboard", collaborator, "/views/dashboard", http.StatusOK, ""},
		{"collaborator_chat", collaborator, "/views/chat", http.StatusOK, ""},
		{"collaborator_employees", collaborator, "/views/employees", http.StatusSeeOther, "/dashboard"},
		{"director_files", director, "/views/files", http.StatusOK, ""},
		{"unknown_view", collaborator, "/views/payroll", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			portalRouter(manager, tt.claims).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
		})
	}
}

/*
TestPortal_RenderAndExpiry verifies the page payload and the redirect after timeout.
*/
func TestPortal_RenderAndExpiry(t *testing.T) {
	manager, clock := newManager(t)
	claims := login(t, manager, sec.RoleHR)
	router := portalRouter(manager, claims)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/views/hr-dashboard", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data portal.Page `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "hr-dashboard", envelope.Data.View.Name)
	assert.Equal(t, claims.UserID, envelope.Data.User.ID)
	assert.Len(t, envelope.Data.Navigation, len(session.Views))

	clock.Advance(20 * time.Minute)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/views/hr-dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
}
