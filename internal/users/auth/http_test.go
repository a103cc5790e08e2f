// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/platform/constants"
	"github.com/taibuivan/collabconnect/internal/platform/ctxutil"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/users/auth"
)

// withClaims stands in for the Authenticate middleware.
func withClaims(claims *sec.AuthClaims) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if claims != nil {
				request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func newAuthRouter(fixture *authFixture, claims *sec.AuthClaims, exposeReset bool) http.Handler {
	router := chi.NewRouter()
	router.Use(withClaims(claims))
	router.Mount("/auth", auth.NewHandler(fixture.service, true, exposeReset).Routes())
	return router
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Code
}

/*
TestHandler_RegisterAndLogin covers the public flow over HTTP.
*/
func TestHandler_RegisterAndLogin(t *testing.T) {
	fixture := newAuthFixture(t)
	router := newAuthRouter(fixture, nil, false)

	registerBody := `{"email":"ana@example.com","password":"secret1","fullName":"Ana","companyName":"Talent","jobTitle":"HR"}`

	recorder := post(router, "/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data struct {
			Role     string `json:"role"`
			Password string `json:"passwordHash"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "HR", created.Data.Role)
	assert.Empty(t, created.Data.Password)

	recorder = post(router, "/auth/register", registerBody)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "ACCOUNT_EXISTS", errorCode(t, recorder))

	recorder = post(router, "/auth/login", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, recorder))

	recorder = post(router, "/auth/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var login struct {
		Data struct {
			AccessToken string `json:"accessToken"`
			SessionID   string `json:"sessionId"`
			ExpiresIn   int    `json:"expiresIn"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &login))
	assert.Equal(t, "sid-1", login.Data.SessionID)
	assert.Equal(t, 12*60*60, login.Data.ExpiresIn)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.AccessTokenCookieName, cookies[0].Name)
	assert.Equal(t, login.Data.AccessToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

/*
TestHandler_RegisterValidation verifies missing fields are rejected.
*/
func TestHandler_RegisterValidation(t *testing.T) {
	fixture := newAuthFixture(t)
	router := newAuthRouter(fixture, nil, false)

	tests := []struct {
		name string
		body string
	}{
		{"malformed_json", `{"email":`},
		{"missing_job", `{"email":"ana@example.com","password":"secret1","fullName":"Ana","companyName":"Acme"}`},
		{"short_password", `{"email":"ana@example.com","password":"abc","fullName":"Ana","companyName":"Acme","jobTitle":"CEO"}`},
		{"bad_email", `{"email":"ana","password":"secret1","fullName":"Ana","companyName":"Acme","jobTitle":"CEO"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := post(router, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, recorder))
		})
	}
}

/*
TestHandler_Logout verifies the session ends and the cookie is cleared.
*/
func TestHandler_Logout(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "ana@example.com", "secret1", "Ventas", "Acme")

	anonymous := newAuthRouter(fixture, nil, false)
	recorder := post(anonymous, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = post(anonymous, "/auth/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	authenticated := newAuthRouter(fixture, &sec.AuthClaims{SessionID: "sid-1"}, false)
	recorder = post(authenticated, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	_, live := fixture.manager.Lookup("sid-1")
	assert.False(t, live)
}

/*
TestHandler_ForgotPassword verifies the token is only echoed when enabled.
*/
func TestHandler_ForgotPassword(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t, "ana@example.com", "secret1", "Ventas", "Acme")

	for _, expose := range []bool{false, true} {
		router := newAuthRouter(fixture, nil, expose)
		recorder := post(router, "/auth/forgot-password", `{"email":"ana@example.com"}`)
		require.Equal(t, http.StatusOK, recorder.Code)

		var payload struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		_, hasToken := payload.Data[auth.FieldToken]
		assert.Equal(t, expose, hasToken)
	}
}
