// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package portal serves the guarded views of the CollabConnect portal.

Every view in [session.Views] is mounted at /views/{name} behind
[middleware.GuardView]. An anonymous or expired visitor is redirected to the
login surface; a visitor whose role does not fit is redirected to the
dashboard. Allowed visitors receive the view descriptor and their navigation.
*/
package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/session"
)

// Page is the payload of an allowed view.
type Page struct {
	View       session.View               `json:"view"`
	User       *session.AuthenticatedUser `json:"user"`
	Navigation []session.View             `json:"navigation"`
}

// Handler renders guarded views.
type Handler struct {
	resolver    middleware.SessionResolver
	loginPath   string
	defaultPath string
}

// NewHandler constructs a portal [Handler]. Visitors are redirected to
// loginPath when signed out and to defaultPath on a role mismatch.
func NewHandler(resolver middleware.SessionResolver, loginPath, defaultPath string) *Handler {
	return &Handler{resolver: resolver, loginPath: loginPath, defaultPath: defaultPath}
}

// Routes mounts one guarded route per view.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	for _, view := range session.Views {
		guard := middleware.GuardView(handler.resolver, view.Roles, handler.loginPath, handler.defaultPath)
		router.With(guard).Get("/"+view.Name, handler.render(view))
	}

	router.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("View"))
	})

	return router
}

// render answers an allowed navigation. The guard already resolved the
// runtime; it is looked up again to read the current identity.
func (handler *Handler) render(view session.View) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, err := requestutil.RequiredClaims(request)
		if err != nil {
			http.Redirect(writer, request, handler.loginPath, http.StatusSeeOther)
			return
		}

		runtime, err := handler.resolver.Resume(request.Context(), claims.SessionID)
		if err != nil {
			http.Redirect(writer, request, handler.loginPath, http.StatusSeeOther)
			return
		}

		user := runtime.User()
		respond.OK(writer, Page{
			View:       view,
			User:       user,
			Navigation: session.Navigation(user),
		})
	}
}
