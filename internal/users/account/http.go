// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
	"github.com/taibuivan/collabconnect/pkg/pagination"
)

// Validation field names.
const (
	FieldFullName   = "fullName"
	FieldAvatarURL  = "avatarUrl"
	FieldSkills     = "skills"
	FieldDepartment = "department"
	FieldLeader     = "leader"
	FieldPTOTotal   = "ptoTotal"
	FieldPTOTaken   = "ptoTaken"

	maxSkills     = 30
	maxFieldChars = 120
)

// Handler serves the caller's own profile and the HR employee directory.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes expects to be mounted behind RequireSession. The directory is
// readable by HR, Super Admin and Director; only HR and Super Admin edit it.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Account Management
	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)

	// Session transparency
	router.Get("/me/sessions", handler.listSessions)
	router.Delete("/me/sessions", handler.endOtherSessions)

	// Employee directory
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleHR, sec.RoleSuperAdmin, sec.RoleDirector))
		r.Get("/employees", handler.listEmployees)
		r.Get("/employees/{id}", handler.getEmployee)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleHR, sec.RoleSuperAdmin))
		r.Patch("/employees/{id}", handler.updateEmployee)
	})

	return router
}

// # User Profile Endpoints

// getMe returns the caller's profile with display defaults applied.
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateMeBody struct {
	FullName  *string   `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl"`
	Skills    *[]string `json:"skills"`
}

// Check validates only the fields present in the patch.
func (body *updateMeBody) Check(v *validate.Validator) {
	if body.FullName != nil {
		v.Required(FieldFullName, *body.FullName).MaxLen(FieldFullName, *body.FullName, maxFieldChars)
	}
	if body.AvatarURL != nil && *body.AvatarURL != "" {
		parsed, parseErr := url.Parse(*body.AvatarURL)
		v.Custom(FieldAvatarURL, parseErr != nil || (parsed.Scheme != "https" && parsed.Scheme != "http"), "Must be an http(s) URL")
	}
	if body.Skills != nil {
		v.Custom(FieldSkills, len(*body.Skills) > maxSkills, "Too many skills")
		for _, skill := range *body.Skills {
			v.MaxLen(FieldSkills, skill, maxFieldChars)
		}
	}
}

/*
PATCH /api/v1/me applies a partial profile update. Omitted fields keep
their value; the caller's other sessions are untouched.

	200 Profile
	400 VALIDATION_ERROR
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := &updateMeBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateProfile(request.Context(), claims.UserID, claims.SessionID, UpdateProfileInput{
		FullName:  body.FullName,
		AvatarURL: body.AvatarURL,
		Skills:    body.Skills,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// deleteMe handles DELETE /api/v1/me.
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Session Endpoints

// listSessions handles GET /api/v1/me/sessions.
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessions, err := handler.accountService.ListSessions(request.Context(), claims.UserID, claims.SessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessions)
}

// endOtherSessions handles DELETE /api/v1/me/sessions.
func (handler *Handler) endOtherSessions(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.accountService.EndOtherSessions(request.Context(), claims.UserID, claims.SessionID)
	respond.NoContent(writer)
}

// # Employee Directory Endpoints

/*
GET /api/v1/employees.

Query:
  - company: company ID (ignored for Directors, who see their own company)
  - role: system role
  - q: name or email fragment
  - page, limit

Response:
  - 200: Paginated []Profile
  - 403: FORBIDDEN for collaborators
*/
func (handler *Handler) listEmployees(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	filter := EmployeeFilter{
		CompanyID: query.Get("company"),
		Role:      query.Get("role"),
		Query:     query.Get("q"),
	}

	v := &validate.Validator{}
	if filter.CompanyID != "" {
		v.UUID("company", filter.CompanyID)
	}
	if filter.Role != "" {
		v.Role("role", filter.Role)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	profiles, total, err := handler.accountService.ListEmployees(request.Context(), claims, filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, page.Meta(total))
}

// getEmployee handles GET /api/v1/employees/{id}.
func (handler *Handler) getEmployee(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetProfile(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateEmploymentBody struct {
	Department *string    `json:"department"`
	Leader     *string    `json:"leader"`
	PTOTotal   *int       `json:"ptoTotal"`
	PTOTaken   *int       `json:"ptoTaken"`
	StartDate  *time.Time `json:"startDate"`
}

func (body *updateEmploymentBody) Check(v *validate.Validator) {
	if body.Department != nil {
		v.Required(FieldDepartment, *body.Department).MaxLen(FieldDepartment, *body.Department, maxFieldChars)
	}
	if body.Leader != nil {
		v.Required(FieldLeader, *body.Leader).MaxLen(FieldLeader, *body.Leader, maxFieldChars)
	}
	if body.PTOTotal != nil {
		v.Range(FieldPTOTotal, *body.PTOTotal, 0, 365)
	}
	if body.PTOTaken != nil {
		v.Range(FieldPTOTaken, *body.PTOTaken, 0, 365)
	}
}

// updateEmployee handles PATCH /api/v1/employees/{id}; HR only.
func (handler *Handler) updateEmployee(writer http.ResponseWriter, request *http.Request) {
	body := &updateEmploymentBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateEmployment(request.Context(), requestutil.Param(request, "id"), UpdateEmploymentInput{
		Department: body.Department,
		Leader:     body.Leader,
		PTOTotal:   body.PTOTotal,
		PTOTaken:   body.PTOTaken,
		StartDate:  body.StartDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
