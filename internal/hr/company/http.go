// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package company

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
	"github.com/taibuivan/collabconnect/pkg/pagination"
)

// Handler implements the HTTP layer for the company directory.
type Handler struct {
	service *Service
}

// NewHandler constructs a new company [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with company endpoints. Every route requires
// an HR role; Directors may read and edit.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleHR, sec.RoleSuperAdmin, sec.RoleDirector))
		r.Get("/", handler.listCompanies)
		r.Get("/{identifier}", handler.getCompany)
		r.Patch("/{identifier}", handler.updateCompany)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleHR, sec.RoleSuperAdmin))
		r.Post("/", handler.createCompany)
	})

	return router
}

/*
GET /api/v1/companies.

Request:
  - q: string (name fragment)
  - page, limit: int

Response:
  - 200: Paginated []Company
*/
func (handler *Handler) listCompanies(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	filter := Filter{Query: request.URL.Query().Get("q")}

	companies, total, err := handler.service.ListCompanies(request.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, companies, page.Meta(total))
}

// getCompany handles GET /api/v1/companies/{identifier}.
func (handler *Handler) getCompany(writer http.ResponseWriter, request *http.Request) {
	company, err := handler.service.GetCompany(request.Context(), requestutil.Param(request, "identifier"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, company)
}

type createCompanyRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// createCompany handles POST /api/v1/companies.
func (handler *Handler) createCompany(writer http.ResponseWriter, request *http.Request) {
	var input createCompanyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	company, err := handler.service.CreateCompany(request.Context(), input.Name, input.Industry)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, company)
}

type updateCompanyBody struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
}

// Check rejects an empty patch. Field rules run in the service, after sanitizing.
func (body *updateCompanyBody) Check(v *validate.Validator) {
	v.Custom(FieldName, body.Name == nil && body.Industry == nil, "Provide a name or an industry")
}

/*
PATCH /api/v1/companies/{identifier} edits a company by UUID. Omitted fields
keep their value.

	200 Company
	400 VALIDATION_ERROR
	404 NOT_FOUND
	409 CONFLICT (another company has the new name)
*/
func (handler *Handler) updateCompany(writer http.ResponseWriter, request *http.Request) {
	body := &updateCompanyBody{}
	if err := requestutil.Bind(request, body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	company, err := handler.service.UpdateCompany(request.Context(), requestutil.Param(request, "identifier"), UpdateInput{
		Name:     body.Name,
		Industry: body.Industry,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, company)
}
