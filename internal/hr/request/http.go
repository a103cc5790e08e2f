// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/collabconnect/internal/platform/middleware"
	requestutil "github.com/taibuivan/collabconnect/internal/platform/request"
	"github.com/taibuivan/collabconnect/internal/platform/respond"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
	"github.com/taibuivan/collabconnect/pkg/pagination"
)

// Handler implements the HTTP layer for HR requests.
//
// # Endpoints
//   - GET   /types           : Catalogue of request types.
//   - POST  /                : File a request.
//   - GET   /mine            : The caller's requests.
//   - GET   /{id}            : One request (owner or HR).
//   - GET   /                : Every request (HR roles).
//   - PATCH /{id}/status     : Review decision (HR roles).
type Handler struct {
	service *Service
}

// NewHandler constructs a new request [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the request router. It expects a live session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/types", handler.listTypes)
	router.Post("/", handler.create)
	router.Get("/mine", handler.listMine)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(reviewerRoles...))
		r.Get("/", handler.listAll)
		r.Patch("/{id}/status", handler.review)
	})

	return router
}

type typeOption struct {
	Value Type   `json:"value"`
	Label string `json:"label"`
}

// listTypes handles GET /api/v1/requests/types.
func (handler *Handler) listTypes(writer http.ResponseWriter, _ *http.Request) {
	options := make([]typeOption, 0, len(Types))
	for _, t := range Types {
		options = append(options, typeOption{Value: t, Label: t.Label()})
	}
	respond.OK(writer, options)
}

type createRequest struct {
	Type      string     `json:"type"`
	Details   string     `json:"details"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

/*
POST /api/v1/requests.

Request:
  - Body: {"type": "time-off", "details": "...", "startDate": "...", "endDate": "..."}

Response:
  - 201: Request
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), userID, CreateInput{
		Type:      Type(input.Type),
		Details:   input.Details,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// parseFilter reads the status and type query filters.
func parseFilter(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{
		CompanyID: query.Get("company"),
		Status:    Status(query.Get("status")),
		Type:      Type(query.Get("type")),
	}

	validator := &validate.Validator{}
	if filter.CompanyID != "" {
		validator.UUID("company", filter.CompanyID)
	}
	if filter.Status != "" {
		validator.Custom(FieldStatus, !filter.Status.Valid(), "Unknown status")
	}
	if filter.Type != "" {
		validator.Custom(FieldType, !filter.Type.Valid(), "Unknown request type")
	}

	return filter, validator.Err()
}

// listMine handles GET /api/v1/requests/mine.
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	requests, total, err := handler.service.ListOwn(request.Context(), userID, filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, page.Meta(total))
}

/*
GET /api/v1/requests.

Query:
  - company: company ID (ignored for Directors)
  - status, type
  - page, limit

Response:
  - 200: Paginated []Request
  - 403: FORBIDDEN for collaborators
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	requests, total, err := handler.service.ListAll(request.Context(), claims, filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, page.Meta(total))
}

// get handles GET /api/v1/requests/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), claims, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

type reviewRequest struct {
	Status string `json:"status"`
}

// review handles PATCH /api/v1/requests/{id}/status.
func (handler *Handler) review(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Review(request.Context(), claims, requestutil.Param(request, "id"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
