// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/validate"
	"github.com/taibuivan/collabconnect/pkg/sanitize"
	"github.com/taibuivan/collabconnect/pkg/slug"
	"github.com/taibuivan/collabconnect/pkg/uuid"
)

// # Service Layer

// Service orchestrates the company directory.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new company [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListCompanies retrieves a paginated and filtered list of companies.
func (service *Service) ListCompanies(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

/*
GetCompany retrieves a company by its UUID or slug.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Company
  - error: apperr.NotFound if missing
*/
func (service *Service) GetCompany(context context.Context, identifier string) (*Company, error) {
	if validate.IsUUID(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

/*
CreateCompany registers a company, returning the existing one when its slug
is already taken.

Parameters:
  - context: context.Context
  - name: string
  - industry: string

Returns:
  - *Company
  - error: Validation or persistence failures
*/
func (service *Service) CreateCompany(context context.Context, name, industry string) (*Company, error) {
	company := &Company{
		ID:       uuid.New(),
		Name:     sanitize.Text(name),
		Industry: sanitize.Text(industry),
	}
	company.Slug = slug.From(company.Name)

	if err := checkCompany(company); err != nil {
		return nil, err
	}

	inserted, err := service.repo.Upsert(context, company)
	if err != nil {
		return nil, fmt.Errorf("company_service_create_failed: %w", err)
	}

	if inserted {
		service.logger.Info("company_created",
			slog.String("company_id", company.ID),
			slog.String("slug", company.Slug),
		)
	}

	return company, nil
}

/*
UpdateCompany applies a partial edit to the company with the given UUID.

Description: A new name is sanitized and re-slugged like on creation, so a
rename onto another company's slug is a conflict.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Company: the stored company after the edit
  - error: apperr.NotFound, validation, apperr.Conflict or storage failures
*/
func (service *Service) UpdateCompany(context context.Context, id string, input UpdateInput) (*Company, error) {
	if !validate.IsUUID(id) {
		return nil, apperr.NotFound("Company")
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	company := *current
	if input.Name != nil {
		company.Name = sanitize.Text(*input.Name)
		company.Slug = slug.From(company.Name)
	}
	if input.Industry != nil {
		company.Industry = sanitize.Text(*input.Industry)
	}

	if err := checkCompany(&company); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, &company); err != nil {
		return nil, fmt.Errorf("company_service_update_failed: %w", err)
	}

	service.logger.Info("company_updated",
		slog.String("company_id", company.ID),
		slog.String("slug", company.Slug),
	)
	return &company, nil
}

func checkCompany(company *Company) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, company.Name).
		MaxLen(FieldName, company.Name, MaxNameLength).
		Custom(FieldName, company.Name != "" && company.Slug == "", "Must contain letters or digits").
		MaxLen(FieldIndustry, company.Industry, MaxNameLength)
	return validator.Err()
}

/*
Ensure returns the ID of the company named name, creating it when missing.

Description: Used by registration. A blank name, or one without any letter
or digit, links no company and yields an empty ID.
*/
func (service *Service) Ensure(context context.Context, name string) (string, error) {
	if slug.From(sanitize.Text(name)) == "" {
		return "", nil
	}

	company, err := service.CreateCompany(context, name, "")
	if err != nil {
		return "", err
	}
	return company.ID, nil
}
