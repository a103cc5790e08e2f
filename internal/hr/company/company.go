// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package company manages the client companies whose collaborators use the portal.

Companies are created implicitly the first time a collaborator registers with a
new company name, and explicitly by HR. The slug of the name is the natural key,
so "Acme S.A." and "acme s.a." resolve to the same company.
*/
package company

import (
	"context"
	"time"
)

// Validation field names.
const (
	FieldName     = "name"
	FieldIndustry = "industry"

	MaxNameLength = 120
)

// Company is a client organization.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Industry  string    `json:"industry,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateInput is a partial edit. Nil fields keep their value.
type UpdateInput struct {
	Name     *string
	Industry *string
}

// Filter narrows company listings.
type Filter struct {
	Query string
}

// # Data Access

// Repository defines the data access contract for companies.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error)
	FindByID(context context.Context, id string) (*Company, error)
	FindBySlug(context context.Context, slug string) (*Company, error)

	/*
		Upsert inserts company unless its slug already exists.

		Parameters:
		  - context: context.Context
		  - company: *Company (ID is replaced by the stored one)

		Returns:
		  - bool: true when a new row was inserted
		  - error: Storage failures
	*/
	Upsert(context context.Context, company *Company) (bool, error)

	// Update rewrites name, slug and industry, refreshing UpdatedAt. A slug
	// held by another company yields apperr.Conflict.
	Update(context context.Context, company *Company) error
}
