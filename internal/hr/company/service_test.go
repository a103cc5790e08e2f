// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package company_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collabconnect/internal/hr/company"
	"github.com/taibuivan/collabconnect/internal/platform/apperr"
)

type memCompanies struct {
	bySlug map[string]*company.Company
}

func newMemCompanies() *memCompanies {
	return &memCompanies{bySlug: map[string]*company.Company{}}
}

func (repo *memCompanies) List(_ context.Context, _ company.Filter, _, _ int) ([]*company.Company, int, error) {
	var companies []*company.Company
	for _, c := range repo.bySlug {
		companies = append(companies, c)
	}
	return companies, len(companies), nil
}

func (repo *memCompanies) FindByID(_ context.Context, id string) (*company.Company, error) {
	for _, c := range repo.bySlug {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Company")
}

func (repo *memCompanies) FindBySlug(_ context.Context, slug string) (*company.Company, error) {
	if c, ok := repo.bySlug[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Company")
}

func (repo *memCompanies) Upsert(_ context.Context, c *company.Company) (bool, error) {
	if existing, ok := repo.bySlug[c.Slug]; ok {
		c.ID = existing.ID
		c.Name = existing.Name
		return false, nil
	}
	stored := *c
	repo.bySlug[c.Slug] = &stored
	return true, nil
}

func (repo *memCompanies) Update(_ context.Context, c *company.Company) error {
	var previous string
	for slug, existing := range repo.bySlug {
		if existing.ID == c.ID {
			previous = slug
		}
	}
	if previous == "" {
		return apperr.NotFound("Company")
	}
	if holder, ok := repo.bySlug[c.Slug]; ok && holder.ID != c.ID {
		return apperr.Conflict("A company with this name already exists")
	}

	delete(repo.bySlug, previous)
	stored := *c
	repo.bySlug[c.Slug] = &stored
	return nil
}

func ptr(value string) *string { return &value }

func newService() (*company.Service, *memCompanies) {
	repo := newMemCompanies()
	return company.NewService(repo, slog.New(slog.DiscardHandler)), repo
}

/*
TestCreateCompany_SlugIsNaturalKey verifies names differing in case or accents share a row.
*/
func TestCreateCompany_SlugIsNaturalKey(t *testing.T) {
	service, repo := newService()

	first, err := service.CreateCompany(context.Background(), "Café Andino S.A.", "Retail")
	require.NoError(t, err)
	assert.Equal(t, "cafe-andino-s-a", first.Slug)

	second, err := service.CreateCompany(context.Background(), "  cafe andino s.a. ", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Café Andino S.A.", second.Name)
	assert.Len(t, repo.bySlug, 1)

	found, err := service.GetCompany(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Slug, found.Slug)

	found, err = service.GetCompany(context.Background(), "cafe-andino-s-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

/*
TestCreateCompany_Validation verifies blank and symbol-only names are rejected.
*/
func TestCreateCompany_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"blank", "   "},
		{"markup_only", "<b></b>"},
		{"symbols_only", "&&&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService()
			_, err := service.CreateCompany(context.Background(), tt.input, "")
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
		})
	}
}

/*
TestEnsure verifies registration links existing companies and skips blank names.
*/
func TestEnsure(t *testing.T) {
	service, repo := newService()

	id, err := service.Ensure(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, repo.bySlug)

	id, err = service.Ensure(context.Background(), "Acme")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	again, err := service.Ensure(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

/*
TestUpdateCompany verifies renames re-slug the company and respect the natural key.
*/
func TestUpdateCompany(t *testing.T) {
	tests := []struct {
		name         string
		id           func(acme *company.Company) string
		input        company.UpdateInput
		wantCode     string
		wantName     string
		wantSlug     string
		wantIndustry string
	}{
		{
			name:         "rename_sanitizes_and_reslugs",
			input:        company.UpdateInput{Name: ptr("  <b>Acmé</b> Global ")},
			wantName:     "Acmé Global",
			wantSlug:     "acme-global",
			wantIndustry: "Retail",
		},
		{
			name:         "industry_only_keeps_slug",
			input:        company.UpdateInput{Industry: ptr("Logistics")},
			wantName:     "Acme",
			wantSlug:     "acme",
			wantIndustry: "Logistics",
		},
		{
			name:     "symbols_only_name",
			input:    company.UpdateInput{Name: ptr("&&&")},
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "blank_name",
			input:    company.UpdateInput{Name: ptr("   ")},
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "name_of_another_company",
			input:    company.UpdateInput{Name: ptr("TALENT")},
			wantCode: apperr.CodeConflict,
		},
		{
			name:     "slug_is_not_an_id",
			id:       func(*company.Company) string { return "acme" },
			input:    company.UpdateInput{Industry: ptr("Logistics")},
			wantCode: apperr.CodeNotFound,
		},
		{
			name:     "unknown_id",
			id:       func(*company.Company) string { return "0190c8a0-0000-7000-8000-0000000000ff" },
			input:    company.UpdateInput{Industry: ptr("Logistics")},
			wantCode: apperr.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newService()
			ctx := context.Background()

			acme, err := service.CreateCompany(ctx, "Acme", "Retail")
			require.NoError(t, err)
			_, err = service.CreateCompany(ctx, "Talent", "")
			require.NoError(t, err)

			id := acme.ID
			if tt.id != nil {
				id = tt.id(acme)
			}

			updated, err := service.UpdateCompany(ctx, id, tt.input)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				assert.Equal(t, "Acme", repo.bySlug["acme"].Name)
				assert.Len(t, repo.bySlug, 2)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, acme.ID, updated.ID)
			assert.Equal(t, tt.wantName, updated.Name)
			assert.Equal(t, tt.wantSlug, updated.Slug)
			assert.Equal(t, tt.wantIndustry, updated.Industry)

			found, err := service.GetCompany(ctx, tt.wantSlug)
			require.NoError(t, err)
			assert.Equal(t, acme.ID, found.ID)
			assert.Len(t, repo.bySlug, 2)
		})
	}
}
