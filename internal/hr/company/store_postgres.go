// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/database/schema"
	"github.com/taibuivan/collabconnect/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed company store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.HRCompany.Columns(), ", ")

func scanCompany(row pgx.Row, extra ...any) (*Company, error) {
	company := &Company{}
	var industry *string
	dest := append([]any{
		&company.ID, &company.Name, &company.Slug, &industry, &company.CreatedAt, &company.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if industry != nil {
		company.Industry = *industry
	}
	return company, nil
}

/*
List returns a filtered and paginated list of companies.

Description: Uses ILIKE on the name and COUNT(*) OVER() for the total.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Company, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM %s WHERE TRUE`,
		selectColumns, schema.HRCompany.Table))

	args := []any{}
	argID := 1

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.HRCompany.Name, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", schema.HRCompany.Name, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_companies")
	}
	defer rows.Close()

	var companies []*Company
	var total int
	for rows.Next() {
		company, err := scanCompany(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_company")
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_companies")
	}

	return companies, total, nil
}

// FindByID retrieves a company by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.HRCompany.Table, schema.HRCompany.ID)
	company, err := scanCompany(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_company_by_id")
	}
	return company, nil
}

// FindBySlug retrieves a company by its slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, schema.HRCompany.Table, schema.HRCompany.Slug)
	company, err := scanCompany(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_company_by_slug")
	}
	return company, nil
}

/*
Upsert inserts the company or returns the row already holding its slug.

Description: ON CONFLICT DO UPDATE with a no-op assignment makes RETURNING
yield the existing row. xmax = 0 only holds for freshly inserted tuples.
*/
func (repository *PostgresRepository) Upsert(context context.Context, company *Company) (bool, error) {
	table := schema.HRCompany
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s
		RETURNING %s, %s, %s, %s, (xmax = 0) AS inserted`,
		table.Table, table.ID, table.Name, table.Slug, table.Industry,
		table.Slug, table.Slug, table.Slug,
		table.ID, table.Name, table.CreatedAt, table.UpdatedAt,
	)

	var inserted bool
	err := repository.db.QueryRow(context, query, company.ID, company.Name, company.Slug, company.Industry).
		Scan(&company.ID, &company.Name, &company.CreatedAt, &company.UpdatedAt, &inserted)
	if err != nil {
		return false, dberr.Wrap(err, "upsert_company")
	}

	return inserted, nil
}

// Update rewrites the editable columns of company and reads back UpdatedAt.
func (repository *PostgresRepository) Update(context context.Context, company *Company) error {
	table := schema.HRCompany
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NULLIF($4, ''), %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table, table.Name, table.Slug, table.Industry, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, company.ID, company.Name, company.Slug, company.Industry).
		Scan(&company.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("A company with this name already exists")
		}
		return dberr.Wrap(err, "update_company")
	}

	return nil
}
