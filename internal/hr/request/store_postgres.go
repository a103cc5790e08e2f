// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/database/schema"
	"github.com/taibuivan/collabconnect/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed request store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectRequest joins the requester's name. Columns are qualified with "r".
var selectRequest = func() string {
	table := schema.HRRequest
	columns := make([]string, 0, len(table.Columns())+1)
	for _, column := range table.Columns() {
		columns = append(columns, "r."+column)
	}
	columns = append(columns, "COALESCE(a."+schema.UserAccount.FullName+", '')")

	return fmt.Sprintf(`SELECT %s FROM %s r LEFT JOIN %s a ON a.%s = r.%s`,
		strings.Join(columns, ", "), table.Table, schema.UserAccount.Table, schema.UserAccount.ID, table.UserID)
}()

func scanRequest(row pgx.Row, extra ...any) (*Request, error) {
	request := &Request{}
	var (
		companyID  *string
		details    *string
		reviewedBy *string
	)

	dest := append([]any{
		&request.ID, &request.UserID, &companyID, &request.Type, &request.Status, &details,
		&request.StartDate, &request.EndDate, &request.Days, &reviewedBy, &request.ReviewedAt,
		&request.CreatedAt, &request.UpdatedAt, &request.RequesterName,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if companyID != nil {
		request.CompanyID = *companyID
	}
	if details != nil {
		request.Details = *details
	}
	if reviewedBy != nil {
		request.ReviewedBy = *reviewedBy
	}
	request.TypeLabel = request.Type.Label()

	return request, nil
}

/*
Create inserts a new request.

Description: The company column is copied from the requester's account so HR
filters keep working after the collaborator changes company.
*/
func (repository *PostgresRepository) Create(context context.Context, request *Request) error {
	table := schema.HRRequest
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, (SELECT %s FROM %s WHERE %s = $2), $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s`,
		table.Table,
		table.ID, table.UserID, table.CompanyID, table.Type, table.Status,
		table.Details, table.StartDate, table.EndDate, table.Days,
		schema.UserAccount.CompanyID, schema.UserAccount.Table, schema.UserAccount.ID,
		table.CompanyID, table.CreatedAt, table.UpdatedAt,
	)

	var companyID *string
	err := repository.pool.QueryRow(context, query,
		request.ID, request.UserID, request.Type, request.Status,
		request.Details, request.StartDate, request.EndDate, request.Days,
	).Scan(&companyID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_request")
	}

	if companyID != nil {
		request.CompanyID = *companyID
	}
	return nil
}

// FindByID retrieves a request by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Request, error) {
	query := selectRequest + fmt.Sprintf(` WHERE r.%s = $1`, schema.HRRequest.ID)

	request, err := scanRequest(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_request_by_id")
	}
	return request, nil
}

// List returns a filtered page of requests, newest first.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Request, int, error) {
	table := schema.HRRequest

	var queryBuilder strings.Builder
	queryBuilder.WriteString(strings.Replace(selectRequest, " FROM ", ", COUNT(*) OVER() AS total FROM ", 1))
	queryBuilder.WriteString(" WHERE TRUE")

	args := []any{}
	argID := 1
	where := func(clause string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(" AND "+clause, argID))
		args = append(args, value)
		argID++
	}

	if filter.UserID != "" {
		where("r."+table.UserID+" = $%d", filter.UserID)
	}
	if filter.CompanyID != "" {
		where("r."+table.CompanyID+" = $%d", filter.CompanyID)
	}
	if filter.ScopeUserID != "" {
		where(fmt.Sprintf("r.%s = (SELECT %s FROM %s WHERE %s = $%%d)",
			table.CompanyID, schema.UserAccount.CompanyID, schema.UserAccount.Table, schema.UserAccount.ID), filter.ScopeUserID)
	}
	if filter.Status != "" {
		where("r."+table.Status+" = $%d", string(filter.Status))
	}
	if filter.Type != "" {
		where("r."+table.Type+" = $%d", string(filter.Type))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY r.%s DESC LIMIT $%d OFFSET $%d", table.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_requests")
	}
	defer rows.Close()

	var requests []*Request
	var total int
	for rows.Next() {
		request, err := scanRequest(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_request")
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_requests")
	}

	return requests, total, nil
}

/*
UpdateStatus persists a review decision and the optional PTO debit atomically.

Description: The status update is conditional on the previous status so two
reviewers cannot both approve. The PTO debit is conditional on the remaining
balance.
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, request *Request, from Status, debitDays int) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "update_request_status_begin")
	}
	defer transaction.Rollback(context)

	table := schema.HRRequest
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s = $6`,
		table.Table, table.Status, table.ReviewedBy, table.ReviewedAt, table.UpdatedAt,
		table.ID, table.Status,
	)

	now := time.Now().UTC()
	tag, err := transaction.Exec(context, query,
		request.ID, string(request.Status), request.ReviewedBy, request.ReviewedAt, now, string(from))
	if err != nil {
		return dberr.Wrap(err, "update_request_status")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("The request was reviewed by someone else")
	}

	if debitDays > 0 {
		account := schema.UserAccount
		debit := fmt.Sprintf(`
			UPDATE %s SET %s = %s + $2, %s = $3
			WHERE %s = $1 AND %s - %s >= $2`,
			account.Table, account.PTOTaken, account.PTOTaken, account.UpdatedAt,
			account.ID, account.PTOTotal, account.PTOTaken,
		)

		tag, err = transaction.Exec(context, debit, request.UserID, debitDays, now)
		if err != nil {
			return dberr.Wrap(err, "debit_pto")
		}
		if tag.RowsAffected() == 0 {
			return apperr.Unprocessable("The collaborator does not have enough paid time off")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "update_request_status_commit")
	}

	request.UpdatedAt = now
	return nil
}
