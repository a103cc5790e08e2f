// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/collabconnect/internal/platform/apperr"
	"github.com/taibuivan/collabconnect/internal/platform/database/schema"
	"github.com/taibuivan/collabconnect/internal/platform/dberr"
	"github.com/taibuivan/collabconnect/internal/users/auth"
	"github.com/taibuivan/collabconnect/pkg/pagination"
)

// # Definitions & Constructors

// PostgresAccountRepository implements AccountRepository.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// # AccountRepository Methods

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or classified storage errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		auth.SelectUserColumns, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_account_repo_find_by_id_failed")
	}

	return user, nil
}

/*
UpdateProfile modifies the self-service profile fields.

Description: Syncs FullName, AvatarURL and Skills, refreshing updatedat.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.FullName, schema.UserAccount.AvatarURL, schema.UserAccount.Skills,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user.UpdatedAt = time.Now().UTC()
	return repository.exec(context, "postgres_account_repo_update_profile_failed", query,
		user.ID, user.FullName, user.AvatarURL, user.Skills, user.UpdatedAt,
	)
}

// UpdateEmployment modifies the HR-managed employment fields.
func (repository *PostgresAccountRepository) UpdateEmployment(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.Department, schema.UserAccount.Leader, schema.UserAccount.PTOTotal,
		schema.UserAccount.PTOTaken, schema.UserAccount.StartDate, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user.UpdatedAt = time.Now().UTC()
	return repository.exec(context, "postgres_account_repo_update_employment_failed", query,
		user.ID, user.Department, user.Leader, user.PTOTotal, user.PTOTaken, user.StartDate, user.UpdatedAt,
	)
}

// SoftDelete flags a user account as logically destroyed.
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)
	return repository.exec(context, "postgres_account_repo_soft_delete_failed", query, id)
}

/*
List returns one page of the employee directory.

Description: Filters are optional and combined with AND. Query matches the
full name or the email, case-insensitively.

Parameters:
  - context: context.Context
  - filter: EmployeeFilter
  - page: pagination.Params

Returns:
  - []*auth.User: Page ordered by full name
  - int: Total matching rows
  - error: Classified storage errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter EmployeeFilter, page pagination.Params) ([]*auth.User, int, error) {
	conditions := []string{fmt.Sprintf("%s IS NULL", schema.UserAccount.DeletedAt)}
	args := []any{}

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.UserAccount.CompanyID, len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.UserAccount.Role, len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)",
			schema.UserAccount.FullName, len(args), schema.UserAccount.Email, len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.UserAccount.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_count_failed")
	}

	listArgs := append(append([]any{}, args...), page.Limit, page.Offset())
	listQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		auth.SelectUserColumns, schema.UserAccount.Table, where,
		schema.UserAccount.FullName, len(args)+1, len(args)+2,
	)

	rows, err := repository.pool.Query(context, listQuery, listArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_list_failed")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, page.Limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_account_repo_scan_failed")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_account_repo_rows_failed")
	}

	return users, total, nil
}

// exec runs a single-row mutation and maps "no row touched" to NotFound.
func (repository *PostgresAccountRepository) exec(context context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}
	return nil
}
