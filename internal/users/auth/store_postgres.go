// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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
	"github.com/taibuivan/collabconnect/internal/platform/sec"
	"github.com/taibuivan/collabconnect/internal/session"
)

// PostgresUserRepository stores accounts in users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// SelectUserColumns is the projection scanned by [ScanUser].
var SelectUserColumns = strings.Join(schema.UserAccount.Profile(), ", ")

/*
ScanUser hydrates a [User] from a row selected with [SelectUserColumns].

Parameters:
  - row: pgx.Row

Returns:
  - *User
  - error: pgx.ErrNoRows or scan failures, unclassified
*/
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var companyID *string
	var role string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&role,
		&user.JobTitle,
		&companyID,
		&user.CompanyName,
		&user.Department,
		&user.Leader,
		&user.StartDate,
		&user.AvatarURL,
		&user.PTOTotal,
		&user.PTOTaken,
		&user.Skills,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if companyID != nil {
		user.CompanyID = *companyID
	}
	user.Role = sec.ParseRole(role)
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Timestamps are initialized when missing. A duplicate email
surfaces as ACCOUNT_EXISTS.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.AccountExists or classified storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11, $12, $13, $14, $15)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.FullName, schema.UserAccount.Role, schema.UserAccount.JobTitle,
		schema.UserAccount.CompanyID, schema.UserAccount.CompanyName, schema.UserAccount.Department,
		schema.UserAccount.Leader, schema.UserAccount.StartDate, schema.UserAccount.PTOTotal,
		schema.UserAccount.Skills, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if user.Skills == nil {
		user.Skills = []string{}
	}

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		string(user.Role),
		user.JobTitle,
		user.CompanyID,
		user.CompanyName,
		user.Department,
		user.Leader,
		user.StartDate,
		user.PTOTotal,
		user.Skills,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.AccountExists()
		}
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}

	return nil
}

// FindByEmail expects the normalised form produced at registration.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findLive(context, schema.UserAccount.Email, email, "postgres_user_repo_find_by_email_failed")
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findLive(context, schema.UserAccount.ID, id, "postgres_user_repo_find_by_id_failed")
}

// findLive loads the account whose column equals value, skipping soft-deleted rows.
func (repository *PostgresUserRepository) findLive(context context.Context, column, value, action string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		SelectUserColumns, schema.UserAccount.Table, column, schema.UserAccount.DeletedAt,
	)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

// UpdatePassword returns apperr.NotFound when no live account matched.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_password_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// TouchLogin stamps lastloginat.
func (repository *PostgresUserRepository) TouchLogin(context context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID,
	)

	if _, err := repository.pool.Exec(context, query, userID, at); err != nil {
		return dberr.Wrap(err, "postgres_user_repo_touch_login_failed")
	}
	return nil
}

// PostgresSessionAuditRepository keeps the login history in users.session.
type PostgresSessionAuditRepository struct {
	pool *pgxpool.Pool
}

func NewSessionAuditRepository(pool *pgxpool.Pool) *PostgresSessionAuditRepository {
	return &PostgresSessionAuditRepository{pool: pool}
}

// Create inserts an open audit row.
func (repository *PostgresSessionAuditRepository) Create(context context.Context, record *LoginRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.UserSession.Table,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.IPAddress,
		schema.UserSession.UserAgent, schema.UserSession.CreatedAt,
	)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := repository.pool.Exec(context, query,
		record.ID, record.UserID, record.IPAddress, record.UserAgent, record.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_session_audit_create_failed")
	}

	return nil
}

/*
RecordEnd closes the audit row of a session.

Description: Only the first end is kept. Closing an unknown or already closed
session is a no-op, so logout and timeout may race freely.

Parameters:
  - context: context.Context
  - sessionID: string
  - reason: session.EndReason

Returns:
  - error: Classified storage errors
*/
func (repository *PostgresSessionAuditRepository) RecordEnd(context context.Context, sessionID string, reason session.EndReason) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 AND %s IS NULL`,
		schema.UserSession.Table,
		schema.UserSession.EndedAt, schema.UserSession.EndReason,
		schema.UserSession.ID, schema.UserSession.EndedAt,
	)

	if _, err := repository.pool.Exec(context, query, sessionID, time.Now().UTC(), string(reason)); err != nil {
		return dberr.Wrap(err, "postgres_session_audit_end_failed")
	}

	return nil
}

// ListByUser returns the newest audit rows of a user.
func (repository *PostgresSessionAuditRepository) ListByUser(context context.Context, userID string, limit int) ([]*LoginRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, COALESCE(%s, '')
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2`,
		schema.UserSession.ID, schema.UserSession.UserID, schema.UserSession.IPAddress,
		schema.UserSession.UserAgent, schema.UserSession.CreatedAt, schema.UserSession.EndedAt,
		schema.UserSession.EndReason,
		schema.UserSession.Table,
		schema.UserSession.UserID,
		schema.UserSession.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_audit_list_failed")
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*LoginRecord, error) {
		record := &LoginRecord{}
		err := row.Scan(
			&record.ID, &record.UserID, &record.IPAddress, &record.UserAgent,
			&record.CreatedAt, &record.EndedAt, &record.EndReason,
		)
		return record, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_audit_list_failed")
	}

	return records, nil
}

// ListOpen returns IDs of sessions of a user that have not ended.
func (repository *PostgresSessionAuditRepository) ListOpen(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		schema.UserSession.ID, schema.UserSession.Table,
		schema.UserSession.UserID, schema.UserSession.EndedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_audit_list_open_failed")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_audit_list_open_failed")
	}

	return ids, nil
}
