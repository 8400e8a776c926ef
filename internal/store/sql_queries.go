// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	"github.com/MKhiriev/care-coord/models"
	sq "github.com/Masterminds/squirrel"
)

const usersTable = "users"

// userColumns lists the columns scanned into [models.User], in db tag order.
var userColumns = []string{
	"id",
	"email",
	"password_hash",
	"first_name",
	"last_name",
	"phone",
	"role",
	"must_change_password",
	"is_active",
	"last_login",
	"created_at",
	"updated_at",
}

// buildSelectUserQuery selects a single user matching where.
func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Sqlizer) (string, []any, error) {
	query, args, err := b.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListActiveUsersQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"is_active": true}).
		OrderBy("last_name", "first_name", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildEmailTakenQuery counts rows holding email, active or not. A non-zero
// excludeID leaves that row out so a user can keep its own email on update.
func buildEmailTakenQuery(b sq.StatementBuilderType, email string, excludeID int64) (string, []any, error) {
	where := sq.And{sq.Eq{"email": email}}
	if excludeID != 0 {
		where = append(where, sq.NotEq{"id": excludeID})
	}

	query, args, err := b.Select("COUNT(*)").
		From(usersTable).
		Where(where).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildInsertUserQuery inserts user. With returning set the statement ends
// in "RETURNING id" for dialects without LastInsertId support.
func buildInsertUserQuery(b sq.StatementBuilderType, user models.User, returning bool) (string, []any, error) {
	insert := b.Insert(usersTable).
		Columns(
			"email",
			"password_hash",
			"first_name",
			"last_name",
			"phone",
			"role",
			"must_change_password",
			"is_active",
			"created_at",
			"updated_at",
		).
		Values(
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
			string(user.Role),
			user.MustChangePassword,
			user.IsActive,
			user.CreatedAt,
			user.UpdatedAt,
		)
	if returning {
		insert = insert.Suffix("RETURNING id")
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateUserQuery writes the non-nil fields of update to an active row.
func buildUpdateUserQuery(b sq.StatementBuilderType, update models.UserUpdate, now time.Time) (string, []any, error) {
	query := b.Update(usersTable)

	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.FirstName != nil {
		query = query.Set("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		query = query.Set("last_name", *update.LastName)
	}
	if update.Phone != nil {
		query = query.Set("phone", *update.Phone)
	}
	if update.Role != nil {
		query = query.Set("role", string(*update.Role))
	}

	sqlQuery, args, err := query.
		Set("updated_at", now).
		Where(sq.Eq{"id": update.ID, "is_active": true}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlQuery, args, nil
}

func buildUpdatePasswordQuery(b sq.StatementBuilderType, id int64, passwordHash string, mustChangePassword bool, now time.Time) (string, []any, error) {
	query, args, err := b.Update(usersTable).
		Set("password_hash", passwordHash).
		Set("must_change_password", mustChangePassword).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateLastLoginQuery(b sq.StatementBuilderType, id int64, at time.Time) (string, []any, error) {
	query, args, err := b.Update(usersTable).
		Set("last_login", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeactivateUserQuery(b sq.StatementBuilderType, id int64, now time.Time) (string, []any, error) {
	query, args, err := b.Update(usersTable).
		Set("is_active", false).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
