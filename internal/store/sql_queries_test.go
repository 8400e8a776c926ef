// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/care-coord/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mysqlBuilder    = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	postgresBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
)

func Test_buildSelectUserQuery_SelectsAllColumns(t *testing.T) {
	query, args, err := buildSelectUserQuery(mysqlBuilder, sq.Eq{"id": int64(1)})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1)}, args)

	q := strings.ToLower(query)
	require.True(t, strings.HasPrefix(q, "select "))
	require.Contains(t, q, "from users")
	require.Contains(t, q, "limit 1")
	for _, c := range userColumns {
		require.Contains(t, q, c)
	}
}

func Test_buildSelectUserQuery_Placeholders(t *testing.T) {
	tests := []struct {
		name    string
		builder sq.StatementBuilderType
		want    string
	}{
		{"mysql", mysqlBuilder, "WHERE email = ? AND is_active = ?"},
		{"postgres", postgresBuilder, "WHERE email = $1 AND is_active = $2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSelectUserQuery(tt.builder, sq.Eq{"email": "a@b.co", "is_active": true})
			require.NoError(t, err)
			assert.Contains(t, query, tt.want)
			assert.Equal(t, []any{"a@b.co", true}, args)
		})
	}
}

func Test_buildEmailTakenQuery(t *testing.T) {
	tests := []struct {
		name      string
		excludeID int64
		wantSQL   string
		wantArgs  []any
	}{
		{
			name:     "create checks every row",
			wantSQL:  "SELECT COUNT(*) FROM users WHERE (email = ?)",
			wantArgs: []any{"a@b.co"},
		},
		{
			name:      "update leaves the user itself out",
			excludeID: 7,
			wantSQL:   "SELECT COUNT(*) FROM users WHERE (email = ? AND id <> ?)",
			wantArgs:  []any{"a@b.co", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildEmailTakenQuery(mysqlBuilder, "a@b.co", tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildEmailTakenQuery_DoesNotFilterActive(t *testing.T) {
	query, _, err := buildEmailTakenQuery(mysqlBuilder, "a@b.co", 0)
	require.NoError(t, err)
	assert.NotContains(t, query, "is_active")
}

func Test_buildInsertUserQuery(t *testing.T) {
	phone := "+44 20 7946 0000"
	user := models.User{
		Email:              "a@b.co",
		PasswordHash:       "hash",
		FirstName:          "A",
		LastName:           "B",
		Phone:              &phone,
		Role:               models.RoleCoordinator,
		MustChangePassword: true,
		IsActive:           true,
	}

	query, args, err := buildInsertUserQuery(mysqlBuilder, user, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO users"))
	assert.NotContains(t, query, "RETURNING")
	require.Len(t, args, 10)
	assert.Equal(t, "coordinator", args[5])
	assert.Equal(t, true, args[6])

	query, _, err = buildInsertUserQuery(postgresBuilder, user, true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, "RETURNING id"))
	assert.Contains(t, query, "$10")
}

func Test_buildUpdateUserQuery_OnlyChangedFields(t *testing.T) {
	last := "Smith"
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildUpdateUserQuery(mysqlBuilder, models.UserUpdate{ID: 3, LastName: &last}, now)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET last_name = ?, updated_at = ? WHERE id = ? AND is_active = ?", query)
	assert.Equal(t, []any{"Smith", now, int64(3), true}, args)
}

func Test_buildDeactivateUserQuery(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := buildDeactivateUserQuery(postgresBuilder, 4, now)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET is_active = $1, updated_at = $2 WHERE id = $3 AND is_active = $4", query)
	assert.Equal(t, []any{false, now, int64(4), true}, args)
}
