package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/models"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestUserRepo(t *testing.T, dialect Dialect) (*userRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var classifier ErrorClassificator = NewMySQLErrorClassifier()
	if dialect == DialectPostgres {
		classifier = NewPostgresErrorClassifier()
	}

	l := logger.Nop()
	repo := &userRepository{
		db: &DB{
			DB:                 sqlx.NewDb(db, "sqlmock"),
			dialect:            dialect,
			errorClassificator: classifier,
			logger:             l,
		},
		logger: l,
		now:    func() time.Time { return fixedNow },
	}
	return repo, mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns)
}

func addUserRow(rows *sqlmock.Rows, id int64, email string, role models.Role, active bool) *sqlmock.Rows {
	return rows.AddRow(id, email, "$2a$04$hash", "Jane", "Doe", nil, string(role), false, active, nil, fixedNow, fixedNow)
}

func newWorker() models.User {
	return models.User{
		Email:        "jane@carecompany.com",
		PasswordHash: "$2a$04$hash",
		FirstName:    "Jane",
		LastName:     "Doe",
		Role:         models.RoleCarer,
		IsActive:     true,
	}
}

func TestCreateUser_MySQL_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)
	user := newWorker()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(email = \?\)`).
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO users \(email,password_hash,first_name,last_name,phone,role,must_change_password,is_active,created_at,updated_at\) VALUES \(\?,\?,\?,\?,\?,\?,\?,\?,\?,\?\)`).
		WithArgs(user.Email, user.PasswordHash, "Jane", "Doe", nil, "carer", false, true, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \? LIMIT 1`).
		WithArgs(int64(5)).
		WillReturnRows(addUserRow(userRows(), 5, user.Email, models.RoleCarer, true))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, user.Email, created.Email)
	assert.Equal(t, models.RoleCarer, created.Role)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_Postgres_UsesReturning(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)
	user := newWorker()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(email = \$1\)`).
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO users (.+) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10\) RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1 LIMIT 1`).
		WithArgs(int64(9)).
		WillReturnRows(addUserRow(userRows(), 9, user.Email, models.RoleCarer, true))
	mock.ExpectCommit()

	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_EmailTaken(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), newWorker())
	require.ErrorIs(t, err, ErrEmailAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolationOnInsert(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		insert  func(mock sqlmock.Sqlmock)
	}{
		{
			name:    "mysql duplicate entry",
			dialect: DialectMySQL,
			insert: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
		},
		{
			name:    "postgres unique violation",
			dialect: DialectPostgres,
			insert: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestUserRepo(t, tt.dialect)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			tt.insert(mock)
			mock.ExpectRollback()

			_, err := repo.CreateUser(context.Background(), newWorker())
			require.ErrorIs(t, err, ErrEmailAlreadyExists)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUser_BeginError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := repo.CreateUser(context.Background(), newWorker())
	require.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestCreateUser_UnexpectedInsertError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db network error"))
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), newWorker())
	require.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestFindActiveUserByEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \? AND is_active = \? LIMIT 1`).
		WithArgs("admin@carecompany.com", true).
		WillReturnRows(addUserRow(userRows(), 1, "admin@carecompany.com", models.RoleAdmin, true))

	user, err := repo.FindActiveUserByEmail(context.Background(), "admin@carecompany.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "$2a$04$hash", user.PasswordHash)
}

func TestFindActiveUserByEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectQuery(`SELECT (.+) FROM users`).WillReturnRows(userRows())

	_, err := repo.FindActiveUserByEmail(context.Background(), "ghost@carecompany.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUserByEmail_IgnoresActiveFlag(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \? LIMIT 1`).
		WithArgs("old@carecompany.com").
		WillReturnRows(addUserRow(userRows(), 3, "old@carecompany.com", models.RoleTrainee, false))

	user, err := repo.FindUserByEmail(context.Background(), "old@carecompany.com")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestFindActiveUserByID_DBError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \? AND is_active = \?`).
		WithArgs(int64(4), true).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindActiveUserByID(context.Background(), 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestListActiveUsers(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	rows := userRows()
	addUserRow(rows, 1, "a@carecompany.com", models.RoleAdmin, true)
	addUserRow(rows, 2, "b@carecompany.com", models.RoleCarer, true)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE is_active = \? ORDER BY last_name, first_name, id`).
		WithArgs(true).
		WillReturnRows(rows)

	users, err := repo.ListActiveUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleCarer, users[1].Role)
}

func TestListActiveUsers_Empty(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectQuery(`SELECT (.+) FROM users`).WillReturnRows(userRows())

	users, err := repo.ListActiveUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUpdateUser_WithEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	email := "new@carecompany.com"
	role := models.RoleSeniorCarer
	update := models.UserUpdate{ID: 2, Email: &email, Role: &role}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(email = \? AND id <> \?\)`).
		WithArgs(email, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE users SET email = \?, role = \?, updated_at = \? WHERE id = \? AND is_active = \?`).
		WithArgs(email, "senior_carer", fixedNow, int64(2), true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \? LIMIT 1`).
		WithArgs(int64(2)).
		WillReturnRows(addUserRow(userRows(), 2, email, role, true))
	mock.ExpectCommit()

	updated, err := repo.UpdateUser(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, role, updated.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	first := "Ann"
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET first_name = \?, updated_at = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateUser(context.Background(), models.UserUpdate{ID: 99, FirstName: &first})
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectPostgres)

	mock.ExpectExec(`UPDATE users SET password_hash = \$1, must_change_password = \$2, updated_at = \$3 WHERE id = \$4 AND is_active = \$5`).
		WithArgs("$2a$04$new", true, fixedNow, int64(3), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 3, "$2a$04$new", true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword_InactiveOrMissing(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectExec(`UPDATE users SET password_hash`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), 3, "$2a$04$new", false)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	mock.ExpectExec(`UPDATE users SET last_login = \? WHERE id = \?`).
		WithArgs(at.UTC(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 1, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectExec(`UPDATE users SET is_active = \?, updated_at = \? WHERE id = \? AND is_active = \?`).
		WithArgs(false, fixedNow, int64(6), true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 6))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_AlreadyInactive(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectExec(`UPDATE users SET is_active`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Deactivate(context.Background(), 6), ErrUserNotFound)
}

func TestDeactivate_TransientError(t *testing.T) {
	repo, mock := newTestUserRepo(t, DialectMySQL)

	mock.ExpectExec(`UPDATE users SET is_active`).WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"})

	err := repo.Deactivate(context.Background(), 6)
	require.ErrorIs(t, err, ErrExecutingQuery)
}
