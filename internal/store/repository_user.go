package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/MKhiriev/care-coord/models"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// userRepository is the SQL implementation of [UserRepository] for both
// MySQL and PostgreSQL. Queries are built with squirrel using the placeholder
// format of the connected dialect and scanned with sqlx.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateUser checks email availability and inserts the row inside one
// transaction. The unique index on users.email backs the check, so a
// concurrent insert that wins the race still ends in [ErrEmailAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to begin transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = r.ensureEmailAvailable(ctx, tx, user.Email, 0); err != nil {
		return models.User{}, err
	}

	id, err := r.insertUser(ctx, tx, user)
	if err != nil {
		return models.User{}, err
	}

	created, err := r.findUser(ctx, tx, sq.Eq{"id": id})
	if err != nil {
		return models.User{}, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("failed to commit transaction")
		return models.User{}, r.wrapWriteError(err, ErrCommitingTransaction)
	}

	log.Info().Str("func", "*userRepository.CreateUser").Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (r *userRepository) insertUser(ctx context.Context, tx *sqlx.Tx, user models.User) (int64, error) {
	log := logger.FromContext(ctx)

	returning := r.db.dialect == DialectPostgres
	query, args, err := buildInsertUserQuery(r.db.builder(), user, returning)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.insertUser").Msg("error building insert query")
		return 0, err
	}

	if returning {
		var id int64
		if err = tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			log.Err(err).Str("func", "*userRepository.insertUser").Msg("error inserting user")
			return 0, r.wrapWriteError(err, ErrExecutingQuery)
		}
		return id, nil
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.insertUser").Msg("error inserting user")
		return 0, r.wrapWriteError(err, ErrExecutingQuery)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading inserted id: %w", ErrExecutingQuery, err)
	}
	return id, nil
}

// FindActiveUserByEmail implements [UserRepository].
func (r *userRepository) FindActiveUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, r.db, sq.Eq{"email": email, "is_active": true})
}

// FindUserByEmail implements [UserRepository].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, r.db, sq.Eq{"email": email})
}

// FindActiveUserByID implements [UserRepository].
func (r *userRepository) FindActiveUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findUser(ctx, r.db, sq.Eq{"id": id, "is_active": true})
}

// ListActiveUsers implements [UserRepository].
func (r *userRepository) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListActiveUsersQuery(r.db.builder())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListActiveUsers").Msg("error building query")
		return nil, err
	}

	users := make([]models.User, 0)
	if err = r.db.SelectContext(ctx, &users, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.ListActiveUsers").Msg("error selecting users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return users, nil
}

// UpdateUser implements [UserRepository]. A changed email is checked against
// all other rows in the same transaction as the update.
func (r *userRepository) UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("failed to begin transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if update.Email != nil {
		if err = r.ensureEmailAvailable(ctx, tx, *update.Email, update.ID); err != nil {
			return models.User{}, err
		}
	}

	query, args, err := buildUpdateUserQuery(r.db.builder(), update, r.now())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error building query")
		return models.User{}, err
	}

	if err = r.execAffectingOne(ctx, tx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", update.ID).Msg("error updating user")
		return models.User{}, err
	}

	updated, err := r.findUser(ctx, tx, sq.Eq{"id": update.ID})
	if err != nil {
		return models.User{}, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("failed to commit transaction")
		return models.User{}, r.wrapWriteError(err, ErrCommitingTransaction)
	}

	return updated, nil
}

// UpdatePassword implements [UserRepository].
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChangePassword bool) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdatePasswordQuery(r.db.builder(), id, passwordHash, mustChangePassword, r.now())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Msg("error building query")
		return err
	}

	if err = r.execAffectingOne(ctx, r.db, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Int64("user_id", id).Msg("error updating password")
		return err
	}

	return nil
}

// UpdateLastLogin implements [UserRepository].
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateLastLoginQuery(r.db.builder(), id, at.UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateLastLogin").Msg("error building query")
		return err
	}

	if err = r.execAffectingOne(ctx, r.db, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateLastLogin").Int64("user_id", id).Msg("error updating last login")
		return err
	}

	return nil
}

// Deactivate implements [UserRepository]. Deactivating an inactive or
// missing user fails with [ErrUserNotFound].
func (r *userRepository) Deactivate(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeactivateUserQuery(r.db.builder(), id, r.now())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Deactivate").Msg("error building query")
		return err
	}

	if err = r.execAffectingOne(ctx, r.db, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.Deactivate").Int64("user_id", id).Msg("error deactivating user")
		return err
	}

	log.Info().Str("func", "*userRepository.Deactivate").Int64("user_id", id).Msg("user deactivated")
	return nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *userRepository) findUser(ctx context.Context, q queryer, where sq.Sqlizer) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserQuery(r.db.builder(), where)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error building query")
		return models.User{}, err
	}

	var user models.User
	if err = q.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error selecting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

func (r *userRepository) ensureEmailAvailable(ctx context.Context, q queryer, email string, excludeID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildEmailTakenQuery(r.db.builder(), email, excludeID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ensureEmailAvailable").Msg("error building query")
		return err
	}

	var count int
	if err = q.GetContext(ctx, &count, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.ensureEmailAvailable").Msg("error checking email")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if count > 0 {
		return ErrEmailAlreadyExists
	}

	return nil
}

// execAffectingOne runs an UPDATE that must match exactly one row.
func (r *userRepository) execAffectingOne(ctx context.Context, q queryer, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return r.wrapWriteError(err, ErrExecutingQuery)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// wrapWriteError maps duplicate keys onto [ErrEmailAlreadyExists] (email is
// the only unique column besides the key) and wraps everything else in
// fallback.
func (r *userRepository) wrapWriteError(err error, fallback error) error {
	switch class := r.db.classify(err); class {
	case UniqueViolation:
		return ErrEmailAlreadyExists
	case Transient:
		r.logger.Warn().Err(err).Str("class", class.String()).Msg("transient database error")
		return fmt.Errorf("%w: %w", fallback, err)
	default:
		return fmt.Errorf("%w: %w", fallback, err)
	}
}
