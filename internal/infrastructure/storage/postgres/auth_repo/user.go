// Package auth_repo provides the PostgreSQL implementation of the analyst
// account repository. TxManager is obtained from context per-request.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
	"stockgap/internal/domain/auth"
	"stockgap/internal/infrastructure/storage/postgres"
)

const usersTable = "auth_users"

// UserRepo implements auth.UserRepository.
type UserRepo struct{}

// NewUserRepo creates a new user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// getTxManager retrieves TxManager from context.
func (r *UserRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

const userCols = `id, email, password_hash, full_name,
		is_active, is_admin, last_login_at, failed_login_attempts,
		locked_until, created_at, updated_at`

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `
		INSERT INTO ` + usersTable + ` (
			id, email, password_hash, full_name,
			is_active, is_admin, last_login_at, failed_login_attempts,
			locked_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
		user.IsActive, user.IsAdmin, user.LastLoginAt, user.FailedLoginAttempts,
		user.LockedUntil, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `SELECT ` + userCols + ` FROM ` + usersTable + ` WHERE id = $1`

	user, err := r.scanUser(q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `SELECT ` + userCols + ` FROM ` + usersTable + ` WHERE email = $1`

	user, err := r.scanUser(q.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return user, nil
}

// Exists reports whether an email is already registered.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	var exists int
	err := q.QueryRow(ctx, `SELECT 1 FROM `+usersTable+` WHERE email = $1 LIMIT 1`, email).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}

	return true, nil
}

// Update persists login bookkeeping.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.getTxManager(ctx).GetQuerier(ctx)

	query := `
		UPDATE ` + usersTable + ` SET
			email = $2, password_hash = $3, full_name = $4,
			is_active = $5, is_admin = $6, last_login_at = $7,
			failed_login_attempts = $8, locked_until = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName,
		user.IsActive, user.IsAdmin, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}

	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*auth.User, error) {
	var user auth.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.IsAdmin, &user.LastLoginAt, &user.FailedLoginAttempts,
		&user.LockedUntil, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Ensure interface compliance.
var _ auth.UserRepository = (*UserRepo)(nil)
