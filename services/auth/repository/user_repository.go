package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	apperrors "github.com/go-auth-services/common/errors"
	"github.com/go-auth-services/services/auth/models"
)

// MySQL error number for unique constraint violations
const mysqlErrDuplicateEntry = 1062

// UserRepository handles user data access
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail finds a user by email. Returns (nil, nil) when no user exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, password_hash, created_at
		FROM Users
		WHERE email = ?
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("failed to query user: %w", err))
	}

	return &user, nil
}

// CreateUser inserts a new user row. The email column carries a unique
// constraint; a violation surfaces as DuplicateUser rather than being
// pre-checked, so concurrent registrations cannot race past the check.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	query := `
		INSERT INTO Users (email, password_hash)
		VALUES (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return 0, apperrors.DuplicateUser()
		}
		return 0, apperrors.StoreUnavailable(fmt.Errorf("failed to create user: %w", err))
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.StoreUnavailable(fmt.Errorf("failed to read insert id: %w", err))
	}

	return userID, nil
}

// UpdatePasswordByEmail overwrites the stored password hash for the user.
func (r *UserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	query := `
		UPDATE Users
		SET password_hash = ?
		WHERE email = ?
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("failed to update password: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.StoreUnavailable(fmt.Errorf("failed to read rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.UserNotFound()
	}

	return nil
}
