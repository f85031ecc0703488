package repository

import (
	"context"
	"errors"
	"fmt"

	"address_book/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, first_name, last_name, email, password_hash, role, reset_token, reset_token_expiry, created_at"

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (first_name, last_name, email, password_hash, role, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := r.db.QueryRow(ctx, sql, email).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.Role, &user.ResetToken, &user.ResetTokenExpiry, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found is not an error for this method's contract, service layer handles it
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.Role, &user.ResetToken, &user.ResetTokenExpiry, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByResetToken retrieves a user whose stored reset token matches and
// has not expired. An expired-but-matching token yields no rows.
func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_token_expiry > NOW()`
	err := r.db.QueryRow(ctx, sql, token).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.Role, &user.ResetToken, &user.ResetTokenExpiry, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No valid token
		}
		return nil, fmt.Errorf("failed to find user by reset token: %w", err)
	}
	return user, nil
}

// Save persists the mutable credential fields of an existing user
func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	sql := `UPDATE users SET password_hash = $1, reset_token = $2, reset_token_expiry = $3 WHERE id = $4`
	cmdTag, err := r.db.Exec(ctx, sql, user.PasswordHash, user.ResetToken, user.ResetTokenExpiry, user.ID)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found for save")
	}
	return nil
}
