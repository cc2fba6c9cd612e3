package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/services"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UsersRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UsersRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT user_id, email, first_name, last_name, created_at
		FROM users
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	user := &models.User{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.WrapError(services.ErrorTypeNotFound, fmt.Sprintf("user not found: %d", id), err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserNameByID retrieves the display name of a user
func (r *UserRepository) GetUserNameByID(ctx context.Context, id int) (*models.UserName, error) {
	query := `
		SELECT user_id, TRIM(first_name || ' ' || last_name)
		FROM users
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	name := &models.UserName{}

	if err := executor.QueryRowContext(ctx, query, id).Scan(&name.ID, &name.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.WrapError(services.ErrorTypeNotFound, fmt.Sprintf("user not found: %d", id), err)
		}
		return nil, fmt.Errorf("failed to get user name: %w", err)
	}

	return name, nil
}
