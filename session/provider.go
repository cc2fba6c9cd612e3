package session

import (
	"context"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/zap"
)

// Provider resolves session tokens to the logged user. It implements
// repositories.SessionProvider.
type Provider struct {
	validator *Validator
	users     repositories.UsersRepository
	logger    *zap.Logger
}

// NewProvider creates a new session provider
func NewProvider(validator *Validator, users repositories.UsersRepository, logger *zap.Logger) *Provider {
	return &Provider{
		validator: validator,
		users:     users,
		logger:    logger,
	}
}

// Authenticate validates token and loads the user it names
func (p *Provider) Authenticate(ctx context.Context, token string) (*models.LoginDetails, error) {
	claims, err := p.validator.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := p.users.GetByID(ctx, claims.UserID)
	if err != nil {
		p.logger.Warn("session user lookup failed",
			zap.Int("user_id", claims.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return &models.LoginDetails{
		LoggedUser:     *user,
		CurrentEventID: claims.CurrentEventID,
	}, nil
}
