package postgres

import (
	"context"
	"fmt"

	"github.com/midburn/spark-admin/models"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/zap"
)

// ConfigurationRepository implements the repositories.ConfigurationProvider interface
type ConfigurationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewConfigurationRepository creates a new configuration repository
func NewConfigurationRepository(db *DB, logger *zap.Logger) repositories.ConfigurationProvider {
	return &ConfigurationRepository{
		db:     db,
		logger: logger,
	}
}

// GetConfigurations loads every key/value row. An empty table yields an
// empty configuration.
func (r *ConfigurationRepository) GetConfigurations(ctx context.Context) (*models.Configuration, error) {
	query := `SELECT key, value FROM configurations`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query configurations: %w", err)
	}
	defer rows.Close()

	cfg := models.NewConfiguration()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan configuration: %w", err)
		}
		cfg.Values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating configurations: %w", err)
	}

	return cfg, nil
}
