package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/midburn/spark-admin/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// InitSchema creates the admin tables when they are missing. Existing tables
// are left as they are.
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL DEFAULT '',
			last_name VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			event_id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			former_event_id VARCHAR(50),
			starts_at TIMESTAMP,
			ends_at TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS camps (
			id SERIAL PRIMARY KEY,
			__prototype VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			event_id VARCHAR(50) NOT NULL REFERENCES events(event_id),
			status VARCHAR(50) NOT NULL DEFAULT 'open',
			pre_sale_tickets_quota INTEGER NOT NULL DEFAULT 0 CHECK (pre_sale_tickets_quota >= 0),
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS camp_members (
			camp_id INTEGER NOT NULL REFERENCES camps(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			status VARCHAR(50) NOT NULL,
			PRIMARY KEY (camp_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS tickets (
			ticket_id SERIAL PRIMARY KEY,
			holder_id INTEGER NOT NULL REFERENCES users(user_id),
			event_id VARCHAR(50) NOT NULL REFERENCES events(event_id),
			ticket_status VARCHAR(50) NOT NULL,
			entrance_timestamp TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS allocations (
			id SERIAL PRIMARY KEY,
			camp_id INTEGER NOT NULL REFERENCES camps(id) ON DELETE CASCADE,
			allocated_to INTEGER NOT NULL REFERENCES users(user_id),
			allocation_type VARCHAR(50) NOT NULL,
			event_id VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS configurations (
			key VARCHAR(100) PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_camps_prototype_event ON camps(__prototype, event_id);
		CREATE INDEX IF NOT EXISTS idx_camp_members_user_id ON camp_members(user_id);
		CREATE INDEX IF NOT EXISTS idx_tickets_holder_event ON tickets(holder_id, event_id);
		CREATE INDEX IF NOT EXISTS idx_allocations_camp_id ON allocations(camp_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := db.InitAuditSchema(ctx); err != nil {
		return err
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

// InitAuditSchema creates the audits table (no foreign keys). It is used on
// its own for the separate audit database when DATABASE_URL_AUDIT is set.
func (db *DB) InitAuditSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS audits (
			id UUID PRIMARY KEY,
			type VARCHAR(100) NOT NULL,
			updated_by INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_audits_type_created_at ON audits(type, created_at DESC);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	db.logger.Debug("audit schema initialized")
	return nil
}
