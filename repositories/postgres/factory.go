package postgres

import (
	"context"
	"database/sql"

	"github.com/midburn/spark-admin/config"
	"github.com/midburn/spark-admin/repositories"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db      *DB
	auditDB *DB // Optional: separate DB for audit records
	logger  *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	f := &RepositoryFactory{db: db, logger: logger}

	if cfg.AuditDatabase != nil {
		auditDB, err := NewDB(*cfg.AuditDatabase, logger.With(zap.String("database", "audit")))
		if err != nil {
			db.Close()
			return nil, err
		}
		f.auditDB = auditDB
	}

	return f, nil
}

// InitSchema creates missing tables on the main database and, when set, the
// separate audit database
func (f *RepositoryFactory) InitSchema(ctx context.Context) error {
	if err := f.db.InitSchema(ctx); err != nil {
		return err
	}
	if f.auditDB != nil {
		return f.auditDB.InitAuditSchema(ctx)
	}
	return nil
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	auditDB := f.db
	if f.auditDB != nil {
		auditDB = f.auditDB
	}
	return &repositories.Repositories{
		Configurations: NewConfigurationRepository(f.db, f.logger),
		Groups:         NewGroupRepository(f.db, f.GetTransactionManager(), f.logger),
		Events:         NewEventRepository(f.db, f.logger),
		Allocations:    NewAllocationRepository(f.db, f.logger),
		Audits:         NewAuditRepository(auditDB, f.logger),
		Users:          NewUserRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Databases names every open connection pool, for readiness probes
func (f *RepositoryFactory) Databases() map[string]*sql.DB {
	dbs := map[string]*sql.DB{"database": f.db.DB}
	if f.auditDB != nil {
		dbs["audit_database"] = f.auditDB.DB
	}
	return dbs
}

// Close closes the main and, when set, the audit connection pools
func (f *RepositoryFactory) Close() error {
	var err error
	if f.auditDB != nil {
		err = multierr.Append(err, f.auditDB.Close())
	}
	return multierr.Append(err, f.db.Close())
}
