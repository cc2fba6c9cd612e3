package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/midburn/spark-admin/config"
	"github.com/midburn/spark-admin/handlers"
	"github.com/midburn/spark-admin/middleware"
	"github.com/midburn/spark-admin/repositories"
	"github.com/midburn/spark-admin/repositories/postgres"
	"github.com/midburn/spark-admin/services/aggregation"
	"github.com/midburn/spark-admin/services/allocations"
	"github.com/midburn/spark-admin/services/audit"
	"github.com/midburn/spark-admin/services/bootstrap"
	"github.com/midburn/spark-admin/session"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Services
	Sessions     *session.Provider
	AuditTrail   *audit.Trail
	Bootstrapper *bootstrap.Bootstrapper
	PresaleAdmin *allocations.PresaleAdmin
	DGSAdmin     *allocations.DGSAdmin

	// HTTP
	AuthMiddleware     *middleware.AuthMiddleware
	HealthHandler      *handlers.HealthHandler
	AuthHandler        *handlers.AuthHandler
	BootstrapHandler   *handlers.BootstrapHandler
	AllocationsHandler *handlers.AllocationsHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize services
	deps.initServices(cfg)

	// Initialize HTTP layer
	deps.initHTTP(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initServices wires the session provider, the audit trail and the admin services
func (d *Dependencies) initServices(cfg *config.Config) {
	if cfg.Session.JWTKey == "" {
		d.Logger.Warn("JWT_KEY not set, every session token will be rejected")
	}

	validator := session.NewValidator(session.Config{
		Key:    cfg.Session.JWTKey,
		Issuer: cfg.Session.Issuer,
		Leeway: cfg.Session.Leeway,
	})
	d.Sessions = session.NewProvider(validator, d.Repos.Users, d.Logger.Named("session"))
	d.AuditTrail = audit.NewTrail(d.Repos.Audits, d.Repos.Users, d.Logger.Named("audit"))

	newCoordinator := d.coordinatorFactory(cfg.Aggregation)

	d.Bootstrapper = bootstrap.NewBootstrapper(
		d.Repos.Configurations,
		d.Sessions,
		d.Repos.Groups,
		d.Repos.Events,
		newCoordinator,
		bootstrap.Config{
			Events:       cfg.Events,
			FetchTimeout: cfg.Aggregation.FetchTimeout,
		},
		d.Logger.Named("bootstrap"),
	)
	d.PresaleAdmin = allocations.NewPresaleAdmin(d.Repos.Groups, d.AuditTrail, newCoordinator, d.Logger.Named("presale"))
	d.DGSAdmin = allocations.NewDGSAdmin(d.Repos.Groups, newCoordinator, d.Logger.Named("dgs"))

	d.Logger.Info("services initialized",
		zap.Duration("fetch_timeout", cfg.Aggregation.FetchTimeout),
		zap.Int("aggregation_concurrency", cfg.Aggregation.Concurrency))
}

// coordinatorFactory returns a constructor for per-view aggregation coordinators
func (d *Dependencies) coordinatorFactory(cfg config.AggregationConfig) func() *aggregation.Coordinator {
	logger := d.Logger.Named("aggregation")
	return func() *aggregation.Coordinator {
		metrics := aggregation.NewAggregator(d.Repos.Groups, cfg.FetchTimeout, logger)
		return aggregation.NewCoordinator(metrics, d.Repos.Allocations, cfg.Concurrency, logger)
	}
}

// initHTTP wires middleware and handlers
func (d *Dependencies) initHTTP(cfg *config.Config) {
	loginURL := cfg.Session.LoginURL

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Bootstrapper, cfg.Session.CookieName, loginURL, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.HealthDatabases(), d.Logger)
	d.AuthHandler = handlers.NewAuthHandler(cfg.Session, d.Bootstrapper, d.Logger, d.Bootstrapper, d.PresaleAdmin, d.DGSAdmin)
	d.BootstrapHandler = handlers.NewBootstrapHandler(d.Bootstrapper, cfg.Session.CookieName, loginURL, d.Logger)
	d.AllocationsHandler = handlers.NewAllocationsHandler(d.PresaleAdmin, d.DGSAdmin, loginURL, d.Logger)
}

// HealthDatabases names the connections checked by the readiness probe
func (d *Dependencies) HealthDatabases() map[string]*sql.DB {
	if d.RepoFactory == nil {
		return map[string]*sql.DB{}
	}
	return d.RepoFactory.Databases()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var err error

	// Close database connection
	if d.RepoFactory != nil {
		if closeErr := d.RepoFactory.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close database: %w", closeErr))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if err != nil {
		return fmt.Errorf("errors during shutdown: %w", err)
	}

	return nil
}
