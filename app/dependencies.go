package app

import (
	"context"
	"fmt"

	"github.com/smontes/catalog-api/config"
	"github.com/smontes/catalog-api/handlers"
	"github.com/smontes/catalog-api/middleware"
	"github.com/smontes/catalog-api/repositories"
	"github.com/smontes/catalog-api/repositories/postgres"
	"github.com/smontes/catalog-api/token"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Users      repositories.UserRepository
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository

	// Token lifecycle
	Issuer    *token.Issuer
	Validator *token.Validator

	// HTTP layer
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	HealthHandler   *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
// A signing key that cannot be derived from the configured secret fails
// here, before any request is served.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	key, err := token.DeriveKey(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	deps.Issuer = token.NewIssuer(key, cfg.Auth.TokenTTL)
	deps.Validator = token.NewValidator(key)

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.Users = postgres.NewUserRepository(deps.DB, logger)
	deps.Products = postgres.NewProductRepository(deps.DB, logger)
	deps.Categories = postgres.NewCategoryRepository(deps.DB, logger)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.Validator, deps.Users, logger)
	deps.AuthHandler = handlers.NewAuthHandler(deps.Users, deps.Issuer, logger)
	deps.ProductHandler = handlers.NewProductHandler(deps.Products, logger)
	deps.CategoryHandler = handlers.NewCategoryHandler(deps.Categories, logger)
	deps.HealthHandler = handlers.NewHealthHandler(deps.DB, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection pool and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
