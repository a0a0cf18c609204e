// Package app builds the dependency graph and owns the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

// App holds the long-lived resources of a running server.
type App struct {
	cfg   *config.Config
	log   *zap.Logger
	echo  *echo.Echo
	db    *gorm.DB
	cache *cache.Client
}

// New connects storage, runs migrations and registers every route.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	// prices are rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return nil, err
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warn("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		_ = db.Close(gormDB)
		return nil, err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	accountRepo := repository.NewAccountRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(accountRepo, jwtService, log.Named("auth"))
	userService := service.NewUserService(accountRepo, cacheClient)
	productService := service.NewProductService(productRepo, cacheClient)

	e := echo.New()
	router.Register(e, router.Deps{
		Config:         cfg,
		Logger:         log,
		Verifier:       authService,
		Accounts:       userService,
		AuthHandler:    handler.NewAuthHandler(authService, cfg.AllowAdminRegistration),
		UserHandler:    handler.NewUserHandler(userService),
		ProductHandler: handler.NewProductHandler(productService),
	})

	return &App{cfg: cfg, log: log, echo: e, db: gormDB, cache: cacheClient}, nil
}

// Start blocks serving HTTP until the server is shut down.
func (a *App) Start() error {
	addr := ":" + a.cfg.ServerPort
	a.log.Info("server listening", zap.String("addr", addr), zap.String("env", a.cfg.Env))
	if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server start: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and releases storage connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := db.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close mysql: %w", err))
	}
	if err := a.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	return errors.Join(errs...)
}
