// @title                       Storefront API
// @version                     1.0
// @description                 Mobile top-up storefront: catalog, credit orders and admin settlement.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/mmtopup/storefront/internal/api"
	"github.com/mmtopup/storefront/internal/core/gate"
	"github.com/mmtopup/storefront/internal/core/ports"
	"github.com/mmtopup/storefront/internal/core/service"
	"github.com/mmtopup/storefront/internal/infrastructure/db/memory"
	"github.com/mmtopup/storefront/internal/infrastructure/db/mongo"
	"github.com/mmtopup/storefront/internal/infrastructure/db/postgres"
	"github.com/mmtopup/storefront/internal/infrastructure/db/redis"
	"github.com/mmtopup/storefront/internal/infrastructure/queue"
	"github.com/mmtopup/storefront/internal/pkg/config"
	"github.com/mmtopup/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	seed, err := loadSeed(cfg.Database.SeedFile)
	if err != nil {
		return err
	}
	fallback, err := memory.New(seed)
	if err != nil {
		return fmt.Errorf("build fallback store: %w", err)
	}

	db := connectPrimary(ctx, cfg.Database, log)
	if db != nil {
		defer db.Close()
	}

	// An untyped nil keeps the router from mistaking a missing handle for a store.
	var primary ports.Store
	if db != nil {
		primary = postgres.NewStore(db)
	}
	storeRouter := gate.NewRouter(primary, fallback, db != nil)
	store := gate.New(storeRouter, cfg.Database.QueryTimeout, logger.Component("gate"))
	if storeRouter.Connected() {
		log.Info().Msg("database: connected")
	} else {
		log.Warn().Msg("database: using fallback data")
	}

	// --- Optional audit trail ---
	var (
		audit      ports.AuditRecorder
		dispatcher *queue.Dispatcher
		mongoDB    *mongodriver.Database
	)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if cfg.Mongo.URI != "" {
		client, mdb, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Warn().Err(err).Msg("audit trail disabled")
		} else {
			defer func() {
				if err := mongo.Disconnect(client); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect")
				}
			}()
			repo := mongo.NewAuditRepository(mdb)
			if err := repo.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("audit indexes")
			}
			dispatcher = queue.NewDispatcher(cfg.Audit.Workers, repo, logger.Component("audit"))
			dispatcher.Start(workerCtx)
			audit = dispatcher
			mongoDB = mdb
		}
	}

	// --- Optional order idempotency ---
	var (
		idem        ports.IdempotencyStore
		redisClient *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("order idempotency disabled")
		} else {
			defer rdb.Close()
			idem = redis.NewOrderIdempotency(rdb)
			redisClient = rdb
		}
	}

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.Auth.TokenTTL)
	svcLog := logger.Component("service")
	settings := service.NewSettingsService(store, cfg.Server.AdminContact, audit, svcLog)

	e := api.NewRouter(api.Dependencies{
		Logger:      logger.Component("http"),
		StoreRouter: storeRouter,
		DB:          db,
		Mongo:       mongoDB,
		Redis:       redisClient,
		Tokens:      tokens,
		Users:       store,
		Auth:        service.NewAuthService(store, tokens, svcLog),
		Catalog:     service.NewCatalogService(store, audit, svcLog),
		Orders:      service.NewOrderService(store, idem, audit, svcLog),
		Admin:       service.NewAdminService(store, audit, svcLog),
		Settings:    settings,
	}, api.Options{
		FrontendURL:        cfg.Server.FrontendURL,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RecheckPrincipal:   cfg.Auth.RecheckPrincipal,
		Development:        cfg.IsDevelopment(),
		MetricsEnabled:     cfg.Server.MetricsEnabled,
		SwaggerEnabled:     cfg.Server.SwaggerEnabled,
	})

	// --- Serve ---
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", string(storeRouter.Backend())).Msg("server listening")
		serveErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	if dispatcher != nil {
		cancelWorkers()
		dispatcher.Wait()
	}
	return nil
}

func loadSeed(path string) (memory.Seed, error) {
	if path == "" {
		return memory.DefaultSeed()
	}
	seed, err := memory.LoadSeed(path)
	if err != nil {
		return memory.Seed{}, fmt.Errorf("load seed %s: %w", path, err)
	}
	return seed, nil
}

// connectPrimary returns nil when no DATABASE_URL is set or the database is
// unreachable at startup. Either way the process keeps the fallback store
// until restart.
func connectPrimary(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) *sql.DB {
	if cfg.URL == "" {
		return nil
	}
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:            cfg.URL,
		ConnectTimeout: cfg.ConnectTimeout,
		MaxOpenConns:   cfg.MaxOpenConns,
	})
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		return nil
	}
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.URL); err != nil {
			log.Error().Err(err).Msg("database migration failed")
			_ = db.Close()
			return nil
		}
	}
	return db
}
