// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furniture-catalog/cmd"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/internal/wire"
	"furniture-catalog/pkg/cache"
	"furniture-catalog/pkg/database"
	"furniture-catalog/pkg/utils"
	"furniture-catalog/pkg/xano"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("auth_backend", config.Auth.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Schema
	if config.Database.Migrate {
		if err := database.Migrate(config.Database.DSN(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Optional cache
	c := cache.NewNoop()
	if config.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Redis.Addr))
		}
		defer func() { _ = rdb.Close() }()

		c = cache.NewRedis(rdb, config.App.Name)
		logger.Info("Redis cache enabled", zap.String("addr", config.Redis.Addr))
	}

	// Identity backend
	var users repository.UserRepository
	if config.Auth.Backend == utils.AuthBackendXano {
		client := xano.New(xano.Config{
			BaseURL: config.Xano.BaseURL,
			APIKey:  config.Xano.APIKey,
			Timeout: config.Xano.Timeout,
		}, logger)

		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := client.TestConnection(probeCtx); err != nil {
			logger.Warn("Xano is not reachable, continuing anyway", zap.Error(err))
		}
		cancel()

		users = repository.NewXanoUserRepository(client, logger)
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, users, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, db, c, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
