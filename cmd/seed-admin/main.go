// Command seed-admin creates or promotes an administrator account in the
// postgres user directory.
//
//	seed-admin -email admin@example.com -name "Store Admin" -password secret123
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/pkg/database"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	name := flag.String("name", "Administrador", "admin display name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 6 characters)")
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if config.Auth.Backend != utils.AuthBackendPostgres {
		log.Fatalf("seed-admin only supports AUTH_BACKEND=postgres, got %q", config.Auth.Backend)
	}

	logger, err := utils.InitLogger(config.App.Name+"-seed", config.App.LogPath, config.App.Debug)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	if config.Database.Migrate {
		if err := database.Migrate(config.Database.DSN(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	admin, err := repository.NewUserSeeder(db, logger).EnsureAdmin(ctx, entity.NewUser{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		logger.Fatal("Failed to seed admin", zap.Error(err))
	}

	logger.Info("Admin seeded", zap.Int64("id", admin.ID), zap.String("email", admin.Email))
}
