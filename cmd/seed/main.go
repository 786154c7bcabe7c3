// Command seed creates the bootstrap superadmin account. Admin users are
// never created through the API.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/avelichko/catalog-api/internal/config"
	pkgdb "github.com/avelichko/catalog-api/internal/db"
	"github.com/avelichko/catalog-api/internal/hash"
	"github.com/avelichko/catalog-api/internal/models"
	"github.com/avelichko/catalog-api/internal/repo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.AdminUsername, "ADMIN_USERNAME")
	config.MustNonEmpty(cfg.AdminPassword, "ADMIN_PASSWORD")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	pwHash, err := hash.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	user := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: pwHash,
		Role:         models.RoleSuperAdmin,
	}

	if err := gormRepo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			log.Printf("superadmin %q already exists", cfg.AdminUsername)
			return
		}
		log.Fatalf("create superadmin: %v", err)
	}

	log.Printf("superadmin %q created", cfg.AdminUsername)
}
