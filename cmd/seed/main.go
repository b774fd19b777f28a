package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"synthmind-be/internal/config"
	"synthmind-be/internal/pkg/credential"
	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/repository/unitofwork"
	"synthmind-be/internal/service"
	"synthmind-be/pkg/chat"
	"synthmind-be/pkg/database"
)

// Seeds one account so a fresh database can be logged into right away.
func main() {
	userID := flag.String("user", "demo", "user id to create")
	password := flag.String("password", "demo1234", "password for the account")
	name := flag.String("name", "Demo User", "display name")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(database.GormConfig{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("Error: Failed to configure database:", err)
	}

	hasher, err := credential.NewHasher(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal("Error: ", err)
	}

	gateway := service.NewPersistenceGateway(unitofwork.NewRepositoryFactory(db), hasher, logger.NewNopLogger())
	err = gateway.Register(context.Background(), &chat.UserRecord{
		UserID:   *userID,
		Name:     *name,
		Age:      30,
		Gender:   "Other",
		Country:  "Nowhere",
		City:     "Nowhere",
		Password: *password,
	})
	switch {
	case errors.Is(err, chat.ErrAlreadyExists):
		log.Printf("User '%s' already exists, skipping...", *userID)
	case err != nil:
		log.Fatal("Error: Seeding failed:", err)
	default:
		log.Printf("Seeded user '%s'", *userID)
	}
}
