package main

import (
	"log"

	"synthmind-be/internal/config"
	"synthmind-be/internal/model"
	"synthmind-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(database.GormConfig{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		DSN:      cfg.Database.DSN,
		LogLevel: "info",
	})
	if err != nil {
		log.Fatal("Error: Failed to configure database:", err)
	}

	log.Printf("Running AutoMigrate on %s for user_data and chat_history...", cfg.Database.Driver)
	if err := database.AutoMigrate(db, model.All()...); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	log.Println("Migration completed.")
}
