// Command migrate applies the database schema. Production deployments run
// this explicitly; development environments automigrate on startup.
package main

import (
	"log"

	"plume/internal/config"
	"plume/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migration applied")
}
