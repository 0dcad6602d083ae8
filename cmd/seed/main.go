// Command main runs the database seeder for Plume.
package main

import (
	"flag"
	"log"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numComments := flag.Int("comments", 0, "Number of comments to create (default 2x posts)")
	maxDays := flag.Int("max-days", 90, "Spread publication dates over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database seeder")
	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumComments: *numComments,
		MaxDays:     *maxDays,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All test users have the password: password123")
}
