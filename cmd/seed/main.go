// Command seed populates the database with a demo catalog.
package main

import (
	"context"
	"flag"
	"log"

	"cinemate/internal/config"
	"cinemate/internal/database"
	"cinemate/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of generated data")
	numUsers := flag.Int("users", defaults.Users, "Number of users to generate")
	numFilms := flag.Int("films", defaults.Films, "Number of films to generate")
	numDirectors := flag.Int("directors", defaults.Directors, "Number of directors to generate")
	likesPerUser := flag.Int("likes", defaults.LikesPerUser, "Likes per generated user")
	friendsPerUser := flag.Int("friends", defaults.FriendsPerUser, "Friends per generated user")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if *fixturePath != "" {
		fx, err := seed.LoadFixtureFile(*fixturePath)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		res, err := s.ApplyFixture(ctx, fx)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
		log.Printf("Seeded %s from %s", res, *fixturePath)
		return
	}

	catalog, err := seed.DefaultCatalog()
	if err != nil {
		log.Fatalf("Failed to load default catalog: %v", err)
	}
	if _, err := s.ApplyFixture(ctx, catalog); err != nil {
		log.Fatalf("Catalog seeding failed: %v", err)
	}

	res, err := s.Generate(ctx, seed.Options{
		Users:          *numUsers,
		Films:          *numFilms,
		Directors:      *numDirectors,
		LikesPerUser:   *likesPerUser,
		FriendsPerUser: *friendsPerUser,
		RandomSeed:     *randomSeed,
	})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	log.Printf("Seeded default catalog plus %s", res)
}
