// cmd entrypoint for database seeding.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trigono-learn/trigono_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, lessons, exercises")
		dbPath   = flag.String("db", "", "Database path (overrides DB_NAME env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_NAME")
		if databasePath == "" {
			databasePath = "trigono.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		err = mainSeeder.SeedAll()
	case "lessons":
		log.Println("Seeding lessons only...")
		err = mainSeeder.SeedLessonsOnly()
	case "exercises":
		log.Println("Seeding exercises only...")
		err = mainSeeder.SeedExercisesOnly()
	default:
		log.Fatalf("Unknown seed type: %s (use -help for usage)", *seedType)
	}

	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding finished")
}

func showHelp() {
	fmt.Println(`Usage: seed [flags]

Flags:
  -type string   Type of seeding: all, lessons, exercises (default "all")
  -db string     Database path (overrides DB_NAME env var)
  -help          Show this message

Examples:
  seed                      # seed lessons and exercises
  seed -type lessons        # seed lessons only
  seed -db ./trigono.db     # seed into a specific sqlite file`)
}
