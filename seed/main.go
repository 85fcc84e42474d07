package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/skillside-labs/questly_api/seed/seeders"
	"github.com/skillside-labs/questly_api/services"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Parse command line flags
	var (
		seedType = flag.String("type", "all", "Type of seeding: all, badges, challenges, admin")
		dbPath   = flag.String("db", "", "Sqlite database path (forces the sqlite driver)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	// Same driver selection as runtime/main.go so the CLI seeds the
	// database the server reads. The -db flag forces sqlite.
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "postgres"
	}
	if *dbPath != "" {
		driver = "sqlite"
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		databasePath := *dbPath
		if databasePath == "" {
			databasePath = os.Getenv("DB_DATABASE")
			if databasePath == "" {
				databasePath = "questly.db"
			}
		}
		dialector = sqlite.Open(databasePath)
		log.Printf("Using sqlite database: %s", databasePath)
	case "postgres":
		dialector = postgres.Open(services.PostgresDSN())
		log.Println("Using postgres database")
	default:
		log.Fatalf("Unknown DB_DRIVER: %s. Use 'postgres' or 'sqlite'", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Create main seeder
	mainSeeder := seeders.NewMainSeeder(db)

	// Run seeding based on type
	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "badges":
		log.Println("Seeding badges only...")
		if err := mainSeeder.SeedBadgesOnly(); err != nil {
			log.Fatalf("Failed to seed badges: %v", err)
		}
	case "challenges":
		log.Println("Seeding challenges only...")
		if err := mainSeeder.SeedChallengesOnly(); err != nil {
			log.Fatalf("Failed to seed challenges: %v", err)
		}
	case "admin":
		log.Println("Seeding admin user only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin user: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'badges', 'challenges', or 'admin'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for Questly

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, badges, challenges, admin
  -db string
        Sqlite database path (forces the sqlite driver)
  -help
        Show this help message

Examples:
  # Seed everything into the server's postgres database
  go run seed/main.go

  # Seed only the badge catalog
  go run seed/main.go -type=badges

  # Seed a local sqlite file instead
  go run seed/main.go -db=./questly.db

Environment Variables:
  DB_DRIVER      - postgres (default) or sqlite, same as the server
  DATABASE_URL   - Postgres connection string (or the individual DB_* vars)
  DB_DATABASE    - Sqlite database path (default: questly.db)
  ADMIN_EMAIL    - Admin account email (default: admin@questly.io)
  ADMIN_PASSWORD - Admin account password
`)
}
