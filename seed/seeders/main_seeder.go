package seeders

import (
	"log"

	"github.com/skillside-labs/questly_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// migrate brings the schema up to date before any seeder touches a table.
// The CLI may run against a fresh database the server has never migrated.
func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(model.EngineModels()...)
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		log.Printf("Schema migration failed: %v", err)
		return err
	}

	// 1. Seed badges first (challenges may reference badge rewards)
	badgeSeeder := NewBadgeSeeder(s.db)
	if err := badgeSeeder.SeedBadges(); err != nil {
		log.Printf("Badge seeding failed: %v", err)
		return err
	}

	// 2. Seed daily challenges
	challengeSeeder := NewChallengeSeeder(s.db)
	if err := challengeSeeder.SeedChallenges(); err != nil {
		log.Printf("Challenge seeding failed: %v", err)
		return err
	}

	// 3. Seed the admin user
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedBadgesOnly seeds only the badge catalog
func (s *MainSeeder) SeedBadgesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	badgeSeeder := NewBadgeSeeder(s.db)
	return badgeSeeder.SeedBadges()
}

// SeedChallengesOnly seeds only the challenge catalog
func (s *MainSeeder) SeedChallengesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	challengeSeeder := NewChallengeSeeder(s.db)
	return challengeSeeder.SeedChallenges()
}

// SeedAdminOnly seeds only the admin user
func (s *MainSeeder) SeedAdminOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}
