package seeders

import (
	"log"
	"time"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
	"gorm.io/gorm"
)

// ChallengeSeeder handles seeding the daily challenge catalog
type ChallengeSeeder struct {
	db *gorm.DB
}

// NewChallengeSeeder creates a new challenge seeder
func NewChallengeSeeder(db *gorm.DB) *ChallengeSeeder {
	return &ChallengeSeeder{db: db}
}

// SeedChallenges replaces the challenge catalog with the default definitions
func (s *ChallengeSeeder) SeedChallenges() error {
	challenges := DefaultChallenges()

	if err := repositories.NewCatalogRepository(s.db).ReplaceChallenges(challenges); err != nil {
		log.Printf("Challenge seeding failed: %v", err)
		return err
	}

	log.Printf("Seeded %d challenges", len(challenges))
	return nil
}

// DefaultChallenges returns the built-in daily challenges, windowed over the
// current calendar day. Ids are left empty so every seeding issues fresh
// challenge identities; progress rows never carry over between days.
func DefaultChallenges() []model.DailyChallenge {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	challenges := []model.DailyChallenge{
		{
			Title:        "Daily Dose",
			Description:  "Complete 3 lessons today.",
			Type:         shared.ChallengeCompleteLessons,
			Target:       3,
			RewardPoints: 30,
		},
		{
			Title:        "Focus Hour",
			Description:  "Study for 60 minutes today.",
			Type:         shared.ChallengeStudyTime,
			Target:       60,
			RewardPoints: 40,
		},
		{
			Title:         "Sharp Shooter",
			Description:   "Score at least 80 on a quiz today.",
			Type:          shared.ChallengeQuizScore,
			Target:        80,
			RewardPoints:  50,
			RewardBadgeID: "badge_quiz_20",
		},
		{
			Title:        "Ship It",
			Description:  "Score at least 70 on a code exercise today.",
			Type:         shared.ChallengeCodeExercise,
			Target:       70,
			RewardPoints: 50,
		},
		{
			Title:        "Keep the Flame",
			Description:  "Reach a 3-day study streak.",
			Type:         shared.ChallengeStreak,
			Target:       3,
			RewardPoints: 25,
		},
	}

	for i := range challenges {
		challenges[i].StartDate = dayStart
		challenges[i].EndDate = dayEnd
		challenges[i].IsActive = true
		challenges[i].CreatedAt = now
		challenges[i].UpdatedAt = now
	}

	return challenges
}
