package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/shared"
	"gorm.io/gorm"
)

// BadgeSeeder handles seeding the badge catalog
type BadgeSeeder struct {
	db *gorm.DB
}

// NewBadgeSeeder creates a new badge seeder
func NewBadgeSeeder(db *gorm.DB) *BadgeSeeder {
	return &BadgeSeeder{db: db}
}

// SeedBadges replaces the badge catalog with the default definitions
func (s *BadgeSeeder) SeedBadges() error {
	badges := DefaultBadges()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Badge{}).Error; err != nil {
			return err
		}
		return tx.Create(&badges).Error
	})
	if err != nil {
		log.Printf("Badge seeding failed: %v", err)
		return err
	}

	log.Printf("Seeded %d badges", len(badges))
	return nil
}

// DefaultBadges returns the built-in badge catalog. Thresholds are authored
// as strict greater_than, so "1 lesson" reads as "more than 0".
func DefaultBadges() []model.Badge {
	now := time.Now()

	badges := []model.Badge{
		{
			ID:          "badge_first_lesson",
			Name:        "First Steps",
			Description: "Complete your first lesson.",
			Icon:        "/assets/badges/first_lesson.png",
			Category:    shared.BadgeCategoryLearning,
			Rarity:      shared.RarityCommon,
			Points:      10,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterLessonCompletion,
				ThresholdValue: 0,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_lesson_10",
			Name:        "Dedicated Learner",
			Description: "Complete 10 lessons.",
			Icon:        "/assets/badges/lesson_10.png",
			Category:    shared.BadgeCategoryLearning,
			Rarity:      shared.RarityCommon,
			Points:      25,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterLessonCompletion,
				ThresholdValue: 9,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_lesson_50",
			Name:        "Knowledge Seeker",
			Description: "Complete 50 lessons.",
			Icon:        "/assets/badges/lesson_50.png",
			Category:    shared.BadgeCategoryLearning,
			Rarity:      shared.RarityRare,
			Points:      100,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterLessonCompletion,
				ThresholdValue: 49,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_first_course",
			Name:        "Course Conqueror",
			Description: "Complete your first course.",
			Icon:        "/assets/badges/first_course.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityRare,
			Points:      50,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterCourseCompletion,
				ThresholdValue: 0,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_course_5",
			Name:        "Curriculum Crusher",
			Description: "Complete 5 courses.",
			Icon:        "/assets/badges/course_5.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityEpic,
			Points:      250,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterCourseCompletion,
				ThresholdValue: 4,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_streak_7",
			Name:        "Week Warrior",
			Description: "Keep a 7-day study streak alive.",
			Icon:        "/assets/badges/streak_7.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityCommon,
			Points:      30,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterStreak,
				ThresholdValue: 6,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_streak_30",
			Name:        "Unstoppable",
			Description: "Keep a 30-day study streak alive.",
			Icon:        "/assets/badges/streak_30.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityEpic,
			Points:      200,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterStreak,
				ThresholdValue: 29,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_points_1000",
			Name:        "Point Collector",
			Description: "Earn 1,000 experience points.",
			Icon:        "/assets/badges/points_1000.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityRare,
			Points:      50,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterPoints,
				ThresholdValue: 999,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_points_10000",
			Name:        "XP Legend",
			Description: "Earn 10,000 experience points.",
			Icon:        "/assets/badges/points_10000.png",
			Category:    shared.BadgeCategorySpecial,
			Rarity:      shared.RarityLegendary,
			Points:      500,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterPoints,
				ThresholdValue: 9999,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_quiz_20",
			Name:        "Quiz Master",
			Description: "Pass 20 quizzes.",
			Icon:        "/assets/badges/quiz_20.png",
			Category:    shared.BadgeCategoryLearning,
			Rarity:      shared.RarityRare,
			Points:      75,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterQuizScore,
				ThresholdValue: 19,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_code_25",
			Name:        "Code Artisan",
			Description: "Complete 25 code exercises.",
			Icon:        "/assets/badges/code_25.png",
			Category:    shared.BadgeCategoryLearning,
			Rarity:      shared.RarityRare,
			Points:      75,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterCodeExercise,
				ThresholdValue: 24,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			ID:          "badge_time_600",
			Name:        "Time Well Spent",
			Description: "Study for a total of 10 hours.",
			Icon:        "/assets/badges/time_600.png",
			Category:    shared.BadgeCategoryAchievement,
			Rarity:      shared.RarityCommon,
			Points:      40,
			Requirements: requirements(model.BadgeRequirement{
				CounterType:    shared.CounterTime,
				ThresholdValue: 599,
				ComparisonOp:   shared.CompareGreaterThan,
			}),
		},
		{
			// Multi-requirement badge: every threshold must hold.
			ID:          "badge_well_rounded",
			Name:        "Well Rounded",
			Description: "Complete a course, pass 5 quizzes and keep a 7-day streak.",
			Icon:        "/assets/badges/well_rounded.png",
			Category:    shared.BadgeCategorySpecial,
			Rarity:      shared.RarityEpic,
			Points:      300,
			Requirements: requirements(
				model.BadgeRequirement{
					CounterType:    shared.CounterCourseCompletion,
					ThresholdValue: 0,
					ComparisonOp:   shared.CompareGreaterThan,
				},
				model.BadgeRequirement{
					CounterType:    shared.CounterQuizScore,
					ThresholdValue: 4,
					ComparisonOp:   shared.CompareGreaterThan,
				},
				model.BadgeRequirement{
					CounterType:    shared.CounterStreak,
					ThresholdValue: 6,
					ComparisonOp:   shared.CompareGreaterThan,
				},
			),
		},
	}

	for i := range badges {
		badges[i].IsActive = true
		badges[i].CreatedAt = now
		badges[i].UpdatedAt = now
	}

	return badges
}

func requirements(reqs ...model.BadgeRequirement) json.RawMessage {
	raw, _ := json.Marshal(reqs)
	return raw
}
