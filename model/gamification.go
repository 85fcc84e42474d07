// model/gamification.go
package model

import (
	"encoding/json"
	"time"
)

// UserProfile holds the per-user aggregate counters every engine operation
// reads and mutates. Created lazily on the first gamification event, never
// hard-deleted. CurrentLevel is always recomputed from ExperiencePoints.
type UserProfile struct {
	ID               string `json:"id" gorm:"primaryKey"`
	UserID           string `json:"user_id" gorm:"uniqueIndex;not null"`
	TotalPoints      int    `json:"total_points" gorm:"default:0"`
	CurrentLevel     int    `json:"current_level" gorm:"default:1"`
	ExperiencePoints int    `json:"experience_points" gorm:"default:0"`

	// Mirrors of the StudyStreak source of truth
	Streak         int        `json:"streak" gorm:"default:0"`
	LongestStreak  int        `json:"longest_streak" gorm:"default:0"`
	LastActiveDate *time.Time `json:"last_active_date"`

	Badges       json.RawMessage `json:"badges" gorm:"type:text"`       // badge id array
	Achievements json.RawMessage `json:"achievements" gorm:"type:text"` // achievement id array, award order

	WeeklyGoal  int `json:"weekly_goal" gorm:"default:0"`
	MonthlyGoal int `json:"monthly_goal" gorm:"default:0"`

	TotalStudyTime         int `json:"total_study_time" gorm:"default:0"` // minutes
	CoursesCompleted       int `json:"courses_completed" gorm:"default:0"`
	LessonsCompleted       int `json:"lessons_completed" gorm:"default:0"`
	QuizzesPassed          int `json:"quizzes_passed" gorm:"default:0"`
	CodeExercisesCompleted int `json:"code_exercises_completed" gorm:"default:0"`
	CertificatesEarned     int `json:"certificates_earned" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Badge is a catalog entry, admin-authored and immutable at evaluation time.
type Badge struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Icon         string          `json:"icon"`
	Category     string          `json:"category"` // learning, achievement, social, special
	Rarity       string          `json:"rarity"`   // common, rare, epic, legendary
	Points       int             `json:"points" gorm:"default:0"`
	Requirements json.RawMessage `json:"requirements" gorm:"type:text"` // BadgeRequirement array
	IsActive     bool            `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BadgeRequirement is one threshold over a named counter. A badge with
// multiple requirements needs all of them to hold.
type BadgeRequirement struct {
	CounterType    string `json:"counter_type"`
	ThresholdValue int    `json:"threshold_value"`
	ComparisonOp   string `json:"comparison_op,omitempty"` // defaults to greater_than
}

// Achievement records a badge granted to a user. At most one row exists per
// (user, badge) pair, which is what makes badge awarding idempotent.
type Achievement struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_badge"`
	BadgeID  string    `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `json:"earned_at"`
	Points   int       `json:"points"` // badge points at award time
	IsNew    bool      `json:"is_new" gorm:"default:true"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

// StudyStreak is the source of truth for consecutive-day tracking; the
// profile mirrors CurrentStreak/LongestStreak after every update.
type StudyStreak struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"uniqueIndex;not null"`
	CurrentStreak   int        `json:"current_streak" gorm:"default:0"`
	LongestStreak   int        `json:"longest_streak" gorm:"default:0"`
	LastStudyDate   *time.Time `json:"last_study_date"`
	StreakStartDate *time.Time `json:"streak_start_date"`
	TotalStudyDays  int        `json:"total_study_days" gorm:"default:0"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DailyChallenge is a time-boxed catalog entry with a numeric target.
type DailyChallenge struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Type          string    `json:"type"` // complete_lessons, study_time, quiz_score, code_exercise, streak
	Target        int       `json:"target" gorm:"not null"`
	RewardPoints  int       `json:"reward_points" gorm:"default:0"`
	RewardBadgeID string    `json:"reward_badge_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserChallengeProgress tracks one user against one challenge. Progress is
// clamped to the challenge target; IsCompleted flips false to true exactly
// once and triggers the reward on that transition.
type UserChallengeProgress struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	UserID        string     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_challenge"`
	ChallengeID   string     `json:"challenge_id" gorm:"not null;uniqueIndex:idx_user_challenge"`
	Progress      int        `json:"progress" gorm:"default:0"`
	IsCompleted   bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt   *time.Time `json:"completed_at"`
	RewardClaimed bool       `json:"reward_claimed" gorm:"default:false"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Challenge DailyChallenge `json:"challenge" gorm:"foreignKey:ChallengeID"`
}

// LeaderboardEntry is a rebuildable projection of profile counters. Rank is a
// placeholder; real rank comes from sort position at read time.
type LeaderboardEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_period_category"`
	Period    string    `json:"period" gorm:"not null;uniqueIndex:idx_user_period_category"`
	Category  string    `json:"category" gorm:"not null;uniqueIndex:idx_user_period_category"`
	Points    int       `json:"points" gorm:"default:0;index"`
	Level     int       `json:"level" gorm:"default:1"`
	Rank      int       `json:"rank" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EngineModels lists every persisted entity, in migration order. The server
// and the seed CLI both migrate from this list so they agree on the schema.
func EngineModels() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Badge{},
		&Achievement{},
		&StudyStreak{},
		&DailyChallenge{},
		&UserChallengeProgress{},
		&LeaderboardEntry{},
	}
}
