// dto/gamification.go
package dto

import "time"

// Tracking event requests

type LessonCompletionRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	LessonID string `json:"lesson_id" validate:"required"`
}

type CourseCompletionRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

type QuizCompletionRequest struct {
	QuizID string `json:"quiz_id" validate:"required"`
	Score  int    `json:"score" validate:"min=0,max=100"`
	Passed bool   `json:"passed"`
}

type CodeExerciseCompletionRequest struct {
	ExerciseID string `json:"exercise_id" validate:"required"`
	Score      int    `json:"score" validate:"min=0,max=100"`
}

type StudyTimeRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=1440"`
}

type UpdateGoalsRequest struct {
	WeeklyGoal  *int `json:"weekly_goal" validate:"omitempty,min=0"`
	MonthlyGoal *int `json:"monthly_goal" validate:"omitempty,min=0"`
}

// Award results

type PointsAwardResponse struct {
	PointsAwarded int    `json:"points_awarded"`
	Reason        string `json:"reason"`
	NewLevel      int    `json:"new_level"`
	LeveledUp     bool   `json:"leveled_up"`
	TotalPoints   int    `json:"total_points"`
}

type TrackEventResponse struct {
	Award         *PointsAwardResponse `json:"award,omitempty"`
	NewBadges     []BadgeResponse      `json:"new_badges"`
	Streak        int                  `json:"streak"`
	LongestStreak int                  `json:"longest_streak"`
}

// Profile / badge views

type BadgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	Points      int    `json:"points"`
}

type AchievementResponse struct {
	ID       string        `json:"id"`
	Badge    BadgeResponse `json:"badge"`
	EarnedAt time.Time     `json:"earned_at"`
	Points   int           `json:"points"`
	IsNew    bool          `json:"is_new"`
}

type GamificationProfileResponse struct {
	UserID                 string                `json:"user_id"`
	TotalPoints            int                   `json:"total_points"`
	CurrentLevel           int                   `json:"current_level"`
	ExperiencePoints       int                   `json:"experience_points"`
	PointsToNextLevel      int                   `json:"points_to_next_level"`
	Streak                 int                   `json:"streak"`
	LongestStreak          int                   `json:"longest_streak"`
	LastActiveDate         *time.Time            `json:"last_active_date"`
	WeeklyGoal             int                   `json:"weekly_goal"`
	MonthlyGoal            int                   `json:"monthly_goal"`
	TotalStudyTime         int                   `json:"total_study_time"`
	CoursesCompleted       int                   `json:"courses_completed"`
	LessonsCompleted       int                   `json:"lessons_completed"`
	QuizzesPassed          int                   `json:"quizzes_passed"`
	CodeExercisesCompleted int                   `json:"code_exercises_completed"`
	CertificatesEarned     int                   `json:"certificates_earned"`
	Badges                 []BadgeResponse       `json:"badges"`
	Achievements           []AchievementResponse `json:"achievements"`
}

// Challenges

type ChallengeProgressResponse struct {
	ChallengeID   string     `json:"challenge_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	Target        int        `json:"target"`
	RewardPoints  int        `json:"reward_points"`
	Progress      int        `json:"progress"`
	IsCompleted   bool       `json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	RewardClaimed bool       `json:"reward_claimed"`
	EndDate       time.Time  `json:"end_date"`
}

type DailyChallengesResponse struct {
	Challenges []ChallengeProgressResponse `json:"challenges"`
}

// Leaderboard

type LeaderboardRequest struct {
	Period   string `json:"period" form:"period"`
	Category string `json:"category" form:"category"`
	Limit    int    `json:"limit" form:"limit"`
}

type LeaderboardUserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Level    int    `json:"level"`
	Rank     int    `json:"rank"`
}

type LeaderboardResponse struct {
	Period   string                    `json:"period"`
	Category string                    `json:"category"`
	Entries  []LeaderboardUserResponse `json:"entries"`
}

// Admin catalog management

type CreateBadgeRequest struct {
	Name         string                    `json:"name" validate:"required"`
	Description  string                    `json:"description"`
	Icon         string                    `json:"icon"`
	Category     string                    `json:"category" validate:"required,oneof=learning achievement social special"`
	Rarity       string                    `json:"rarity" validate:"required,oneof=common rare epic legendary"`
	Points       int                       `json:"points" validate:"min=0"`
	Requirements []BadgeRequirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

type BadgeRequirementRequest struct {
	CounterType    string `json:"counter_type" validate:"required,oneof=course_completion lesson_completion streak points time quiz_score code_exercise"`
	ThresholdValue int    `json:"threshold_value" validate:"min=0"`
	ComparisonOp   string `json:"comparison_op" validate:"omitempty,oneof=greater_than equal_to less_than"`
}

type BadgeIconUploadResponse struct {
	BadgeID  string `json:"badge_id"`
	IconURL  string `json:"icon_url"`
	FileSize int64  `json:"file_size"`
}
