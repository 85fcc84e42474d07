package shared

const (
	UserID = "user_id"

	RoleUser  = "user"
	RoleAdmin = "admin"

	// Counter types referenced by badge requirements
	CounterCourseCompletion = "course_completion"
	CounterLessonCompletion = "lesson_completion"
	CounterStreak           = "streak"
	CounterPoints           = "points"
	CounterTime             = "time"
	CounterQuizScore        = "quiz_score"
	CounterCodeExercise     = "code_exercise"

	CompareGreaterThan = "greater_than"
	CompareEqualTo     = "equal_to"
	CompareLessThan    = "less_than"

	BadgeCategoryLearning    = "learning"
	BadgeCategoryAchievement = "achievement"
	BadgeCategorySocial      = "social"
	BadgeCategorySpecial     = "special"

	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"

	ChallengeCompleteLessons = "complete_lessons"
	ChallengeStudyTime       = "study_time"
	ChallengeQuizScore       = "quiz_score"
	ChallengeCodeExercise    = "code_exercise"
	ChallengeStreak          = "streak"

	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"

	CategoryPoints  = "points"
	CategoryStreak  = "streak"
	CategoryCourses = "courses"
	CategoryTime    = "time"
)

// Every projected (period, category) combination.
var (
	LeaderboardPeriods    = []string{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime}
	LeaderboardCategories = []string{CategoryPoints, CategoryStreak, CategoryCourses, CategoryTime}
)
