package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/seed/seeders"
	"github.com/skillside-labs/questly_api/shared"
)

// newTestEngine wires the gamification, challenge and leaderboard services
// against a fresh in-memory database, bypassing the service container.
func newTestEngine(t *testing.T) (*GamificationService, *ChallengeService, *LeaderboardService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.EngineModels()...))

	gamSvc := &GamificationService{}
	gamSvc.setDB(db)

	chalSvc := &ChallengeService{}
	chalSvc.setDB(db)
	chalSvc.gamificationSvc = gamSvc
	gamSvc.challengeSvc = chalSvc

	lbSvc := &LeaderboardService{}
	lbSvc.setDB(db)
	gamSvc.leaderboardSvc = lbSvc

	return gamSvc, chalSvc, lbSvc, db
}

func seedBadge(t *testing.T, db *gorm.DB, badge model.Badge) {
	t.Helper()
	badge.IsActive = true
	if badge.Requirements == nil {
		badge.Requirements = []byte("[]")
	}
	require.NoError(t, db.Create(&badge).Error)
}

func firstLessonBadge(t *testing.T) model.Badge {
	return model.Badge{
		ID:     "badge_first_lesson",
		Name:   "First Steps",
		Rarity: shared.RarityCommon,
		Points: 10,
		Requirements: mustRequirements(t, model.BadgeRequirement{
			CounterType:    shared.CounterLessonCompletion,
			ThresholdValue: 0,
			ComparisonOp:   shared.CompareGreaterThan,
		}),
	}
}

func TestTrackLessonCompletionEndToEnd(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)
	seedBadge(t, db, firstLessonBadge(t))

	resp, err := gamSvc.TrackLessonCompletion("user-1", "course-1", "lesson-1")
	require.NoError(t, err)

	// Flat lesson award plus the first lesson badge bonus
	assert.Equal(t, LessonCompletionPoints, resp.Award.PointsAwarded)
	require.Len(t, resp.NewBadges, 1)
	assert.Equal(t, "badge_first_lesson", resp.NewBadges[0].ID)
	assert.Equal(t, 1, resp.Streak)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.LessonsCompleted)
	assert.Equal(t, 20, profile.TotalPoints) // 10 lesson + 10 badge bonus
	assert.Equal(t, 1, profile.Streak)
}

func TestBadgeAwardIdempotent(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)
	seedBadge(t, db, firstLessonBadge(t))

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	// Re-running the evaluator must not duplicate the achievement
	newBadges, err := gamSvc.EvaluateAndAwardBadges("user-1")
	require.NoError(t, err)
	assert.Empty(t, newBadges)

	var count int64
	require.NoError(t, db.Model(&model.Achievement{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAwardPointsNegativeRejected(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	_, err := gamSvc.GetOrCreateProfile("user-1")
	require.NoError(t, err)

	_, err = gamSvc.AwardPoints("user-1", -10, "refund")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestAwardPointsLevelUp(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	_, err := gamSvc.GetOrCreateProfile("user-1")
	require.NoError(t, err)

	resp, err := gamSvc.AwardPoints("user-1", 100, "bonus")
	require.NoError(t, err)

	assert.True(t, resp.LeveledUp)
	assert.Equal(t, 2, resp.NewLevel)
	assert.Equal(t, 100, resp.TotalPoints)
}

func TestStreakSameDayNoOp(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	first, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentStreak)
	assert.Equal(t, 1, first.TotalStudyDays)

	second, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, second.CurrentStreak)
	assert.Equal(t, 1, second.TotalStudyDays)
}

func TestStreakContinuation(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)

	_, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)

	yesterday := Midnight(time.Now().AddDate(0, 0, -1))
	require.NoError(t, db.Model(&model.StudyStreak{}).
		Where("user_id = ?", "user-1").
		Update("last_study_date", yesterday).Error)

	streak, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
	assert.Equal(t, 2, streak.TotalStudyDays)
}

func TestStreakResetAfterGap(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)

	_, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)

	// Build up to a 3-day streak, then skip two days
	threeDaysAgo := Midnight(time.Now().AddDate(0, 0, -3))
	require.NoError(t, db.Model(&model.StudyStreak{}).
		Where("user_id = ?", "user-1").
		Updates(map[string]interface{}{
			"current_streak":  3,
			"longest_streak":  3,
			"last_study_date": threeDaysAgo,
		}).Error)

	streak, err := gamSvc.UpdateStreak("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak) // longest survives the reset

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Streak)
	assert.Equal(t, 3, profile.LongestStreak)
}

func TestQuizFailedAwardsNothing(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	resp, err := gamSvc.TrackQuizCompletion("user-1", "quiz-1", 90, false)
	require.NoError(t, err)
	assert.Nil(t, resp.Award)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.QuizzesPassed)
	assert.Equal(t, 0, profile.TotalPoints)
}

func TestQuizPassedScaledPoints(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	resp, err := gamSvc.TrackQuizCompletion("user-1", "quiz-1", 50, true)
	require.NoError(t, err)
	require.NotNil(t, resp.Award)
	assert.Equal(t, 25, resp.Award.PointsAwarded) // 50% of the 50 point maximum

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.QuizzesPassed)
}

func TestCodeExerciseAlwaysCounts(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	// Unlike quizzes there is no pass gate; a low score still counts
	resp, err := gamSvc.TrackCodeExerciseCompletion("user-1", "ex-1", 50)
	require.NoError(t, err)
	require.NotNil(t, resp.Award)
	assert.Equal(t, 15, resp.Award.PointsAwarded) // 50% of the 30 point maximum

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CodeExercisesCompleted)
}

func TestCourseCompletionCounters(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	resp, err := gamSvc.TrackCourseCompletion("user-1", "course-1")
	require.NoError(t, err)
	assert.Equal(t, CourseCompletionPoints, resp.Award.PointsAwarded)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CoursesCompleted)
	assert.Equal(t, 1, profile.CertificatesEarned)
	// Courses do not touch the streak
	assert.Equal(t, 0, profile.Streak)
}

func TestTrackStudyTime(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	profile, err := gamSvc.TrackStudyTime("user-1", 45)
	require.NoError(t, err)
	assert.Equal(t, 45, profile.TotalStudyTime)

	profile, err = gamSvc.TrackStudyTime("user-1", 30)
	require.NoError(t, err)
	assert.Equal(t, 75, profile.TotalStudyTime)

	_, err = gamSvc.TrackStudyTime("user-1", 0)
	require.Error(t, err)
}

func TestUpdateGoals(t *testing.T) {
	gamSvc, _, _, _ := newTestEngine(t)

	weekly := 300
	profile, err := gamSvc.UpdateGoals("user-1", dto.UpdateGoalsRequest{WeeklyGoal: &weekly})
	require.NoError(t, err)
	assert.Equal(t, 300, profile.WeeklyGoal)
	assert.Equal(t, 0, profile.MonthlyGoal)

	monthly := 1200
	profile, err = gamSvc.UpdateGoals("user-1", dto.UpdateGoalsRequest{MonthlyGoal: &monthly})
	require.NoError(t, err)
	assert.Equal(t, 300, profile.WeeklyGoal)
	assert.Equal(t, 1200, profile.MonthlyGoal)
}

func TestGetUserGamificationProfile(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)
	seedBadge(t, db, firstLessonBadge(t))

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	view, err := gamSvc.GetUserGamification("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", view.UserID)
	assert.Equal(t, 20, view.TotalPoints)
	assert.Equal(t, 1, view.LessonsCompleted)
	assert.Equal(t, 80, view.PointsToNextLevel)
	require.Len(t, view.Achievements, 1)
	assert.True(t, view.Achievements[0].IsNew)
	assert.Equal(t, "badge_first_lesson", view.Achievements[0].Badge.ID)

	require.NoError(t, gamSvc.MarkAchievementsSeen("user-1"))

	view, err = gamSvc.GetUserGamification("user-1")
	require.NoError(t, err)
	assert.False(t, view.Achievements[0].IsNew)
}

func TestDefaultCatalogSeedsEvaluate(t *testing.T) {
	gamSvc, _, _, db := newTestEngine(t)

	badges := seeders.DefaultBadges()
	require.NoError(t, db.Create(&badges).Error)

	resp, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	// The shipped "First Steps" badge fires on the first lesson
	require.Len(t, resp.NewBadges, 1)
	assert.Equal(t, "badge_first_lesson", resp.NewBadges[0].ID)
}
