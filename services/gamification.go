// services/gamification.go
package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GamificationService owns the per-user counters and the points, badge and
// streak pipelines. Every mutating entry point serializes on a per-user lock
// so two events for the same user cannot clobber each other's read-modify-
// write cycle.
type GamificationService struct {
	context.DefaultService

	challengeSvc   *ChallengeService
	leaderboardSvc *LeaderboardService

	profileRepo *repositories.ProfileRepository
	catalogRepo *repositories.CatalogRepository

	userLocks sync.Map // userID -> *sync.Mutex
}

const GAMIFICATION_SVC = "gamification_svc"

const (
	LessonCompletionPoints = 10
	CourseCompletionPoints = 100
	QuizMaxPoints          = 50
	CodeExerciseMaxPoints  = 30
)

func (svc GamificationService) Id() string {
	return GAMIFICATION_SVC
}

func (svc *GamificationService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *GamificationService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(SqlService)
	svc.setDB(sqlSvc.Db())

	svc.challengeSvc = svc.Service(CHALLENGE_SVC).(*ChallengeService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)

	return nil
}

func (svc *GamificationService) setDB(db *gorm.DB) {
	svc.profileRepo = repositories.NewProfileRepository(db)
	svc.catalogRepo = repositories.NewCatalogRepository(db)
}

// lockUser serializes all mutating pipelines for a single user.
func (svc *GamificationService) lockUser(userID string) func() {
	mu, _ := svc.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

// ==================== PROFILE ====================

func (svc *GamificationService) GetOrCreateProfile(userID string) (*model.UserProfile, error) {
	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}
	return profile, nil
}

// ==================== POINTS AWARD PIPELINE ====================

// AwardPoints applies a point delta, recomputes the level and runs the badge
// evaluator. It does not create missing profiles; the tracking entry points
// do that before calling in.
func (svc *GamificationService) AwardPoints(userID string, points int, reason string) (*dto.PointsAwardResponse, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	result, _, err := svc.awardPoints(userID, points, reason)
	return result, err
}

// awardPoints is the pipeline body. Callers must hold the user lock.
func (svc *GamificationService) awardPoints(userID string, points int, reason string) (*dto.PointsAwardResponse, []model.Badge, error) {
	if points < 0 {
		return nil, nil, shared.NewBadRequestError(fmt.Errorf("negative delta %d", points), "Point deductions are not supported")
	}

	profile, err := svc.profileRepo.GetProfile(userID)
	if err != nil {
		return nil, nil, shared.NewNotFoundError(err, "User profile not found")
	}

	previousLevel := profile.CurrentLevel
	profile.TotalPoints += points
	profile.ExperiencePoints += points
	profile.CurrentLevel = LevelForXP(profile.ExperiencePoints)

	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, nil, shared.NewInternalError(err, "Failed to persist point award")
	}

	recordPointsAwarded(points)
	if profile.CurrentLevel > previousLevel {
		log.WithFields(log.Fields{"user_id": userID, "level": profile.CurrentLevel}).Info("User leveled up")
	}

	// Attempt-once: a failed badge scan leaves the points in place and is
	// reconciled by the next evaluator run.
	newBadges, err := svc.evaluateAndAwardBadges(profile)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Badge evaluation failed after point award")
		newBadges = nil
	}

	return &dto.PointsAwardResponse{
		PointsAwarded: points,
		Reason:        reason,
		NewLevel:      profile.CurrentLevel,
		LeveledUp:     profile.CurrentLevel > previousLevel,
		TotalPoints:   profile.TotalPoints,
	}, newBadges, nil
}

// ==================== BADGE EVALUATOR ====================

// EvaluateAndAwardBadges scans the active badge catalog against the user's
// counters and grants whatever newly qualifies. Safe to re-run: the
// achievement-existence check keeps awarding idempotent.
func (svc *GamificationService) EvaluateAndAwardBadges(userID string) ([]model.Badge, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetProfile(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "User profile not found")
	}

	return svc.evaluateAndAwardBadges(profile)
}

// evaluateAndAwardBadges runs one evaluation pass. Callers must hold the
// user lock. Bonus points from an award in this pass can only qualify other
// badges on the next invocation.
func (svc *GamificationService) evaluateAndAwardBadges(profile *model.UserProfile) ([]model.Badge, error) {
	badges, err := svc.catalogRepo.GetActiveBadges()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load badge catalog")
	}

	achievements, err := svc.profileRepo.GetUserAchievements(profile.UserID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user achievements")
	}

	earned := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		earned[a.BadgeID] = true
	}

	qualifying := NewlyQualifyingBadges(profile, badges, earned)
	if len(qualifying) == 0 {
		return nil, nil
	}

	badgeIDs := decodeIDList(profile.Badges)
	achievementIDs := decodeIDList(profile.Achievements)

	for i := range qualifying {
		badge := &qualifying[i]

		achievementID, _ := uuid.NewV7()
		achievement := &model.Achievement{
			ID:       achievementID.String(),
			UserID:   profile.UserID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now(),
			Points:   badge.Points,
			IsNew:    true,
		}
		if err := svc.profileRepo.CreateAchievement(achievement); err != nil {
			return nil, shared.NewInternalError(err, "Failed to record achievement")
		}

		badgeIDs = append(badgeIDs, badge.ID)
		achievementIDs = append(achievementIDs, achievement.ID)
		profile.TotalPoints += badge.Points
		profile.ExperiencePoints += badge.Points

		recordBadgeAwarded(badge.Rarity)
		log.WithFields(log.Fields{"user_id": profile.UserID, "badge": badge.Name}).Info("Badge awarded")
	}

	profile.Badges = encodeIDList(badgeIDs)
	profile.Achievements = encodeIDList(achievementIDs)
	profile.CurrentLevel = LevelForXP(profile.ExperiencePoints)

	// One persist for the whole pass, not one per badge
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist badge awards")
	}

	return qualifying, nil
}

// grantBadge awards one specific badge outside the rule evaluator, used for
// claimed challenge badge rewards. Idempotent like the evaluator: an already
// earned badge is a no-op. Callers must hold the user lock.
func (svc *GamificationService) grantBadge(userID, badgeID string) error {
	profile, err := svc.profileRepo.GetProfile(userID)
	if err != nil {
		return shared.NewNotFoundError(err, "User profile not found")
	}

	badge, err := svc.catalogRepo.GetBadge(badgeID)
	if err != nil {
		return shared.NewNotFoundError(err, "Badge not found")
	}

	achievements, err := svc.profileRepo.GetUserAchievements(userID)
	if err != nil {
		return shared.NewInternalError(err, "Failed to load user achievements")
	}
	for _, a := range achievements {
		if a.BadgeID == badgeID {
			return nil
		}
	}

	achievementID, _ := uuid.NewV7()
	achievement := &model.Achievement{
		ID:       achievementID.String(),
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: time.Now(),
		Points:   badge.Points,
		IsNew:    true,
	}
	if err := svc.profileRepo.CreateAchievement(achievement); err != nil {
		return shared.NewInternalError(err, "Failed to record achievement")
	}

	profile.Badges = encodeIDList(append(decodeIDList(profile.Badges), badge.ID))
	profile.Achievements = encodeIDList(append(decodeIDList(profile.Achievements), achievement.ID))
	profile.TotalPoints += badge.Points
	profile.ExperiencePoints += badge.Points
	profile.CurrentLevel = LevelForXP(profile.ExperiencePoints)

	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return shared.NewInternalError(err, "Failed to persist badge grant")
	}

	recordBadgeAwarded(badge.Rarity)
	return nil
}

// ==================== STREAK TRACKER ====================

// UpdateStreak counts today as a study day. Same-day calls are no-ops;
// a one day gap extends the streak, a longer gap resets it, and a backdated
// clock (negative day difference) is ignored.
func (svc *GamificationService) UpdateStreak(userID string) (*model.StudyStreak, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	return svc.updateStreak(profile)
}

func (svc *GamificationService) updateStreak(profile *model.UserProfile) (*model.StudyStreak, error) {
	now := time.Now()
	today := Midnight(now)

	streak, err := svc.profileRepo.GetStreak(profile.UserID)
	if err != nil {
		streak = &model.StudyStreak{
			UserID:          profile.UserID,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastStudyDate:   &today,
			StreakStartDate: &today,
			TotalStudyDays:  1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := svc.profileRepo.CreateStreak(streak); err != nil {
			return nil, shared.NewInternalError(err, "Failed to create streak record")
		}
		return streak, svc.mirrorStreak(profile, streak)
	}

	dayDiff := 1
	if streak.LastStudyDate != nil {
		dayDiff = DayDifference(*streak.LastStudyDate, now)
	}

	switch {
	case dayDiff == 0:
		// Already counted today
		return streak, nil
	case dayDiff < 0:
		// Backdated event, ignore
		return streak, nil
	case dayDiff == 1:
		streak.CurrentStreak++
		streak.TotalStudyDays++
	default:
		streak.CurrentStreak = 1
		streak.StreakStartDate = &today
		streak.TotalStudyDays++
		recordStreakReset()
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastStudyDate = &today

	if err := svc.profileRepo.UpdateStreak(streak); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist streak")
	}

	return streak, svc.mirrorStreak(profile, streak)
}

// mirrorStreak copies the streak source of truth onto the profile.
func (svc *GamificationService) mirrorStreak(profile *model.UserProfile, streak *model.StudyStreak) error {
	profile.Streak = streak.CurrentStreak
	profile.LongestStreak = streak.LongestStreak
	profile.LastActiveDate = streak.LastStudyDate
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return shared.NewInternalError(err, "Failed to mirror streak onto profile")
	}
	return nil
}

// ==================== COMPLETION TRACKERS ====================

// TrackLessonCompletion handles a finished lesson: streak, counters, a flat
// point award and any active complete_lessons challenges.
func (svc *GamificationService) TrackLessonCompletion(userID, courseID, lessonID string) (*dto.TrackEventResponse, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	streak, err := svc.updateStreak(profile)
	if err != nil {
		return nil, err
	}

	profile.LessonsCompleted++
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist lesson counter")
	}

	award, newBadges, err := svc.awardPoints(userID, LessonCompletionPoints, "Lesson completed")
	if err != nil {
		return nil, err
	}

	svc.challengeSvc.advanceChallenges(userID, shared.ChallengeCompleteLessons, func(current int) int {
		return current + 1
	})
	svc.challengeSvc.advanceChallenges(userID, shared.ChallengeStreak, func(current int) int {
		return streak.CurrentStreak
	})

	svc.refreshLeaderboard(userID)

	log.WithFields(log.Fields{"user_id": userID, "course_id": courseID, "lesson_id": lessonID}).
		Debug("Lesson completion tracked")

	return &dto.TrackEventResponse{
		Award:         award,
		NewBadges:     mapBadges(newBadges),
		Streak:        streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
	}, nil
}

// TrackCourseCompletion awards the course bonus and the certificate. Streak
// stays lesson-driven, so it is not touched here.
func (svc *GamificationService) TrackCourseCompletion(userID, courseID string) (*dto.TrackEventResponse, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	profile.CoursesCompleted++
	profile.CertificatesEarned++
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist course counters")
	}

	award, newBadges, err := svc.awardPoints(userID, CourseCompletionPoints, "Course completed")
	if err != nil {
		return nil, err
	}

	svc.refreshLeaderboard(userID)

	log.WithFields(log.Fields{"user_id": userID, "course_id": courseID}).Debug("Course completion tracked")

	return &dto.TrackEventResponse{
		Award:         award,
		NewBadges:     mapBadges(newBadges),
		Streak:        profile.Streak,
		LongestStreak: profile.LongestStreak,
	}, nil
}

// TrackQuizCompletion only counts passed quizzes; failed attempts award
// nothing. Contrast with code exercises, which always count.
func (svc *GamificationService) TrackQuizCompletion(userID, quizID string, score int, passed bool) (*dto.TrackEventResponse, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	if !passed {
		return &dto.TrackEventResponse{
			NewBadges:     []dto.BadgeResponse{},
			Streak:        profile.Streak,
			LongestStreak: profile.LongestStreak,
		}, nil
	}

	profile.QuizzesPassed++
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist quiz counter")
	}

	points := scaledPoints(score, QuizMaxPoints)
	award, newBadges, err := svc.awardPoints(userID, points, fmt.Sprintf("Quiz passed with score %d", score))
	if err != nil {
		return nil, err
	}

	svc.challengeSvc.advanceScoreChallenges(userID, shared.ChallengeQuizScore, score)
	svc.refreshLeaderboard(userID)

	log.WithFields(log.Fields{"user_id": userID, "quiz_id": quizID, "score": score}).
		Debug("Quiz completion tracked")

	return &dto.TrackEventResponse{
		Award:         award,
		NewBadges:     mapBadges(newBadges),
		Streak:        profile.Streak,
		LongestStreak: profile.LongestStreak,
	}, nil
}

// TrackCodeExerciseCompletion counts every submission regardless of score.
func (svc *GamificationService) TrackCodeExerciseCompletion(userID, exerciseID string, score int) (*dto.TrackEventResponse, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	profile.CodeExercisesCompleted++
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist exercise counter")
	}

	points := scaledPoints(score, CodeExerciseMaxPoints)
	award, newBadges, err := svc.awardPoints(userID, points, fmt.Sprintf("Code exercise completed with score %d", score))
	if err != nil {
		return nil, err
	}

	svc.challengeSvc.advanceScoreChallenges(userID, shared.ChallengeCodeExercise, score)
	svc.refreshLeaderboard(userID)

	log.WithFields(log.Fields{"user_id": userID, "exercise_id": exerciseID, "score": score}).
		Debug("Code exercise tracked")

	return &dto.TrackEventResponse{
		Award:         award,
		NewBadges:     mapBadges(newBadges),
		Streak:        profile.Streak,
		LongestStreak: profile.LongestStreak,
	}, nil
}

// TrackStudyTime adds minutes to the study time counter and advances any
// active study_time challenges. No points are attached to raw time.
func (svc *GamificationService) TrackStudyTime(userID string, minutes int) (*model.UserProfile, error) {
	if minutes <= 0 {
		return nil, shared.NewBadRequestError(fmt.Errorf("minutes %d", minutes), "Study time must be positive")
	}

	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	profile.TotalStudyTime += minutes
	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist study time")
	}

	svc.challengeSvc.advanceChallenges(userID, shared.ChallengeStudyTime, func(current int) int {
		return current + minutes
	})

	return profile, nil
}

// refreshLeaderboard re-projects the user's counters. Failures are logged,
// not returned: the projection is rebuildable and never blocks the event.
func (svc *GamificationService) refreshLeaderboard(userID string) {
	if svc.leaderboardSvc == nil {
		return
	}
	if err := svc.leaderboardSvc.RefreshLeaderboard(userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Leaderboard refresh failed")
	}
}

// ==================== QUERIES ====================

func (svc *GamificationService) GetUserGamification(userID string) (*dto.GamificationProfileResponse, error) {
	profile, err := svc.profileRepo.GetProfile(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "User profile not found")
	}

	achievements, err := svc.profileRepo.GetUserAchievements(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to load achievements")
		achievements = []model.Achievement{}
	}

	achievementResponses := make([]dto.AchievementResponse, len(achievements))
	badgeResponses := make([]dto.BadgeResponse, 0, len(achievements))
	for i, a := range achievements {
		badge := mapBadge(&a.Badge)
		achievementResponses[i] = dto.AchievementResponse{
			ID:       a.ID,
			Badge:    badge,
			EarnedAt: a.EarnedAt,
			Points:   a.Points,
			IsNew:    a.IsNew,
		}
		badgeResponses = append(badgeResponses, badge)
	}

	return &dto.GamificationProfileResponse{
		UserID:                 profile.UserID,
		TotalPoints:            profile.TotalPoints,
		CurrentLevel:           profile.CurrentLevel,
		ExperiencePoints:       profile.ExperiencePoints,
		PointsToNextLevel:      XPToNextLevel(profile.ExperiencePoints),
		Streak:                 profile.Streak,
		LongestStreak:          profile.LongestStreak,
		LastActiveDate:         profile.LastActiveDate,
		WeeklyGoal:             profile.WeeklyGoal,
		MonthlyGoal:            profile.MonthlyGoal,
		TotalStudyTime:         profile.TotalStudyTime,
		CoursesCompleted:       profile.CoursesCompleted,
		LessonsCompleted:       profile.LessonsCompleted,
		QuizzesPassed:          profile.QuizzesPassed,
		CodeExercisesCompleted: profile.CodeExercisesCompleted,
		CertificatesEarned:     profile.CertificatesEarned,
		Badges:                 badgeResponses,
		Achievements:           achievementResponses,
	}, nil
}

// MarkAchievementsSeen clears the isNew flag once the client has shown the
// unlock animation.
func (svc *GamificationService) MarkAchievementsSeen(userID string) error {
	if err := svc.profileRepo.MarkAchievementsSeen(userID); err != nil {
		return shared.NewInternalError(err, "Failed to mark achievements seen")
	}
	return nil
}

func (svc *GamificationService) UpdateGoals(userID string, req dto.UpdateGoalsRequest) (*model.UserProfile, error) {
	unlock := svc.lockUser(userID)
	defer unlock()

	profile, err := svc.profileRepo.GetOrCreateProfile(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user profile")
	}

	if req.WeeklyGoal != nil {
		profile.WeeklyGoal = *req.WeeklyGoal
	}
	if req.MonthlyGoal != nil {
		profile.MonthlyGoal = *req.MonthlyGoal
	}

	if err := svc.profileRepo.UpdateProfile(profile); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist goals")
	}
	return profile, nil
}

// ==================== HELPERS ====================

// scaledPoints converts a 0-100 score into a share of maxPoints, rounded.
func scaledPoints(score, maxPoints int) int {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(float64(score) / 100 * float64(maxPoints)))
}

func mapBadge(badge *model.Badge) dto.BadgeResponse {
	return dto.BadgeResponse{
		ID:          badge.ID,
		Name:        badge.Name,
		Description: badge.Description,
		Icon:        badge.Icon,
		Category:    badge.Category,
		Rarity:      badge.Rarity,
		Points:      badge.Points,
	}
}

func mapBadges(badges []model.Badge) []dto.BadgeResponse {
	out := make([]dto.BadgeResponse, len(badges))
	for i := range badges {
		out[i] = mapBadge(&badges[i])
	}
	return out
}

func decodeIDList(raw json.RawMessage) []string {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []string{}
	}
	return ids
}

func encodeIDList(ids []string) json.RawMessage {
	data, err := json.Marshal(ids)
	if err != nil {
		return json.RawMessage("[]")
	}
	return data
}
