package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/seed/seeders"
	"github.com/skillside-labs/questly_api/shared"
)

func seedChallenge(t *testing.T, db *gorm.DB, challenge model.DailyChallenge) model.DailyChallenge {
	t.Helper()

	now := time.Now()
	challenge.StartDate = now.Add(-time.Hour)
	challenge.EndDate = now.Add(23 * time.Hour)
	challenge.IsActive = true
	require.NoError(t, db.Create(&challenge).Error)
	return challenge
}

func TestChallengeProgressClamped(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	challenge := seedChallenge(t, db, model.DailyChallenge{
		ID:           "ch-lessons",
		Title:        "Daily Dose",
		Type:         shared.ChallengeCompleteLessons,
		Target:       3,
		RewardPoints: 30,
	})

	_, err := gamSvc.GetOrCreateProfile("user-1")
	require.NoError(t, err)

	progress, err := chalSvc.UpdateChallengeProgress("user-1", challenge.ID, 10)
	require.NoError(t, err)

	// Progress never exceeds the target
	assert.Equal(t, 3, progress.Progress)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
}

func TestChallengeRewardFiresOnce(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	challenge := seedChallenge(t, db, model.DailyChallenge{
		ID:           "ch-lessons",
		Title:        "Daily Dose",
		Type:         shared.ChallengeCompleteLessons,
		Target:       2,
		RewardPoints: 30,
	})

	_, err := gamSvc.GetOrCreateProfile("user-1")
	require.NoError(t, err)

	_, err = chalSvc.UpdateChallengeProgress("user-1", challenge.ID, 2)
	require.NoError(t, err)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, profile.TotalPoints)

	// Completion already latched; more updates never re-award
	_, err = chalSvc.UpdateChallengeProgress("user-1", challenge.ID, 2)
	require.NoError(t, err)

	profile, err = gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, 30, profile.TotalPoints)
}

func TestLessonCompletionAdvancesChallenge(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	challenge := seedChallenge(t, db, model.DailyChallenge{
		ID:           "ch-lessons",
		Title:        "Daily Dose",
		Type:         shared.ChallengeCompleteLessons,
		Target:       2,
		RewardPoints: 30,
	})

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	progress, err := chalSvc.catalogRepo.GetChallengeProgress("user-1", challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Progress)
	assert.False(t, progress.IsCompleted)

	_, err = gamSvc.TrackLessonCompletion("user-1", "c", "l2")
	require.NoError(t, err)

	progress, err = chalSvc.catalogRepo.GetChallengeProgress("user-1", challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Progress)
	assert.True(t, progress.IsCompleted)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	// 2 lessons at 10 points each plus the 30 point challenge reward
	assert.Equal(t, 50, profile.TotalPoints)
}

func TestScoreChallengeRequiresThreshold(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	challenge := seedChallenge(t, db, model.DailyChallenge{
		ID:           "ch-quiz",
		Title:        "Sharp Shooter",
		Type:         shared.ChallengeQuizScore,
		Target:       80,
		RewardPoints: 50,
	})

	// Below the threshold: no progress row completion
	_, err := gamSvc.TrackQuizCompletion("user-1", "q1", 79, true)
	require.NoError(t, err)

	if progress, err := chalSvc.catalogRepo.GetChallengeProgress("user-1", challenge.ID); err == nil {
		assert.False(t, progress.IsCompleted)
	}

	// At or above the threshold: complete in one shot
	_, err = gamSvc.TrackQuizCompletion("user-1", "q2", 85, true)
	require.NoError(t, err)

	progress, err := chalSvc.catalogRepo.GetChallengeProgress("user-1", challenge.ID)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
}

func TestClaimChallengeReward(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)
	seedBadge(t, db, model.Badge{
		ID:     "badge_reward",
		Name:   "Challenge Trophy",
		Rarity: shared.RarityRare,
		Points: 5,
		// Unreachable by the evaluator, only grantable as a reward
		Requirements: mustRequirements(t, model.BadgeRequirement{
			CounterType:    shared.CounterPoints,
			ThresholdValue: 1 << 30,
			ComparisonOp:   shared.CompareGreaterThan,
		}),
	})

	challenge := seedChallenge(t, db, model.DailyChallenge{
		ID:            "ch-lessons",
		Title:         "Daily Dose",
		Type:          shared.ChallengeCompleteLessons,
		Target:        1,
		RewardPoints:  10,
		RewardBadgeID: "badge_reward",
	})

	_, err := gamSvc.GetOrCreateProfile("user-1")
	require.NoError(t, err)

	// Claiming before completion is rejected
	_, err = chalSvc.UpdateChallengeProgress("user-1", challenge.ID, 0)
	require.NoError(t, err)
	_, err = chalSvc.ClaimChallengeReward("user-1", challenge.ID)
	require.Error(t, err)

	_, err = chalSvc.UpdateChallengeProgress("user-1", challenge.ID, 1)
	require.NoError(t, err)

	progress, err := chalSvc.ClaimChallengeReward("user-1", challenge.ID)
	require.NoError(t, err)
	assert.True(t, progress.RewardClaimed)

	achievements, err := gamSvc.profileRepo.GetUserAchievements("user-1")
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "badge_reward", achievements[0].BadgeID)

	// Double claim is a conflict
	_, err = chalSvc.ClaimChallengeReward("user-1", challenge.ID)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestDailyReseedIssuesFreshChallenges(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	require.NoError(t, chalSvc.catalogRepo.ReplaceChallenges(seeders.DefaultChallenges()))

	day1, err := chalSvc.catalogRepo.GetActiveChallenges(shared.ChallengeCompleteLessons, time.Now())
	require.NoError(t, err)
	require.Len(t, day1, 1)

	for _, lesson := range []string{"l1", "l2", "l3"} {
		_, err = gamSvc.TrackLessonCompletion("user-1", "c", lesson)
		require.NoError(t, err)
	}

	progress, err := chalSvc.catalogRepo.GetChallengeProgress("user-1", day1[0].ID)
	require.NoError(t, err)
	require.True(t, progress.IsCompleted)

	profile, err := gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	// 3 lessons at 10 points each plus the 30 point challenge reward
	assert.Equal(t, 60, profile.TotalPoints)

	// The next day's reseed replaces the catalog
	require.NoError(t, chalSvc.catalogRepo.ReplaceChallenges(seeders.DefaultChallenges()))

	day2, err := chalSvc.catalogRepo.GetActiveChallenges(shared.ChallengeCompleteLessons, time.Now())
	require.NoError(t, err)
	require.Len(t, day2, 1)
	assert.NotEqual(t, day1[0].ID, day2[0].ID)

	// Yesterday's progress must not bind to the reissued challenge
	_, err = chalSvc.catalogRepo.GetChallengeProgress("user-1", day1[0].ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, lesson := range []string{"l4", "l5", "l6"} {
		_, err = gamSvc.TrackLessonCompletion("user-1", "c", lesson)
		require.NoError(t, err)
	}

	progress, err = chalSvc.catalogRepo.GetChallengeProgress("user-1", day2[0].ID)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)

	profile, err = gamSvc.profileRepo.GetProfile("user-1")
	require.NoError(t, err)
	// The daily reward fires again for the fresh challenge
	assert.Equal(t, 120, profile.TotalPoints)
}

func TestGetDailyChallenges(t *testing.T) {
	gamSvc, chalSvc, _, db := newTestEngine(t)

	seedChallenge(t, db, model.DailyChallenge{
		ID:     "ch-lessons",
		Title:  "Daily Dose",
		Type:   shared.ChallengeCompleteLessons,
		Target: 3,
	})

	// Expired challenges stay hidden
	expired := model.DailyChallenge{
		ID:        "ch-old",
		Title:     "Yesterday",
		Type:      shared.ChallengeCompleteLessons,
		Target:    1,
		IsActive:  true,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	resp, err := chalSvc.GetDailyChallenges("user-1")
	require.NoError(t, err)
	require.Len(t, resp.Challenges, 1)
	assert.Equal(t, "ch-lessons", resp.Challenges[0].ChallengeID)
	assert.Equal(t, 1, resp.Challenges[0].Progress)
}
