package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/shared"
)

func TestRefreshLeaderboardProjectsAllCombinations(t *testing.T) {
	gamSvc, _, lbSvc, db := newTestEngine(t)

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.LeaderboardEntry{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(len(shared.LeaderboardPeriods)*len(shared.LeaderboardCategories)), count)

	// A second refresh upserts in place instead of duplicating rows
	require.NoError(t, lbSvc.RefreshLeaderboard("user-1"))
	require.NoError(t, db.Model(&model.LeaderboardEntry{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(len(shared.LeaderboardPeriods)*len(shared.LeaderboardCategories)), count)
}

func TestGetLeaderboardRanking(t *testing.T) {
	gamSvc, _, lbSvc, db := newTestEngine(t)

	require.NoError(t, db.Create(&model.User{ID: "user-1", Email: "a@example.com", Username: "alice", Password: "x"}).Error)
	require.NoError(t, db.Create(&model.User{ID: "user-2", Email: "b@example.com", Username: "bob", Password: "x"}).Error)

	// bob finishes a course (100 points), alice a lesson (10 points)
	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)
	_, err = gamSvc.TrackCourseCompletion("user-2", "c")
	require.NoError(t, err)

	resp, err := lbSvc.GetLeaderboard(shared.PeriodAllTime, shared.CategoryPoints, 10)
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "bob", resp.Entries[0].Username)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, 100, resp.Entries[0].Points)
	assert.Equal(t, "alice", resp.Entries[1].Username)
	assert.Equal(t, 2, resp.Entries[1].Rank)
}

func TestGetLeaderboardByStreakCategory(t *testing.T) {
	gamSvc, _, lbSvc, _ := newTestEngine(t)

	_, err := gamSvc.TrackLessonCompletion("user-1", "c", "l1")
	require.NoError(t, err)

	resp, err := lbSvc.GetLeaderboard(shared.PeriodDaily, shared.CategoryStreak, 10)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 1, resp.Entries[0].Points) // streak of 1
}

func TestGetLeaderboardValidation(t *testing.T) {
	_, _, lbSvc, _ := newTestEngine(t)

	_, err := lbSvc.GetLeaderboard("hourly", shared.CategoryPoints, 10)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	_, err = lbSvc.GetLeaderboard(shared.PeriodDaily, "xp", 10)
	require.Error(t, err)
}
