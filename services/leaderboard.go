// services/leaderboard.go
package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LeaderboardService materializes per-user counters into ranked snapshots.
// Entries are a projection: rebuildable at any time, rank computed at read
// time from sort position, reads cached in redis for a short window.
type LeaderboardService struct {
	appContext.DefaultService

	redisSvc *RedisService

	profileRepo *repositories.ProfileRepository
	catalogRepo *repositories.CatalogRepository
	userRepo    *repositories.UserRepository
}

const LEADERBOARD_SVC = "leaderboard_svc"

const leaderboardCacheTTL = 30 * time.Second

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *LeaderboardService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(SqlService)
	svc.setDB(sqlSvc.Db())

	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	return nil
}

func (svc *LeaderboardService) setDB(db *gorm.DB) {
	svc.profileRepo = repositories.NewProfileRepository(db)
	svc.catalogRepo = repositories.NewCatalogRepository(db)
	svc.userRepo = repositories.NewUserRepository(db)
}

// RefreshLeaderboard re-projects one user's counters into every
// period x category entry. Full re-projection, not a delta; nothing updates
// entries except calls to this method.
func (svc *LeaderboardService) RefreshLeaderboard(userID string) error {
	profile, err := svc.profileRepo.GetProfile(userID)
	if err != nil {
		return shared.NewNotFoundError(err, "User profile not found")
	}

	for _, period := range shared.LeaderboardPeriods {
		for _, category := range shared.LeaderboardCategories {
			entry := &model.LeaderboardEntry{
				UserID:   userID,
				Period:   period,
				Category: category,
				Points:   categoryValue(profile, category),
				Level:    profile.CurrentLevel,
				Rank:     0, // placeholder, real rank comes from sort position
			}
			if err := svc.catalogRepo.UpsertLeaderboardEntry(entry); err != nil {
				return shared.NewInternalError(err, "Failed to upsert leaderboard entry")
			}
		}
	}

	svc.invalidateCache()
	return nil
}

// categoryValue picks the profile counter a leaderboard category tracks.
func categoryValue(profile *model.UserProfile, category string) int {
	switch category {
	case shared.CategoryStreak:
		return profile.Streak
	case shared.CategoryCourses:
		return profile.CoursesCompleted
	case shared.CategoryTime:
		return profile.TotalStudyTime
	default:
		return profile.TotalPoints
	}
}

// GetLeaderboard returns the top entries for a period and category, ranked
// by descending value. Ties break by storage order, which is not guaranteed
// stable.
func (svc *LeaderboardService) GetLeaderboard(period, category string, limit int) (*dto.LeaderboardResponse, error) {
	if !validPeriod(period) {
		return nil, shared.NewBadRequestError(fmt.Errorf("period %q", period), "Invalid leaderboard period")
	}
	if !validCategory(category) {
		return nil, shared.NewBadRequestError(fmt.Errorf("category %q", category), "Invalid leaderboard category")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%s:%d", period, category, limit)
	if svc.redisSvc != nil {
		var cached dto.LeaderboardResponse
		if err := svc.redisSvc.GetJSON(context.Background(), cacheKey, &cached); err == nil && cached.Period != "" {
			return &cached, nil
		}
	}

	entries, err := svc.catalogRepo.GetTopLeaderboardEntries(period, category, limit)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load leaderboard")
	}

	userIDs := make([]string, len(entries))
	for i, e := range entries {
		userIDs[i] = e.UserID
	}

	usersByID := map[string]model.User{}
	if len(userIDs) > 0 {
		usersByID, err = svc.userRepo.GetUsersByIDs(userIDs)
		if err != nil {
			log.WithError(err).Warn("Failed to join leaderboard usernames")
			usersByID = map[string]model.User{}
		}
	}

	rows := make([]dto.LeaderboardUserResponse, len(entries))
	for i, e := range entries {
		row := dto.LeaderboardUserResponse{
			UserID: e.UserID,
			Points: e.Points,
			Level:  e.Level,
			Rank:   i + 1,
		}
		if user, ok := usersByID[e.UserID]; ok {
			row.Username = user.Username
		}
		rows[i] = row
	}

	response := &dto.LeaderboardResponse{
		Period:   period,
		Category: category,
		Entries:  rows,
	}

	if svc.redisSvc != nil {
		if err := svc.redisSvc.Set(context.Background(), cacheKey, response, leaderboardCacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache leaderboard")
		}
	}

	return response, nil
}

func (svc *LeaderboardService) invalidateCache() {
	if svc.redisSvc == nil {
		return
	}

	ctx := context.Background()
	keys, err := svc.redisSvc.Keys(ctx, "leaderboard:*")
	if err != nil || len(keys) == 0 {
		return
	}
	if err := svc.redisSvc.Delete(ctx, keys...); err != nil {
		log.WithError(err).Warn("Failed to invalidate leaderboard cache")
	}
}

func validPeriod(period string) bool {
	for _, p := range shared.LeaderboardPeriods {
		if p == period {
			return true
		}
	}
	return false
}

func validCategory(category string) bool {
	for _, c := range shared.LeaderboardCategories {
		if c == category {
			return true
		}
	}
	return false
}
