package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	GetMe(userID string) (*dto.UserInfo, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, string, error)
}

type GamificationServiceInterface interface {
	GetOrCreateProfile(userID string) (*model.UserProfile, error)
	GetUserGamification(userID string) (*dto.GamificationProfileResponse, error)
	TrackLessonCompletion(userID, courseID, lessonID string) (*dto.TrackEventResponse, error)
	TrackCourseCompletion(userID, courseID string) (*dto.TrackEventResponse, error)
	TrackQuizCompletion(userID, quizID string, score int, passed bool) (*dto.TrackEventResponse, error)
	TrackCodeExerciseCompletion(userID, exerciseID string, score int) (*dto.TrackEventResponse, error)
	TrackStudyTime(userID string, minutes int) (*model.UserProfile, error)
	MarkAchievementsSeen(userID string) error
	UpdateGoals(userID string, req dto.UpdateGoalsRequest) (*model.UserProfile, error)
}

type ChallengeServiceInterface interface {
	GetDailyChallenges(userID string) (*dto.DailyChallengesResponse, error)
	UpdateChallengeProgress(userID, challengeID string, newProgress int) (*model.UserChallengeProgress, error)
	ClaimChallengeReward(userID, challengeID string) (*model.UserChallengeProgress, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(period, category string, limit int) (*dto.LeaderboardResponse, error)
	RefreshLeaderboard(userID string) error
}

type CatalogServiceInterface interface {
	CreateBadge(req *dto.CreateBadgeRequest) (*dto.BadgeResponse, error)
	DeactivateBadge(badgeID string) error
	GetBadges() ([]dto.BadgeResponse, error)
	SeedDefaults(badges []model.Badge, challenges []model.DailyChallenge) error
	UploadBadgeIcon(badgeID string, fileHeader *multipart.FileHeader) (*dto.BadgeIconUploadResponse, error)
}
