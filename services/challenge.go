// services/challenge.go
package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChallengeService tracks per-user progress against the time-boxed challenge
// catalog. Completion is monotonic and fires the reward exactly once.
type ChallengeService struct {
	context.DefaultService

	gamificationSvc *GamificationService

	catalogRepo *repositories.CatalogRepository
}

const CHALLENGE_SVC = "challenge_svc"

func (svc ChallengeService) Id() string {
	return CHALLENGE_SVC
}

func (svc *ChallengeService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ChallengeService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(SqlService)
	svc.setDB(sqlSvc.Db())

	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)

	return nil
}

func (svc *ChallengeService) setDB(db *gorm.DB) {
	svc.catalogRepo = repositories.NewCatalogRepository(db)
}

// UpdateChallengeProgress is the external entry point; it serializes on the
// same per-user lock as the rest of the engine.
func (svc *ChallengeService) UpdateChallengeProgress(userID, challengeID string, newProgress int) (*model.UserChallengeProgress, error) {
	unlock := svc.gamificationSvc.lockUser(userID)
	defer unlock()

	challenge, err := svc.catalogRepo.GetChallenge(challengeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Challenge not found")
	}

	return svc.updateChallengeProgress(userID, challenge, newProgress)
}

// updateChallengeProgress clamps progress to the target and flips completion
// at most once, awarding the challenge reward on that transition. Callers
// must hold the user lock.
func (svc *ChallengeService) updateChallengeProgress(userID string, challenge *model.DailyChallenge, newProgress int) (*model.UserChallengeProgress, error) {
	progress, err := svc.catalogRepo.GetChallengeProgress(userID, challenge.ID)
	if err != nil {
		progress = &model.UserChallengeProgress{
			UserID:      userID,
			ChallengeID: challenge.ID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := svc.catalogRepo.CreateChallengeProgress(progress); err != nil {
			return nil, shared.NewInternalError(err, "Failed to create challenge progress")
		}
	}

	if newProgress < 0 {
		newProgress = 0
	}
	if newProgress > challenge.Target {
		newProgress = challenge.Target
	}
	progress.Progress = newProgress

	if progress.Progress >= challenge.Target && !progress.IsCompleted {
		now := time.Now()
		progress.IsCompleted = true
		progress.CompletedAt = &now
		recordChallengeCompleted(challenge.Type)

		if _, _, err := svc.gamificationSvc.awardPoints(userID, challenge.RewardPoints, challenge.Title); err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "challenge_id": challenge.ID}).
				Error("Failed to award challenge reward")
		}
	}

	if err := svc.catalogRepo.UpdateChallengeProgress(progress); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist challenge progress")
	}

	return progress, nil
}

// advanceChallenges applies an advance function to every active challenge of
// the given type for the user. Completed challenges are left alone. Callers
// must hold the user lock.
func (svc *ChallengeService) advanceChallenges(userID, challengeType string, advance func(current int) int) {
	challenges, err := svc.catalogRepo.GetActiveChallenges(challengeType, time.Now())
	if err != nil {
		log.WithError(err).WithField("type", challengeType).Error("Failed to load active challenges")
		return
	}

	for i := range challenges {
		challenge := &challenges[i]

		current := 0
		if existing, err := svc.catalogRepo.GetChallengeProgress(userID, challenge.ID); err == nil {
			if existing.IsCompleted {
				continue
			}
			current = existing.Progress
		}

		if _, err := svc.updateChallengeProgress(userID, challenge, advance(current)); err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "challenge_id": challenge.ID}).
				Error("Failed to advance challenge")
		}
	}
}

// advanceScoreChallenges completes score-threshold challenges when a single
// submission reaches the challenge target.
func (svc *ChallengeService) advanceScoreChallenges(userID, challengeType string, score int) {
	challenges, err := svc.catalogRepo.GetActiveChallenges(challengeType, time.Now())
	if err != nil {
		log.WithError(err).WithField("type", challengeType).Error("Failed to load active challenges")
		return
	}

	for i := range challenges {
		challenge := &challenges[i]
		if score < challenge.Target {
			continue
		}
		if existing, err := svc.catalogRepo.GetChallengeProgress(userID, challenge.ID); err == nil && existing.IsCompleted {
			continue
		}

		if _, err := svc.updateChallengeProgress(userID, challenge, score); err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "challenge_id": challenge.ID}).
				Error("Failed to advance score challenge")
		}
	}
}

// ClaimChallengeReward hands out the optional attached badge. Completion
// already auto-awarded the points; claiming is the separate, user-driven
// step.
func (svc *ChallengeService) ClaimChallengeReward(userID, challengeID string) (*model.UserChallengeProgress, error) {
	unlock := svc.gamificationSvc.lockUser(userID)
	defer unlock()

	progress, err := svc.catalogRepo.GetChallengeProgress(userID, challengeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Challenge progress not found")
	}

	if !progress.IsCompleted {
		return nil, shared.NewBadRequestError(fmt.Errorf("challenge %s not completed", challengeID), "Challenge is not completed yet")
	}
	if progress.RewardClaimed {
		return nil, shared.NewConflictError(fmt.Errorf("challenge %s already claimed", challengeID), "Reward already claimed")
	}

	challenge, err := svc.catalogRepo.GetChallenge(challengeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Challenge not found")
	}

	if challenge.RewardBadgeID != "" {
		if err := svc.gamificationSvc.grantBadge(userID, challenge.RewardBadgeID); err != nil {
			return nil, err
		}
	}

	progress.RewardClaimed = true
	if err := svc.catalogRepo.UpdateChallengeProgress(progress); err != nil {
		return nil, shared.NewInternalError(err, "Failed to persist reward claim")
	}

	return progress, nil
}

// GetDailyChallenges returns the currently active challenges with the
// user's progress attached (zero progress when the user has none yet).
func (svc *ChallengeService) GetDailyChallenges(userID string) (*dto.DailyChallengesResponse, error) {
	challenges, err := svc.catalogRepo.GetActiveChallenges("", time.Now())
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load challenges")
	}

	challengeIDs := make([]string, len(challenges))
	for i, c := range challenges {
		challengeIDs[i] = c.ID
	}

	progressByID := map[string]model.UserChallengeProgress{}
	if len(challengeIDs) > 0 {
		progressRows, err := svc.catalogRepo.GetUserChallengeProgress(userID, challengeIDs)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Failed to load challenge progress")
		} else {
			for _, p := range progressRows {
				progressByID[p.ChallengeID] = p
			}
		}
	}

	out := make([]dto.ChallengeProgressResponse, len(challenges))
	for i, c := range challenges {
		entry := dto.ChallengeProgressResponse{
			ChallengeID:  c.ID,
			Title:        c.Title,
			Description:  c.Description,
			Type:         c.Type,
			Target:       c.Target,
			RewardPoints: c.RewardPoints,
			EndDate:      c.EndDate,
		}
		if p, ok := progressByID[c.ID]; ok {
			entry.Progress = p.Progress
			entry.IsCompleted = p.IsCompleted
			entry.CompletedAt = p.CompletedAt
			entry.RewardClaimed = p.RewardClaimed
		}
		out[i] = entry
	}

	return &dto.DailyChallengesResponse{Challenges: out}, nil
}
