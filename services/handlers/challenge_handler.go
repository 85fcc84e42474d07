package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/shared"
)

type ChallengeHandler struct {
	challengeSvc ChallengeServiceInterface
}

func NewChallengeHandler(challengeSvc ChallengeServiceInterface) *ChallengeHandler {
	return &ChallengeHandler{
		challengeSvc: challengeSvc,
	}
}

// @Summary Get daily challenges
// @Description List the currently active challenges with the user's progress
// @Tags challenges
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DailyChallengesResponse}
// @Router /api/v1/challenges [get]
func (h *ChallengeHandler) GetDailyChallenges(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.challengeSvc.GetDailyChallenges(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Claim challenge reward
// @Description Claim the badge reward of a completed challenge
// @Tags challenges
// @Produce json
// @Security Bearer
// @Param challengeId path string true "Challenge ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/challenges/{challengeId}/claim [post]
func (h *ChallengeHandler) ClaimReward(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	challengeID := c.Params("challengeId")

	progress, err := h.challengeSvc.ClaimChallengeReward(userID, challengeID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, progress)
}
