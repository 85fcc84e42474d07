package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/shared"
)

type LeaderboardHandler struct {
	leaderboardSvc LeaderboardServiceInterface
}

func NewLeaderboardHandler(leaderboardSvc LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary Get leaderboard
// @Description Get ranked entries for a period and category
// @Tags leaderboard
// @Produce json
// @Param period query string false "Period: daily, weekly, monthly, all_time (default all_time)"
// @Param category query string false "Category: points, streak, courses, time (default points)"
// @Param limit query int false "Limit results (default 50, max 100)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	period := c.Query("period", shared.PeriodAllTime)
	category := c.Query("category", shared.CategoryPoints)

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	resp, err := h.leaderboardSvc.GetLeaderboard(period, category, limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
