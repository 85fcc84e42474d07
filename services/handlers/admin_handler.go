package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/seed/seeders"
	"github.com/skillside-labs/questly_api/shared"
)

type AdminHandler struct {
	catalogSvc     CatalogServiceInterface
	leaderboardSvc LeaderboardServiceInterface
}

func NewAdminHandler(catalogSvc CatalogServiceInterface, leaderboardSvc LeaderboardServiceInterface) *AdminHandler {
	return &AdminHandler{
		catalogSvc:     catalogSvc,
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary List badges
// @Description List all active badges in the catalog
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/admin/badges [get]
func (h *AdminHandler) GetBadges(c *fiber.Ctx) error {
	badges, err := h.catalogSvc.GetBadges()
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, badges)
}

// @Summary Create badge
// @Description Add a badge with threshold requirements to the catalog
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateBadgeRequest true "Badge definition"
// @Success 201 {object} shared.Response{data=dto.BadgeResponse}
// @Router /api/v1/admin/badges [post]
func (h *AdminHandler) CreateBadge(c *fiber.Ctx) error {
	var req dto.CreateBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	badge, err := h.catalogSvc.CreateBadge(&req)
	if err != nil {
		return err
	}

	return shared.ResponseCreated(c, badge)
}

// @Summary Deactivate badge
// @Description Retire a badge from evaluation; earned achievements are kept
// @Tags admin
// @Produce json
// @Security Bearer
// @Param badgeId path string true "Badge ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/badges/{badgeId} [delete]
func (h *AdminHandler) DeactivateBadge(c *fiber.Ctx) error {
	badgeID := c.Params("badgeId")

	if err := h.catalogSvc.DeactivateBadge(badgeID); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}

// @Summary Upload badge icon
// @Description Store a badge icon and attach its URL to the badge
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param badgeId path string true "Badge ID"
// @Param icon formData file true "Icon file (png, jpg, svg or webp)"
// @Success 200 {object} shared.Response{data=dto.BadgeIconUploadResponse}
// @Router /api/v1/admin/badges/{badgeId}/icon [post]
func (h *AdminHandler) UploadBadgeIcon(c *fiber.Ctx) error {
	badgeID := c.Params("badgeId")

	fileHeader, err := c.FormFile("icon")
	if err != nil {
		return shared.NewBadRequestError(err, "Icon file is required")
	}

	resp, err := h.catalogSvc.UploadBadgeIcon(badgeID, fileHeader)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Seed catalog defaults
// @Description Replace the badge and challenge catalogs with the built-in definitions
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/seed [post]
func (h *AdminHandler) SeedDefaults(c *fiber.Ctx) error {
	if err := h.catalogSvc.SeedDefaults(seeders.DefaultBadges(), seeders.DefaultChallenges()); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}

// @Summary Refresh user leaderboard entries
// @Description Re-project one user's counters into all leaderboard entries
// @Tags admin
// @Produce json
// @Security Bearer
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/leaderboard/refresh/{userId} [post]
func (h *AdminHandler) RefreshLeaderboard(c *fiber.Ctx) error {
	userID := c.Params("userId")

	if err := h.leaderboardSvc.RefreshLeaderboard(userID); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}
