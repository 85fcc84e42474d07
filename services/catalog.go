package services

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
	"github.com/skillside-labs/questly_api/services/repositories"
	"github.com/skillside-labs/questly_api/shared"
)

// CatalogService manages the badge and daily challenge catalogs. Admin-only
// surface; the evaluation engine only ever reads these tables.
type CatalogService struct {
	context.DefaultService

	catalogRepo *repositories.CatalogRepository
	minioSvc    *MinIOService
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	sqlSvc := svc.Service(SQL_SVC).(SqlService)
	svc.setDB(sqlSvc.Db())

	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)

	return nil
}

func (svc *CatalogService) setDB(db *gorm.DB) {
	svc.catalogRepo = repositories.NewCatalogRepository(db)
}

func (svc *CatalogService) CreateBadge(req *dto.CreateBadgeRequest) (*dto.BadgeResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid badge definition")
	}

	requirements := make([]model.BadgeRequirement, len(req.Requirements))
	for i, r := range req.Requirements {
		op := r.ComparisonOp
		if op == "" {
			op = shared.CompareGreaterThan
		}
		requirements[i] = model.BadgeRequirement{
			CounterType:    r.CounterType,
			ThresholdValue: r.ThresholdValue,
			ComparisonOp:   op,
		}
	}

	raw, err := json.Marshal(requirements)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode badge requirements")
	}

	badge := &model.Badge{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		Category:     req.Category,
		Rarity:       req.Rarity,
		Points:       req.Points,
		Requirements: raw,
		IsActive:     true,
	}

	if err := svc.catalogRepo.CreateBadge(badge); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create badge")
	}

	log.Infof("Created badge %s (%s)", badge.Name, badge.ID)
	resp := mapBadge(badge)
	return &resp, nil
}

// DeactivateBadge retires a badge from evaluation without deleting earned
// achievements that reference it.
func (svc *CatalogService) DeactivateBadge(badgeID string) error {
	badge, err := svc.catalogRepo.GetBadge(badgeID)
	if err != nil {
		return shared.NewNotFoundError(err, "Badge not found")
	}

	if !badge.IsActive {
		return nil
	}

	badge.IsActive = false
	if err := svc.catalogRepo.UpdateBadge(badge); err != nil {
		return shared.NewInternalError(err, "Failed to deactivate badge")
	}

	log.Infof("Deactivated badge %s", badgeID)
	return nil
}

func (svc *CatalogService) GetBadges() ([]dto.BadgeResponse, error) {
	badges, err := svc.catalogRepo.GetActiveBadges()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load badges")
	}
	return mapBadges(badges), nil
}

// SeedDefaults replaces both catalogs with the built-in definitions.
// Replace-all semantics, same as the seed command.
func (svc *CatalogService) SeedDefaults(badges []model.Badge, challenges []model.DailyChallenge) error {
	if err := svc.catalogRepo.ReplaceBadges(badges); err != nil {
		return shared.NewInternalError(err, "Failed to seed badges")
	}
	if err := svc.catalogRepo.ReplaceChallenges(challenges); err != nil {
		return shared.NewInternalError(err, "Failed to seed challenges")
	}

	log.Infof("Seeded catalog: %d badges, %d challenges", len(badges), len(challenges))
	return nil
}

func (svc *CatalogService) UploadBadgeIcon(badgeID string, fileHeader *multipart.FileHeader) (*dto.BadgeIconUploadResponse, error) {
	badge, err := svc.catalogRepo.GetBadge(badgeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Badge not found")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".svg" && ext != ".webp" {
		return nil, shared.NewBadRequestError(nil, "Unsupported icon format")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read uploaded file")
	}
	defer file.Close()

	objectName := fmt.Sprintf("badges/%s%s", badge.ID, ext)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := svc.minioSvc.UploadFile(objectName, file, fileHeader.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to store badge icon")
	}

	iconURL, err := svc.minioSvc.GetFileURL(objectName, 7*24*time.Hour)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate icon URL")
	}

	badge.Icon = iconURL
	if err := svc.catalogRepo.UpdateBadge(badge); err != nil {
		return nil, shared.NewInternalError(err, "Failed to update badge icon")
	}

	return &dto.BadgeIconUploadResponse{
		BadgeID:  badge.ID,
		IconURL:  iconURL,
		FileSize: fileHeader.Size,
	}, nil
}
