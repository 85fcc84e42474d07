// services/repositories/catalog_repository.go
package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/skillside-labs/questly_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository handles the badge and challenge catalogs plus the
// leaderboard projection rows derived from them.
type CatalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== BADGES ====================

func (ds *CatalogRepository) GetActiveBadges() ([]model.Badge, error) {
	var badges []model.Badge
	if err := ds.db.Where("is_active = ?", true).Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (ds *CatalogRepository) GetBadge(badgeID string) (*model.Badge, error) {
	var badge model.Badge
	if err := ds.db.Where("id = ?", badgeID).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (ds *CatalogRepository) CreateBadge(badge *model.Badge) error {
	if badge.ID == "" {
		id, _ := uuid.NewV7()
		badge.ID = id.String()
	}
	badge.CreatedAt = time.Now()
	badge.UpdatedAt = badge.CreatedAt
	return ds.db.Create(badge).Error
}

func (ds *CatalogRepository) UpdateBadge(badge *model.Badge) error {
	badge.UpdatedAt = time.Now()
	return ds.db.Save(badge).Error
}

// ReplaceBadges wipes the badge catalog and reinserts the given definitions.
// Seeding semantics are replace-all, not merge.
func (ds *CatalogRepository) ReplaceBadges(badges []model.Badge) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Badge{}).Error; err != nil {
			return err
		}
		for i := range badges {
			if badges[i].ID == "" {
				id, _ := uuid.NewV7()
				badges[i].ID = id.String()
			}
			badges[i].CreatedAt = time.Now()
			badges[i].UpdatedAt = badges[i].CreatedAt
		}
		if len(badges) == 0 {
			return nil
		}
		return tx.Create(&badges).Error
	})
}

// ==================== CHALLENGES ====================

// GetActiveChallenges returns challenges whose window contains now, filtered
// by type when challengeType is non-empty.
func (ds *CatalogRepository) GetActiveChallenges(challengeType string, now time.Time) ([]model.DailyChallenge, error) {
	query := ds.db.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now)
	if challengeType != "" {
		query = query.Where("type = ?", challengeType)
	}

	var challenges []model.DailyChallenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (ds *CatalogRepository) GetChallenge(challengeID string) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	if err := ds.db.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ReplaceChallenges wipes the challenge catalog and reinserts the given
// definitions under fresh ids, then drops progress rows that no longer point
// at a live challenge. Progress must not survive a reseed: a daily challenge
// reissued with yesterday's identity would inherit yesterday's completion.
func (ds *CatalogRepository) ReplaceChallenges(challenges []model.DailyChallenge) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.DailyChallenge{}).Error; err != nil {
			return err
		}
		ids := make([]string, 0, len(challenges))
		for i := range challenges {
			if challenges[i].ID == "" {
				id, _ := uuid.NewV7()
				challenges[i].ID = id.String()
			}
			challenges[i].CreatedAt = time.Now()
			challenges[i].UpdatedAt = challenges[i].CreatedAt
			ids = append(ids, challenges[i].ID)
		}

		cleanup := tx.Where("1 = 1")
		if len(ids) > 0 {
			cleanup = tx.Where("challenge_id NOT IN ?", ids)
		}
		if err := cleanup.Delete(&model.UserChallengeProgress{}).Error; err != nil {
			return err
		}

		if len(challenges) == 0 {
			return nil
		}
		return tx.Create(&challenges).Error
	})
}

func (ds *CatalogRepository) GetChallengeProgress(userID, challengeID string) (*model.UserChallengeProgress, error) {
	var progress model.UserChallengeProgress
	err := ds.db.Preload("Challenge").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (ds *CatalogRepository) GetUserChallengeProgress(userID string, challengeIDs []string) ([]model.UserChallengeProgress, error) {
	var progress []model.UserChallengeProgress
	err := ds.db.Where("user_id = ? AND challenge_id IN ?", userID, challengeIDs).
		Find(&progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}

func (ds *CatalogRepository) CreateChallengeProgress(progress *model.UserChallengeProgress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
	}
	return ds.db.Create(progress).Error
}

func (ds *CatalogRepository) UpdateChallengeProgress(progress *model.UserChallengeProgress) error {
	progress.UpdatedAt = time.Now()
	return ds.db.Save(progress).Error
}

// ==================== LEADERBOARD ====================

// UpsertLeaderboardEntry writes one (user, period, category) projection row.
func (ds *CatalogRepository) UpsertLeaderboardEntry(entry *model.LeaderboardEntry) error {
	if entry.ID == "" {
		id, _ := uuid.NewV7()
		entry.ID = id.String()
	}
	entry.UpdatedAt = time.Now()

	return ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"points", "level", "updated_at"}),
	}).Create(entry).Error
}

func (ds *CatalogRepository) GetTopLeaderboardEntries(period, category string, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := ds.db.Where("period = ? AND category = ?", period, category).
		Order("points DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
